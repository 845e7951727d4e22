// Package logging 提供日志广播与文件轮转
// slog 主路径由根目录的 SimpleHandler 负责输出，这里的 BroadcastHandler
// 只做旁路：缓存近期日志并批量推送到前端日志面板。
package logging

import (
	"time"

	"github.com/google/uuid"
)

// LogEntry 推送到前端的单条日志
// ID 用作前端列表的稳定 key。
type LogEntry struct {
	ID        string    `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// NewLogEntry 创建一条带唯一 ID 的日志
func NewLogEntry(level, message string) LogEntry {
	return LogEntry{
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
	}
}
