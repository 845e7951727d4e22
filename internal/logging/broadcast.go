package logging

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
)

// BroadcastHandler 包装另一个 slog.Handler，旁路缓存近期日志并转发给 EventEmitter
// 日志先交给内层 handler 输出，再进入环形缓冲；缓冲满时淘汰最旧的。
type BroadcastHandler struct {
	inner slog.Handler

	mu         sync.Mutex
	entries    []LogEntry
	maxEntries int
	emitter    *EventEmitter
}

// NewBroadcastHandler 创建广播处理器
func NewBroadcastHandler(inner slog.Handler, maxEntries int) *BroadcastHandler {
	if maxEntries <= 0 {
		maxEntries = 1000
	}
	return &BroadcastHandler{
		inner:      inner,
		maxEntries: maxEntries,
	}
}

// SetEmitter 绑定事件发射器（前端日志面板就绪后调用）
func (h *BroadcastHandler) SetEmitter(emitter *EventEmitter) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.emitter = emitter
}

// GetRecent 返回缓存中的近期日志（副本）
func (h *BroadcastHandler) GetRecent() []LogEntry {
	h.mu.Lock()
	defer h.mu.Unlock()

	out := make([]LogEntry, len(h.entries))
	copy(out, h.entries)
	return out
}

func (h *BroadcastHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *BroadcastHandler) Handle(ctx context.Context, r slog.Record) error {
	err := h.inner.Handle(ctx, r)

	message := r.Message
	var attrs []string
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, fmt.Sprintf("%s=%v", a.Key, a.Value))
		return true
	})
	if len(attrs) > 0 {
		message = message + " " + strings.Join(attrs, " ")
	}

	entry := NewLogEntry(levelName(r.Level), message)

	h.mu.Lock()
	h.entries = append(h.entries, entry)
	if len(h.entries) > h.maxEntries {
		h.entries = h.entries[len(h.entries)-h.maxEntries:]
	}
	emitter := h.emitter
	h.mu.Unlock()

	if emitter != nil {
		emitter.Emit(entry)
	}

	return err
}

func (h *BroadcastHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &BroadcastHandler{
		inner:      h.inner.WithAttrs(attrs),
		maxEntries: h.maxEntries,
		emitter:    h.emitter,
	}
}

func (h *BroadcastHandler) WithGroup(name string) slog.Handler {
	return &BroadcastHandler{
		inner:      h.inner.WithGroup(name),
		maxEntries: h.maxEntries,
		emitter:    h.emitter,
	}
}

func levelName(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
