package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

func isSQLiteBusyError(err error) bool {
	if err == nil {
		return false
	}
	// 字符串判断，避免耦合 driver 的具体错误类型
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "sqlite_busy") || strings.Contains(msg, "database is locked")
}

// queryRowsWithSQLiteBusyRetry 在 busy/locked 时按指数退避重试查询
// 内容数据库可能被前端侧写入者同时持有，读路径需要容忍短暂锁冲突。
func queryRowsWithSQLiteBusyRetry(ctx context.Context, queryFn func() (*sql.Rows, error)) (*sql.Rows, error) {
	if ctx == nil {
		return queryFn()
	}

	backoff := 30 * time.Millisecond
	for {
		rows, err := queryFn()
		if err == nil || !isSQLiteBusyError(err) {
			return rows, err
		}

		if ctx.Err() != nil {
			return nil, err
		}

		wait := backoff
		if wait > 500*time.Millisecond {
			wait = 500 * time.Millisecond
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, err
		case <-timer.C:
		}

		backoff *= 2
	}
}
