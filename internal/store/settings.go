// Package store 提供壳层自有状态的 SQLite 存储
// 只存放壳层设置（同步开关、窗口状态等），应用内容的表结构不归这里管。
package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// SettingRecord 表示数据库中的一条壳层设置
type SettingRecord struct {
	ID       int64  `json:"id"`
	Category string `json:"category"`
	Key      string `json:"key"`
	Value    string `json:"value"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SettingsStore 定义壳层设置存储接口
type SettingsStore interface {
	Get(ctx context.Context, category, key string) (*SettingRecord, error)
	Set(ctx context.Context, category, key, value string) error
	Delete(ctx context.Context, category, key string) error
	GetByCategory(ctx context.Context, category string) ([]*SettingRecord, error)
	Count(ctx context.Context) (int, error)
}

// SQLiteSettingsStore 实现 SettingsStore 接口
type SQLiteSettingsStore struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteSettingsStore 创建新的 SQLite 设置存储
func NewSQLiteSettingsStore(db *sql.DB) *SQLiteSettingsStore {
	return &SQLiteSettingsStore{db: db}
}

// InitSchema 创建壳层设置表（幂等）
func (s *SQLiteSettingsStore) InitSchema(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	schema := `
		CREATE TABLE IF NOT EXISTS shell_settings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			key TEXT NOT NULL,
			value TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(category, key)
		)
	`

	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("创建设置表失败: %w", err)
	}
	return nil
}

// Get 获取单个设置，不存在时返回 (nil, nil)
func (s *SQLiteSettingsStore) Get(ctx context.Context, category, key string) (*SettingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, category, key, value, created_at, updated_at
		FROM shell_settings
		WHERE category = ? AND key = ?
	`

	var record SettingRecord
	var createdAt, updatedAt string

	err := s.db.QueryRowContext(ctx, query, category, key).Scan(
		&record.ID, &record.Category, &record.Key, &record.Value,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("获取设置失败: %w", err)
	}

	record.CreatedAt = parseSQLiteDateTime(createdAt)
	record.UpdatedAt = parseSQLiteDateTime(updatedAt)
	return &record, nil
}

// Set 设置单个值（存在则更新，不存在则插入）
func (s *SQLiteSettingsStore) Set(ctx context.Context, category, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO shell_settings (category, key, value)
		VALUES (?, ?, ?)
		ON CONFLICT(category, key) DO UPDATE SET
			value = excluded.value,
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := s.db.ExecContext(ctx, query, category, key, value); err != nil {
		return fmt.Errorf("设置值失败: %w", err)
	}
	return nil
}

// Delete 删除单个设置
func (s *SQLiteSettingsStore) Delete(ctx context.Context, category, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx,
		`DELETE FROM shell_settings WHERE category = ? AND key = ?`, category, key)
	if err != nil {
		return fmt.Errorf("删除设置失败: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		return fmt.Errorf("设置不存在: %s.%s", category, key)
	}
	return nil
}

// GetByCategory 获取分类下的所有设置
func (s *SQLiteSettingsStore) GetByCategory(ctx context.Context, category string) ([]*SettingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT id, category, key, value, created_at, updated_at
		FROM shell_settings
		WHERE category = ?
		ORDER BY key ASC
	`

	rows, err := queryRowsWithSQLiteBusyRetry(ctx, func() (*sql.Rows, error) {
		return s.db.QueryContext(ctx, query, category)
	})
	if err != nil {
		return nil, fmt.Errorf("查询设置失败: %w", err)
	}
	defer rows.Close()

	var records []*SettingRecord
	for rows.Next() {
		var record SettingRecord
		var createdAt, updatedAt string

		if err := rows.Scan(
			&record.ID, &record.Category, &record.Key, &record.Value,
			&createdAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("扫描设置记录失败: %w", err)
		}

		record.CreatedAt = parseSQLiteDateTime(createdAt)
		record.UpdatedAt = parseSQLiteDateTime(updatedAt)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("遍历设置记录失败: %w", err)
	}
	return records, nil
}

// Count 获取设置总数
func (s *SQLiteSettingsStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM shell_settings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("获取设置数量失败: %w", err)
	}
	return count, nil
}
