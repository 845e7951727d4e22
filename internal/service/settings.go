// Package service 提供壳层设置的业务封装
package service

import (
	"context"
	"log/slog"
	"strconv"

	"efgh-desktop/internal/store"
)

// 设置分类常量
const (
	CategorySync   = "sync"
	CategoryWindow = "window"
)

// 设置键常量
const (
	KeyAutoSyncEnabled = "auto_sync_enabled"

	KeyWindowX      = "x"
	KeyWindowY      = "y"
	KeyWindowWidth  = "width"
	KeyWindowHeight = "height"
)

// WindowState 主窗口位置与尺寸
type WindowState struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// SettingsService 壳层设置业务服务
type SettingsService struct {
	store           store.SettingsStore
	onChangeFunc    func(category, key string)
	autoSyncDefault bool
}

// NewSettingsService 创建设置服务实例
func NewSettingsService(store store.SettingsStore) *SettingsService {
	return &SettingsService{store: store, autoSyncDefault: true}
}

// SetAutoSyncDefault 设置自动同步的出厂默认值（来自配置文件）
// 只影响用户尚未持久化过开关时的读取结果。
func (s *SettingsService) SetAutoSyncDefault(enabled bool) {
	s.autoSyncDefault = enabled
}

// SetOnChangeCallback 设置变更回调
func (s *SettingsService) SetOnChangeCallback(fn func(category, key string)) {
	s.onChangeFunc = fn
}

// GetValue 获取设置值（不存在时返回空串）
func (s *SettingsService) GetValue(ctx context.Context, category, key string) (string, error) {
	record, err := s.store.Get(ctx, category, key)
	if err != nil {
		return "", err
	}
	if record == nil {
		return "", nil
	}
	return record.Value, nil
}

// GetBool 获取布尔值
func (s *SettingsService) GetBool(ctx context.Context, category, key string, defaultVal bool) bool {
	val, err := s.GetValue(ctx, category, key)
	if err != nil || val == "" {
		return defaultVal
	}
	return val == "true" || val == "1" || val == "yes"
}

// GetInt 获取整数值
func (s *SettingsService) GetInt(ctx context.Context, category, key string, defaultVal int) int {
	val, err := s.GetValue(ctx, category, key)
	if err != nil || val == "" {
		return defaultVal
	}
	if i, err := strconv.Atoi(val); err == nil {
		return i
	}
	return defaultVal
}

// Set 设置单个值并触发变更回调
func (s *SettingsService) Set(ctx context.Context, category, key, value string) error {
	if err := s.store.Set(ctx, category, key, value); err != nil {
		return err
	}
	if s.onChangeFunc != nil {
		s.onChangeFunc(category, key)
	}
	return nil
}

// SetBool 设置布尔值
func (s *SettingsService) SetBool(ctx context.Context, category, key string, value bool) error {
	return s.Set(ctx, category, key, strconv.FormatBool(value))
}

// AutoSyncEnabled 读取自动同步开关（未设置时取出厂默认）
func (s *SettingsService) AutoSyncEnabled(ctx context.Context) bool {
	return s.GetBool(ctx, CategorySync, KeyAutoSyncEnabled, s.autoSyncDefault)
}

// SetAutoSync 持久化自动同步开关
func (s *SettingsService) SetAutoSync(ctx context.Context, enabled bool) error {
	if err := s.SetBool(ctx, CategorySync, KeyAutoSyncEnabled, enabled); err != nil {
		return err
	}
	slog.Info("✅ [设置] 自动同步开关已保存", "enabled", enabled)
	return nil
}

// WindowState 读取保存的主窗口状态，没有完整记录时返回 (nil, nil)
func (s *SettingsService) WindowState(ctx context.Context) (*WindowState, error) {
	records, err := s.store.GetByCategory(ctx, CategoryWindow)
	if err != nil {
		return nil, err
	}

	vals := make(map[string]int, len(records))
	for _, r := range records {
		if i, err := strconv.Atoi(r.Value); err == nil {
			vals[r.Key] = i
		}
	}

	w, okW := vals[KeyWindowWidth]
	h, okH := vals[KeyWindowHeight]
	if !okW || !okH || w <= 0 || h <= 0 {
		return nil, nil
	}

	return &WindowState{
		X:      vals[KeyWindowX],
		Y:      vals[KeyWindowY],
		Width:  w,
		Height: h,
	}, nil
}

// SaveWindowState 保存主窗口位置与尺寸
func (s *SettingsService) SaveWindowState(ctx context.Context, state WindowState) error {
	for key, val := range map[string]int{
		KeyWindowX:      state.X,
		KeyWindowY:      state.Y,
		KeyWindowWidth:  state.Width,
		KeyWindowHeight: state.Height,
	} {
		if err := s.store.Set(ctx, CategoryWindow, key, strconv.Itoa(val)); err != nil {
			return err
		}
	}
	return nil
}
