package service

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"

	"efgh-desktop/internal/store"
)

// createService 创建带真实 SQLite 存储的设置服务
func createService(t *testing.T) *SettingsService {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite", dbPath+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		t.Fatalf("打开数据库失败: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	st := store.NewSQLiteSettingsStore(db)
	if err := st.InitSchema(context.Background()); err != nil {
		t.Fatalf("初始化设置表失败: %v", err)
	}
	return NewSettingsService(st)
}

// TestAutoSyncDefaultEnabled 测试未设置时自动同步默认开启
func TestAutoSyncDefaultEnabled(t *testing.T) {
	svc := createService(t)

	if !svc.AutoSyncEnabled(context.Background()) {
		t.Error("自动同步默认应开启")
	}
}

// TestAutoSyncDefaultFromConfig 测试出厂默认可由配置覆盖，持久化后不再生效
func TestAutoSyncDefaultFromConfig(t *testing.T) {
	svc := createService(t)
	ctx := context.Background()

	svc.SetAutoSyncDefault(false)
	if svc.AutoSyncEnabled(ctx) {
		t.Error("出厂默认为关时未设置应返回 false")
	}

	if err := svc.SetAutoSync(ctx, true); err != nil {
		t.Fatalf("SetAutoSync 失败: %v", err)
	}
	if !svc.AutoSyncEnabled(ctx) {
		t.Error("持久化的开关应优先于出厂默认")
	}
}

// TestSetAutoSyncPersists 测试自动同步开关持久化
func TestSetAutoSyncPersists(t *testing.T) {
	svc := createService(t)
	ctx := context.Background()

	if err := svc.SetAutoSync(ctx, false); err != nil {
		t.Fatalf("SetAutoSync 失败: %v", err)
	}
	if svc.AutoSyncEnabled(ctx) {
		t.Error("关闭后 AutoSyncEnabled 应为 false")
	}

	if err := svc.SetAutoSync(ctx, true); err != nil {
		t.Fatalf("SetAutoSync 失败: %v", err)
	}
	if !svc.AutoSyncEnabled(ctx) {
		t.Error("开启后 AutoSyncEnabled 应为 true")
	}
}

// TestOnChangeCallback 测试 Set 触发变更回调
func TestOnChangeCallback(t *testing.T) {
	svc := createService(t)

	var gotCategory, gotKey string
	svc.SetOnChangeCallback(func(category, key string) {
		gotCategory, gotKey = category, key
	})

	if err := svc.SetAutoSync(context.Background(), false); err != nil {
		t.Fatalf("SetAutoSync 失败: %v", err)
	}
	if gotCategory != CategorySync || gotKey != KeyAutoSyncEnabled {
		t.Errorf("回调参数不符: %s.%s", gotCategory, gotKey)
	}
}

// TestWindowStateRoundTrip 测试窗口状态保存与恢复
func TestWindowStateRoundTrip(t *testing.T) {
	svc := createService(t)
	ctx := context.Background()

	state, err := svc.WindowState(ctx)
	if err != nil {
		t.Fatalf("WindowState 失败: %v", err)
	}
	if state != nil {
		t.Fatal("无记录时应返回 nil")
	}

	saved := WindowState{X: 100, Y: 50, Width: 1200, Height: 800}
	if err := svc.SaveWindowState(ctx, saved); err != nil {
		t.Fatalf("SaveWindowState 失败: %v", err)
	}

	state, err = svc.WindowState(ctx)
	if err != nil {
		t.Fatalf("WindowState 失败: %v", err)
	}
	if state == nil || *state != saved {
		t.Errorf("恢复的窗口状态不符: %+v", state)
	}
}

// TestWindowStateInvalidSize 测试尺寸非法时视为无记录
func TestWindowStateInvalidSize(t *testing.T) {
	svc := createService(t)
	ctx := context.Background()

	if err := svc.SaveWindowState(ctx, WindowState{X: 10, Y: 10, Width: 0, Height: 0}); err != nil {
		t.Fatalf("SaveWindowState 失败: %v", err)
	}

	state, err := svc.WindowState(ctx)
	if err != nil {
		t.Fatalf("WindowState 失败: %v", err)
	}
	if state != nil {
		t.Errorf("非法尺寸应返回 nil, got %+v", state)
	}
}
