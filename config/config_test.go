package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入测试配置失败: %v", err)
	}
	return path
}

// TestLoadConfigDefaults 测试空配置文件得到全部默认值
func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, "app:\n  name: \"\"\n")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig 失败: %v", err)
	}

	if cfg.TrayMenu.Width != 236 || cfg.TrayMenu.Height != 244 || cfg.TrayMenu.Margin != 8 {
		t.Errorf("托盘菜单默认几何不符: %+v", cfg.TrayMenu)
	}
	if cfg.Quit.NotifyDelay != 200*time.Millisecond {
		t.Errorf("退出延迟默认值不符: %v", cfg.Quit.NotifyDelay)
	}
	if cfg.Window.Width != 1280 || cfg.Window.MinHeight != 600 {
		t.Errorf("窗口默认尺寸不符: %+v", cfg.Window)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("日志级别默认值不符: %s", cfg.Logging.Level)
	}
}

// TestLoadConfigOverrides 测试显式配置覆盖默认值
func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
tray_menu:
  width: 300
  height: 400
  margin: 16
quit:
  notify_delay: 500ms
logging:
  level: "debug"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig 失败: %v", err)
	}

	if cfg.TrayMenu.Width != 300 || cfg.TrayMenu.Margin != 16 {
		t.Errorf("托盘菜单配置未生效: %+v", cfg.TrayMenu)
	}
	if cfg.Quit.NotifyDelay != 500*time.Millisecond {
		t.Errorf("退出延迟未生效: %v", cfg.Quit.NotifyDelay)
	}
}

// TestAutoSyncDefault 测试自动同步出厂默认：未配置开启，显式 false 生效
func TestAutoSyncDefault(t *testing.T) {
	path := writeConfig(t, "app:\n  name: \"EFGH\"\n")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig 失败: %v", err)
	}
	if !cfg.Sync.AutoSyncDefaultEnabled() {
		t.Error("未配置时自动同步出厂默认应开启")
	}

	path = writeConfig(t, "sync:\n  auto_sync_default: false\n")
	cfg, err = LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig 失败: %v", err)
	}
	if cfg.Sync.AutoSyncDefaultEnabled() {
		t.Error("显式配置 false 应生效")
	}
}

// TestLoadConfigInvalid 测试非法配置被拒绝
func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"负边距", "tray_menu:\n  margin: -1\n"},
		{"超长退出延迟", "quit:\n  notify_delay: 10s\n"},
		{"未知日志级别", "logging:\n  level: \"verbose\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.content)
			if _, err := LoadConfig(path); err == nil {
				t.Error("非法配置应返回错误")
			}
		})
	}
}

// TestEnsureDefaultConfig 测试首次运行写出默认配置且不覆盖已有文件
func TestEnsureDefaultConfig(t *testing.T) {
	dir := t.TempDir()
	content := []byte("tray_menu:\n  width: 236\n")

	path, err := EnsureDefaultConfig(dir, content)
	if err != nil {
		t.Fatalf("EnsureDefaultConfig 失败: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("默认配置文件应已写出: %v", err)
	}

	// 修改后再次调用不应覆盖
	if err := os.WriteFile(path, []byte("tray_menu:\n  width: 999\n"), 0644); err != nil {
		t.Fatalf("改写配置失败: %v", err)
	}
	if _, err := EnsureDefaultConfig(dir, content); err != nil {
		t.Fatalf("二次 EnsureDefaultConfig 失败: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig 失败: %v", err)
	}
	if cfg.TrayMenu.Width != 999 {
		t.Errorf("已有配置被覆盖: width = %d", cfg.TrayMenu.Width)
	}
}

// TestConfigWatcherReload 测试配置热更新触发回调
func TestConfigWatcherReload(t *testing.T) {
	path := writeConfig(t, "tray_menu:\n  width: 236\n")

	cw, err := NewConfigWatcher(path, discardLogger())
	if err != nil {
		t.Fatalf("NewConfigWatcher 失败: %v", err)
	}
	defer cw.Close()

	reloaded := make(chan *Config, 1)
	cw.AddReloadCallback(func(c *Config) {
		select {
		case reloaded <- c:
		default:
		}
	})

	// 等一拍再写，确保修改时间前进
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(path, []byte("tray_menu:\n  width: 300\n"), 0644); err != nil {
		t.Fatalf("改写配置失败: %v", err)
	}

	select {
	case c := <-reloaded:
		if c.TrayMenu.Width != 300 {
			t.Errorf("热更新后的配置不符: width = %d", c.TrayMenu.Width)
		}
		if cw.GetConfig().TrayMenu.Width != 300 {
			t.Error("GetConfig 应返回新配置")
		}
	case <-time.After(5 * time.Second):
		t.Fatal("超时：未收到热更新回调")
	}
}
