// Package config 提供壳层配置加载与热更新
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

type Config struct {
	App      AppConfig      `yaml:"app"`
	Window   WindowConfig   `yaml:"window"`
	TrayMenu TrayMenuConfig `yaml:"tray_menu"`
	Quit     QuitConfig     `yaml:"quit"`
	Logging  LoggingConfig  `yaml:"logging"`
	Sync     SyncConfig     `yaml:"sync"`
}

type AppConfig struct {
	Name string `yaml:"name"`
}

// WindowConfig 主窗口初始尺寸
type WindowConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	MinWidth  int `yaml:"min_width"`
	MinHeight int `yaml:"min_height"`
}

// TrayMenuConfig 托盘菜单弹窗几何
type TrayMenuConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Margin int `yaml:"margin"`
}

// QuitConfig 退出编排参数
type QuitConfig struct {
	// NotifyDelay 退出通知与进程终止之间的间隔，给前端留落盘时间
	NotifyDelay time.Duration `yaml:"notify_delay"`
}

type LoggingConfig struct {
	Level           string `yaml:"level"`
	FileEnabled     bool   `yaml:"file_enabled"`
	FilePath        string `yaml:"file_path"`
	MaxFileSize     string `yaml:"max_file_size"`
	MaxFiles        int    `yaml:"max_files"`
	CompressRotated bool   `yaml:"compress_rotated"`
}

// SyncConfig 同步开关的出厂默认（用户改动持久化在设置库里）
// 指针用于区分「未配置」和显式的 false。
type SyncConfig struct {
	AutoSyncDefault *bool `yaml:"auto_sync_default"`
}

// AutoSyncDefaultEnabled 返回自动同步的出厂默认（未配置时开启）
func (c *SyncConfig) AutoSyncDefaultEnabled() bool {
	if c.AutoSyncDefault == nil {
		return true
	}
	return *c.AutoSyncDefault
}

// LoadConfig loads configuration from file
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.setDefaults()

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default values for configuration
func (c *Config) setDefaults() {
	if c.App.Name == "" {
		c.App.Name = "EFGH"
	}
	if c.Window.Width == 0 {
		c.Window.Width = 1280
	}
	if c.Window.Height == 0 {
		c.Window.Height = 800
	}
	if c.Window.MinWidth == 0 {
		c.Window.MinWidth = 1024
	}
	if c.Window.MinHeight == 0 {
		c.Window.MinHeight = 600
	}
	if c.TrayMenu.Width == 0 {
		c.TrayMenu.Width = 236
	}
	if c.TrayMenu.Height == 0 {
		c.TrayMenu.Height = 244
	}
	if c.TrayMenu.Margin == 0 {
		c.TrayMenu.Margin = 8
	}
	if c.Quit.NotifyDelay == 0 {
		c.Quit.NotifyDelay = 200 * time.Millisecond
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.FileEnabled && c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/app.log"
	}
	if c.Logging.FileEnabled && c.Logging.MaxFileSize == "" {
		c.Logging.MaxFileSize = "100MB"
	}
	if c.Logging.FileEnabled && c.Logging.MaxFiles == 0 {
		c.Logging.MaxFiles = 10
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.TrayMenu.Width <= 0 || c.TrayMenu.Height <= 0 {
		return fmt.Errorf("tray_menu 尺寸必须为正数: %dx%d", c.TrayMenu.Width, c.TrayMenu.Height)
	}
	if c.TrayMenu.Margin < 0 {
		return fmt.Errorf("tray_menu.margin 不能为负数: %d", c.TrayMenu.Margin)
	}
	if c.Quit.NotifyDelay <= 0 || c.Quit.NotifyDelay > 5*time.Second {
		return fmt.Errorf("quit.notify_delay 必须在 (0, 5s] 区间: %v", c.Quit.NotifyDelay)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("无效的日志级别: %s", c.Logging.Level)
	}
	return nil
}

// EnsureDefaultConfig writes the embedded default config on first run
// and returns the effective config path.
func EnsureDefaultConfig(dir string, defaultContent []byte) (string, error) {
	path := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, defaultContent, 0644); err != nil {
		return "", fmt.Errorf("failed to write default config: %w", err)
	}
	return path, nil
}

// SaveConfig saves configuration to file
func SaveConfig(config *Config, path string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ConfigWatcher handles automatic configuration reloading
type ConfigWatcher struct {
	configPath    string
	config        *Config
	mutex         sync.RWMutex
	watcher       *fsnotify.Watcher
	logger        *slog.Logger
	callbacks     []func(*Config)
	lastModTime   time.Time
	debounceTimer *time.Timer
}

// NewConfigWatcher creates a new configuration watcher
func NewConfigWatcher(configPath string, logger *slog.Logger) (*ConfigWatcher, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load initial config: %w", err)
	}

	fileInfo, err := os.Stat(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get file info: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}

	cw := &ConfigWatcher{
		configPath:  configPath,
		config:      config,
		watcher:     watcher,
		logger:      logger,
		callbacks:   make([]func(*Config), 0),
		lastModTime: fileInfo.ModTime(),
	}

	if err := watcher.Add(configPath); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch config file: %w", err)
	}

	go cw.watchLoop()

	return cw, nil
}

// GetConfig returns the current configuration (thread-safe)
func (cw *ConfigWatcher) GetConfig() *Config {
	cw.mutex.RLock()
	defer cw.mutex.RUnlock()
	return cw.config
}

// AddReloadCallback adds a callback function that will be called when config is reloaded
func (cw *ConfigWatcher) AddReloadCallback(callback func(*Config)) {
	cw.mutex.Lock()
	defer cw.mutex.Unlock()
	cw.callbacks = append(cw.callbacks, callback)
}

// watchLoop monitors the config file for changes
func (cw *ConfigWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) {
				fileInfo, err := os.Stat(cw.configPath)
				if err != nil {
					cw.logger.Warn(fmt.Sprintf("⚠️ 无法获取配置文件信息: %v", err))
					continue
				}
				if !fileInfo.ModTime().After(cw.lastModTime) {
					continue
				}
				cw.lastModTime = fileInfo.ModTime()

				// 防抖：编辑器保存可能触发多次写事件
				if cw.debounceTimer != nil {
					cw.debounceTimer.Stop()
				}
				cw.debounceTimer = time.AfterFunc(500*time.Millisecond, func() {
					cw.logger.Info(fmt.Sprintf("🔄 检测到配置文件变更，正在重新加载... - 文件: %s", event.Name))
					if err := cw.reloadConfig(); err != nil {
						cw.logger.Error(fmt.Sprintf("❌ 配置文件重新加载失败: %v", err))
					} else {
						cw.logger.Info("✅ 配置文件重新加载成功")
					}
				})
			}

			// 部分编辑器保存时会重命名文件，需要重新挂上监听
			if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				time.Sleep(100 * time.Millisecond)
				if _, err := os.Stat(cw.configPath); err == nil {
					cw.watcher.Add(cw.configPath)
					cw.logger.Info(fmt.Sprintf("🔄 重新监听配置文件: %s", cw.configPath))
				}
			}

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			cw.logger.Error(fmt.Sprintf("⚠️ 配置文件监听错误: %v", err))
		}
	}
}

// reloadConfig reloads the configuration from file
func (cw *ConfigWatcher) reloadConfig() error {
	newConfig, err := LoadConfig(cw.configPath)
	if err != nil {
		return err
	}

	cw.mutex.Lock()
	oldConfig := cw.config
	cw.config = newConfig
	callbacks := make([]func(*Config), len(cw.callbacks))
	copy(callbacks, cw.callbacks)
	cw.mutex.Unlock()

	for _, callback := range callbacks {
		callback(newConfig)
	}

	cw.logConfigChanges(oldConfig, newConfig)
	return nil
}

// logConfigChanges logs the key differences between old and new configurations
func (cw *ConfigWatcher) logConfigChanges(oldConfig, newConfig *Config) {
	if oldConfig.TrayMenu != newConfig.TrayMenu {
		cw.logger.Info("📐 托盘菜单几何变更",
			"old", fmt.Sprintf("%dx%d/%d", oldConfig.TrayMenu.Width, oldConfig.TrayMenu.Height, oldConfig.TrayMenu.Margin),
			"new", fmt.Sprintf("%dx%d/%d", newConfig.TrayMenu.Width, newConfig.TrayMenu.Height, newConfig.TrayMenu.Margin))
	}

	if oldConfig.Logging.Level != newConfig.Logging.Level {
		cw.logger.Info("📝 日志级别变更",
			"old_level", oldConfig.Logging.Level,
			"new_level", newConfig.Logging.Level)
	}

	if oldConfig.Quit.NotifyDelay != newConfig.Quit.NotifyDelay {
		cw.logger.Info("⏱️ 退出通知延迟变更",
			"old_delay", oldConfig.Quit.NotifyDelay,
			"new_delay", newConfig.Quit.NotifyDelay)
	}
}

// Close stops the configuration watcher
func (cw *ConfigWatcher) Close() error {
	if cw.debounceTimer != nil {
		cw.debounceTimer.Stop()
	}
	return cw.watcher.Close()
}
