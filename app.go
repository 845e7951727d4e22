// app.go - Wails 应用核心结构
// 封装壳层组件，提供生命周期管理

package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"efgh-desktop/config"
	"efgh-desktop/internal/logging"
	"efgh-desktop/internal/service"
	"efgh-desktop/internal/shell"
	"efgh-desktop/internal/storage"
	"efgh-desktop/internal/store"
)

// App 是 Wails 应用的核心结构
// 封装壳层组件，并把命令面暴露给前端调用
type App struct {
	logger        *slog.Logger
	configWatcher *config.ConfigWatcher

	// Wails 运行时（Run 之前完成绑定）
	app        *application.App
	mainWindow *application.WebviewWindow

	// 壳层核心
	popup      *shell.PopupMenu
	main       *shell.MainWindow
	dispatcher *shell.Dispatcher

	// 壳层设置存储 (SQLite)
	shellDB         *sql.DB
	settingsService *service.SettingsService

	// 运行环境
	portable  bool
	startTime time.Time

	// 日志处理器（用于查询和广播）
	logHandler *logging.BroadcastHandler
	logEmitter *logging.EventEmitter
}

// NewApp 创建新的应用实例
func NewApp() *App {
	return &App{
		startTime: time.Now(),
	}
}

// setupShellStore 打开壳层设置库并初始化表结构
// 壳层自有状态放在独立的 shell.db，不与内容数据库共用连接。
func (a *App) setupShellStore() error {
	dbPath := filepath.Join(storage.GetDataDir(), "shell.db")

	db, err := sql.Open("sqlite", storage.ConnString(dbPath))
	if err != nil {
		return fmt.Errorf("打开壳层设置库失败: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	settingsStore := store.NewSQLiteSettingsStore(db)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := settingsStore.InitSchema(ctx); err != nil {
		db.Close()
		return fmt.Errorf("初始化壳层设置表失败: %w", err)
	}

	a.shellDB = db
	a.settingsService = service.NewSettingsService(settingsStore)
	a.settingsService.SetAutoSyncDefault(a.configWatcher.GetConfig().Sync.AutoSyncDefaultEnabled())
	a.logger.Info("✅ 壳层设置库已就绪", "db", dbPath)
	return nil
}

// setupShell 组装壳层核心组件并预热托盘菜单窗口
func (a *App) setupShell(cfg *config.Config) {
	registry := &wailsRegistry{
		app: a.app,
		trayMenuSize: geometrySize(cfg.TrayMenu.Width, cfg.TrayMenu.Height),
	}

	a.popup = shell.NewPopupMenu(registry, wailsScreens{},
		geometrySize(cfg.TrayMenu.Width, cfg.TrayMenu.Height), cfg.TrayMenu.Margin, a.logger)

	a.main = shell.NewMainWindow(
		&wailsWindow{win: a.mainWindow},
		a.popup,
		a.emitAll,
		a.app.Quit,
		cfg.Quit.NotifyDelay,
		a.logger,
	)
	registry.onPopupFocusLost = a.main.HandlePopupFocusLost

	a.dispatcher = shell.NewDispatcher(a.popup, a.main, a.logger)

	// 主窗口关闭拦截：退出编排进行中放行，否则只通知前端
	a.mainWindow.RegisterHook(events.Common.WindowClosing, func(e *application.WindowEvent) {
		if a.main.Quitting() {
			return
		}
		e.Cancel()
		a.main.HandleCloseRequested()
	})

	// 预热托盘菜单窗口，首次右键无需等待创建
	if err := a.popup.Ensure(); err != nil {
		a.logger.Warn("⚠️ 托盘菜单窗口预热失败，将在首次使用时重试", "error", err)
	}
}

// setupWindowStatePersistence 挂接主窗口状态持久化
// 移动/缩放即保存，退出编排期间跳过。
func (a *App) setupWindowStatePersistence() {
	save := func(e *application.WindowEvent) {
		if a.main != nil && a.main.Quitting() {
			return
		}
		x, y := a.mainWindow.Position()
		w, h := a.mainWindow.Size()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := a.settingsService.SaveWindowState(ctx, service.WindowState{
			X: x, Y: y, Width: w, Height: h,
		}); err != nil {
			a.logger.Debug("⚠️ 保存窗口状态失败", "error", err)
		}
	}
	a.mainWindow.RegisterHook(events.Common.WindowDidMove, save)
	a.mainWindow.RegisterHook(events.Common.WindowDidResize, save)
}

// restoreWindowPosition 把主窗口移回上次保存的位置
// 尺寸在创建窗口时已应用，这里只处理坐标。
func (a *App) restoreWindowPosition(state *service.WindowState) {
	if state == nil {
		return
	}
	// 稍等窗口初始化完成再移动
	go func() {
		time.Sleep(200 * time.Millisecond)
		a.mainWindow.SetPosition(state.X, state.Y)
	}()
}

// onConfigReloaded 配置热更新：重设弹窗几何与日志级别，并通知前端
func (a *App) onConfigReloaded(cfg *config.Config) {
	if a.popup != nil {
		a.popup.SetGeometry(geometrySize(cfg.TrayMenu.Width, cfg.TrayMenu.Height), cfg.TrayMenu.Margin)
	}
	if currentLogHandler != nil {
		currentLogHandler.SetLevel(parseLogLevel(cfg.Logging.Level))
	}
	a.emitAll(EventConfigReloaded, nil)
}

// shutdown 释放应用资源
func (a *App) shutdown() {
	if a.logEmitter != nil {
		a.logEmitter.Stop()
	}
	if a.configWatcher != nil {
		a.configWatcher.Close()
	}
	if a.shellDB != nil {
		a.shellDB.Close()
	}
	if currentLogHandler != nil {
		currentLogHandler.Close()
	}
}
