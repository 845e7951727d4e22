// app_api.go - 暴露给前端的 API 方法 (Wails Bindings)
// 这些方法会被自动生成为 JavaScript 调用
// 命令面全部即发即弃：OS 层面的失败不回传前端

package main

import (
	"context"
	"time"

	"efgh-desktop/internal/logging"
	"efgh-desktop/internal/storage"
)

// ============================================================
// 窗口/托盘命令
// ============================================================

// CloseTrayMenu 关闭托盘菜单
func (a *App) CloseTrayMenu() {
	if a.popup != nil {
		a.popup.Hide()
	}
}

// ShowMainWindow 唤出主窗口（还原、显示、聚焦）
func (a *App) ShowMainWindow() {
	if a.main != nil {
		a.main.Reveal()
	}
}

// NavigateMain 唤出主窗口并让前端切换到指定路由
func (a *App) NavigateMain(path string) {
	if a.main == nil {
		return
	}
	a.main.Reveal()
	a.emitNavigate(path)
}

// QuitApp 执行退出编排
func (a *App) QuitApp() {
	if a.main != nil {
		a.main.Quit()
	}
}

// ============================================================
// 同步命令
// ============================================================

// ToggleSync 请求前端执行一次手动同步
func (a *App) ToggleSync() {
	a.logger.Info("🔄 [同步] 手动同步请求")
	a.emitAll(EventTrayToggleSync, nil)
}

// SetAutoSync 持久化自动同步开关并广播给所有前端
func (a *App) SetAutoSync(enabled bool) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if a.settingsService != nil {
		if err := a.settingsService.SetAutoSync(ctx, enabled); err != nil {
			a.logger.Warn("⚠️ [同步] 自动同步开关保存失败", "error", err)
		}
	}
	a.emitAll(EventTraySetAutoSync, map[string]any{"enabled": enabled})
}

// GetAutoSync 读取自动同步开关
func (a *App) GetAutoSync() bool {
	if a.settingsService == nil {
		return true
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	return a.settingsService.AutoSyncEnabled(ctx)
}

// ============================================================
// 环境命令
// ============================================================

// PrepareDBPath 准备内容数据库文件并返回其绝对路径
// 含旧版本数据库位置的一次性迁移。
func (a *App) PrepareDBPath() (string, error) {
	path, err := storage.PrepareDatabasePath(a.logger)
	if err != nil {
		a.logger.Error("❌ [存储] 内容数据库准备失败", "error", err)
		return "", err
	}
	return path, nil
}

// IsPortable 返回应用是否以便携模式运行
func (a *App) IsPortable() bool {
	return a.portable
}

// GetAppInfo 返回应用运行信息（关于页展示用）
func (a *App) GetAppInfo() map[string]any {
	return map[string]any{
		"version":  Version,
		"commit":   Commit,
		"built":    BuildTime,
		"portable": a.portable,
		"uptime":   time.Since(a.startTime).Round(time.Second).String(),
		"data_dir": storage.GetAppDataDir(),
	}
}

// ============================================================
// 日志 API
// ============================================================

// GetRecentLogs 返回内存中缓存的近期日志
func (a *App) GetRecentLogs() []logging.LogEntry {
	if a.logHandler == nil {
		return nil
	}
	return a.logHandler.GetRecent()
}

// StartLogStream 开始向前端批量推送日志（日志面板就绪后调用）
func (a *App) StartLogStream() {
	if a.logEmitter == nil || a.logHandler == nil {
		return
	}
	a.logEmitter.Start(a.emitAll)
	a.logHandler.SetEmitter(a.logEmitter)
}
