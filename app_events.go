// app_events.go - 前端事件发射
// 壳层状态变化通过这些事件通知前端

package main

// 事件名称常量
// 托盘菜单定位、关闭拦截、退出广播的事件名定义在 internal/shell。
const (
	EventNavigate        = "efgh:navigate"
	EventTrayToggleSync  = "tray-toggle-sync"
	EventTraySetAutoSync = "tray-set-auto-sync"
	EventConfigReloaded  = "config:reloaded"
)

// emitAll 向所有窗口的前端广播事件
func (a *App) emitAll(name string, data any) {
	if a.app == nil {
		return
	}
	a.app.Event.Emit(name, data)
}

// emitNavigate 通知主窗口前端切换路由（总是 replace，避免污染历史栈）
func (a *App) emitNavigate(path string) {
	if a.app == nil {
		return
	}
	a.emitAll(EventNavigate, map[string]any{
		"path":    path,
		"replace": true,
	})
}
