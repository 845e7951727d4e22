// Package shell 实现托盘/窗口生命周期控制核心
// 所有组件只依赖本文件的抽象接口，Wails 运行时通过根目录适配层接入，
// 组件本身可用假实现独立测试。
package shell

import "efgh-desktop/internal/geometry"

// 逻辑窗口名常量
const (
	MainWindowName     = "main"
	TrayMenuWindowName = "tray-menu"
)

// 由 shell 组件发出的前端通知事件名
const (
	EventTrayMenuPosition     = "tray-menu-position"
	EventWindowCloseRequested = "window-close-requested"
	EventTrayQuit             = "tray-quit"
)

// Window 抽象单个窗口的 OS 级操作
// 所有方法均为尽力而为：底层失败不反馈给调用方，也不影响逻辑状态。
type Window interface {
	Show()
	Hide()
	Focus()
	Restore()
	SetSize(width, height int)
	SetPosition(x, y int)
	EmitEvent(name string, data any)
}

// WindowRegistry 按逻辑名解析（或惰性创建）窗口
type WindowRegistry interface {
	Window(name string) (Window, error)
}

// ScreenSource 查询当前所有显示器的边界
// 每次定位都重新查询，不缓存（显示器可能热插拔）。
type ScreenSource interface {
	Displays() []geometry.Rect
}

// EmitFunc 应用级事件广播（发送到所有窗口的前端）
type EmitFunc func(name string, data any)
