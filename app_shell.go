// app_shell.go - Wails 运行时到 shell 抽象的适配层
// shell 包核心只认接口，这里把 v3 的窗口/屏幕/托盘接上去

package main

import (
	"github.com/wailsapp/wails/v3/pkg/application"
	"github.com/wailsapp/wails/v3/pkg/events"

	"efgh-desktop/internal/cursor"
	"efgh-desktop/internal/geometry"
	"efgh-desktop/internal/screens"
	"efgh-desktop/internal/shell"
)

func geometrySize(w, h int) geometry.Size {
	return geometry.Size{Width: w, Height: h}
}

// wailsWindow 把 *application.WebviewWindow 适配成 shell.Window
type wailsWindow struct {
	win *application.WebviewWindow
}

func (w *wailsWindow) Show()    { w.win.Show() }
func (w *wailsWindow) Hide()    { w.win.Hide() }
func (w *wailsWindow) Focus()   { w.win.Focus() }
func (w *wailsWindow) Restore() { w.win.Restore() }

func (w *wailsWindow) SetSize(width, height int) {
	w.win.SetSize(width, height)
}

func (w *wailsWindow) SetPosition(x, y int) {
	w.win.SetPosition(x, y)
}

func (w *wailsWindow) EmitEvent(name string, data any) {
	w.win.EmitEvent(name, data)
}

// wailsRegistry 按逻辑名惰性创建窗口
// 托盘菜单窗口在这里配置：无边框、置顶、隐藏启动、不上任务栏。
type wailsRegistry struct {
	app              *application.App
	trayMenuSize     geometry.Size
	onPopupFocusLost func()
}

func (r *wailsRegistry) Window(name string) (shell.Window, error) {
	switch name {
	case shell.TrayMenuWindowName:
		win := r.app.Window.NewWithOptions(application.WebviewWindowOptions{
			Name:             shell.TrayMenuWindowName,
			Title:            "",
			Width:            r.trayMenuSize.Width,
			Height:           r.trayMenuSize.Height,
			Frameless:        true,
			AlwaysOnTop:      true,
			Hidden:           true,
			DisableResize:    true,
			BackgroundColour: application.NewRGB(26, 26, 46),
			URL:              "/#/tray",
			Windows: application.WindowsWindow{
				HiddenOnTaskbar: true,
			},
			Mac: application.MacWindow{
				Backdrop: application.MacBackdropTranslucent,
			},
		})

		// 失焦自动隐藏
		win.RegisterHook(events.Common.WindowLostFocus, func(e *application.WindowEvent) {
			if r.onPopupFocusLost != nil {
				r.onPopupFocusLost()
			}
		})

		return &wailsWindow{win: win}, nil

	default:
		return nil, errUnknownWindow(name)
	}
}

type errUnknownWindow string

func (e errUnknownWindow) Error() string {
	return "未知的窗口名: " + string(e)
}

// wailsScreens 把显示器枚举适配成 shell.ScreenSource
type wailsScreens struct{}

func (wailsScreens) Displays() []geometry.Rect {
	return screens.Displays()
}

// trayPointerEvent 构造一个托盘指针事件
// 托盘回调不带坐标，在回调瞬间查询指针位置；查询失败用零点，
// 零点不在任何显示器内时解析器会退回兜底边界。
func trayPointerEvent(button shell.PointerButton) shell.PointerEvent {
	point, _ := cursor.Position()
	return shell.PointerEvent{
		Button: button,
		State:  shell.StateReleased,
		Point:  point,
	}
}
