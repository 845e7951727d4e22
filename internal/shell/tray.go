package shell

import (
	"log/slog"

	"efgh-desktop/internal/geometry"
)

// PointerButton 托盘图标上的鼠标按键
type PointerButton int

const (
	ButtonLeft PointerButton = iota
	ButtonRight
	ButtonOther
)

// PointerState 按键阶段
type PointerState int

const (
	StatePressed PointerState = iota
	StateReleased
)

// PointerEvent 托盘图标指针事件（按键 × 阶段 × 屏幕坐标）
type PointerEvent struct {
	Button PointerButton
	State  PointerState
	Point  geometry.Point
}

// Dispatcher 托盘图标事件分发器
// 左键释放：隐藏托盘菜单并唤出主窗口；右键释放：在触发点切换托盘菜单；
// 其余事件（按下阶段、其它按键）忽略。
type Dispatcher struct {
	popup  *PopupMenu
	main   *MainWindow
	logger *slog.Logger
}

// NewDispatcher 创建托盘事件分发器
func NewDispatcher(popup *PopupMenu, main *MainWindow, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{popup: popup, main: main, logger: logger}
}

// Dispatch 分类并路由一个托盘指针事件
func (d *Dispatcher) Dispatch(ev PointerEvent) {
	if ev.State != StateReleased {
		return
	}

	switch ev.Button {
	case ButtonLeft:
		d.logger.Debug("🖱️ [托盘] 左键释放，唤出主窗口")
		d.popup.Hide()
		d.main.Reveal()

	case ButtonRight:
		d.logger.Debug("🖱️ [托盘] 右键释放，切换托盘菜单",
			"x", ev.Point.X, "y", ev.Point.Y)
		if err := d.popup.ShowAt(ev.Point); err != nil {
			d.logger.Warn("⚠️ [托盘] 托盘菜单切换失败", "error", err)
		}

	default:
		// 其它按键不响应
	}
}
