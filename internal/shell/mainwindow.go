package shell

import (
	"log/slog"
	"sync/atomic"
	"time"
)

// DefaultQuitNotifyDelay 退出通知与进程终止之间的默认间隔
const DefaultQuitNotifyDelay = 200 * time.Millisecond

// MainWindow 主窗口生命周期策略
//
// 关闭拦截：OS 关闭请求不直接关窗，只向前端发送一次 window-close-requested，
// 由前端决定后续动作（最小化到托盘或调用 quit-app）。
// 退出编排：广播 tray-quit、隐藏托盘菜单，延迟固定的非零间隔后终止进程，
// 给前端留出落盘时间。
type MainWindow struct {
	win       Window
	popup     *PopupMenu
	broadcast EmitFunc
	terminate func()
	quitDelay time.Duration
	logger    *slog.Logger

	quitting atomic.Bool
}

// NewMainWindow 创建主窗口策略
// quitDelay 非正值时回退到 DefaultQuitNotifyDelay（间隔必须非零）。
func NewMainWindow(win Window, popup *PopupMenu, broadcast EmitFunc, terminate func(), quitDelay time.Duration, logger *slog.Logger) *MainWindow {
	if quitDelay <= 0 {
		quitDelay = DefaultQuitNotifyDelay
	}
	return &MainWindow{
		win:       win,
		popup:     popup,
		broadcast: broadcast,
		terminate: terminate,
		quitDelay: quitDelay,
		logger:    logger,
	}
}

// Reveal 唤出主窗口：还原、显示并聚焦
func (m *MainWindow) Reveal() {
	m.win.Restore()
	m.win.Show()
	m.win.Focus()
}

// HandleCloseRequested 处理被拦截的 OS 关闭请求
// 窗口保持打开，只通知前端一次。
func (m *MainWindow) HandleCloseRequested() {
	m.logger.Info("🪟 [主窗口] 拦截关闭请求，交由前端处理")
	m.win.EmitEvent(EventWindowCloseRequested, nil)
}

// HandlePopupFocusLost 托盘菜单失焦时自动隐藏
func (m *MainWindow) HandlePopupFocusLost() {
	m.popup.Hide()
}

// Quit 执行退出编排（幂等，重复调用只生效一次）
func (m *MainWindow) Quit() {
	if !m.quitting.CompareAndSwap(false, true) {
		return
	}

	m.logger.Info("👋 [主窗口] 开始退出编排", "delay", m.quitDelay)
	m.broadcast(EventTrayQuit, nil)
	m.popup.Hide()

	// 退出延迟计时器是本包唯一的后台 goroutine
	time.AfterFunc(m.quitDelay, m.terminate)
}

// Quitting 返回是否已进入退出流程
func (m *MainWindow) Quitting() bool {
	return m.quitting.Load()
}
