package shell

import (
	"fmt"
	"log/slog"

	"efgh-desktop/internal/geometry"
)

// PopupMenu 托盘菜单窗口生命周期管理器
//
// 状态机：未初始化 → 预热（隐藏）→ {隐藏, 可见}。
// 窗口一经创建即复用，显示/隐藏只切换可见性，不销毁重建。
// 所有方法只在 UI 事件循环线程上调用，不加锁。
type PopupMenu struct {
	registry WindowRegistry
	screens  ScreenSource
	logger   *slog.Logger

	size   geometry.Size
	margin int

	win     Window
	visible bool
}

// NewPopupMenu 创建托盘菜单管理器（窗口此时尚未创建）
func NewPopupMenu(registry WindowRegistry, screens ScreenSource, size geometry.Size, margin int, logger *slog.Logger) *PopupMenu {
	return &PopupMenu{
		registry: registry,
		screens:  screens,
		logger:   logger,
		size:     size,
		margin:   margin,
	}
}

// SetGeometry 更新弹窗尺寸与边距（配置热更新时调用，下次显示生效）
func (p *PopupMenu) SetGeometry(size geometry.Size, margin int) {
	p.size = size
	p.margin = margin
}

// Ensure 确保托盘菜单窗口已创建（幂等）
// 已创建时立即返回；创建失败返回错误且不改变状态，后续调用会重试。
func (p *PopupMenu) Ensure() error {
	if p.win != nil {
		return nil
	}

	win, err := p.registry.Window(TrayMenuWindowName)
	if err != nil {
		return fmt.Errorf("创建托盘菜单窗口失败: %w", err)
	}

	p.win = win
	p.logger.Info("✅ [托盘菜单] 窗口已预热（隐藏）")
	return nil
}

// ShowAt 在触发点附近切换托盘菜单
// 可见时隐藏；隐藏时计算定位、通知前端原始触发点坐标并显示。
func (p *PopupMenu) ShowAt(trigger geometry.Point) error {
	if p.visible {
		p.Hide()
		return nil
	}

	if err := p.Ensure(); err != nil {
		return err
	}

	display := geometry.ResolveDisplay(trigger, p.screens.Displays())
	pos := geometry.PlacePopup(trigger, display, p.size, p.margin)

	// 尺寸每次显示都重设，配置热更新后窗口实际大小才会跟上定位计算
	p.win.SetSize(p.size.Width, p.size.Height)
	p.win.SetPosition(pos.X, pos.Y)
	// 前端收到的是原始触发点，不是窗口定位结果
	p.win.EmitEvent(EventTrayMenuPosition, trigger)
	p.win.Show()
	p.win.Focus()
	p.visible = true

	p.logger.Debug("📍 [托盘菜单] 显示",
		"trigger_x", trigger.X, "trigger_y", trigger.Y,
		"pos_x", pos.X, "pos_y", pos.Y)
	return nil
}

// Hide 隐藏托盘菜单（幂等）
// 未创建或已隐藏时什么都不做。
func (p *PopupMenu) Hide() {
	if p.win == nil || !p.visible {
		return
	}

	p.win.Hide()
	p.visible = false
	p.logger.Debug("📍 [托盘菜单] 隐藏")
}

// Visible 返回托盘菜单当前的逻辑可见状态
func (p *PopupMenu) Visible() bool {
	return p.visible
}
