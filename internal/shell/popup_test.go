package shell

import (
	"testing"

	"efgh-desktop/internal/geometry"
)

// TestPopupMenuEnsureIdempotent 测试重复 Ensure 只创建一次窗口
func TestPopupMenuEnsureIdempotent(t *testing.T) {
	registry := newFakeRegistry()
	popup := testPopup(registry, nil)

	for i := 0; i < 3; i++ {
		if err := popup.Ensure(); err != nil {
			t.Fatalf("Ensure 第 %d 次调用失败: %v", i+1, err)
		}
	}

	if registry.created != 1 {
		t.Errorf("应只创建一个窗口, created = %d", registry.created)
	}
}

// TestPopupMenuEnsureRetryAfterFailure 测试创建失败后状态不变，下次调用重试
func TestPopupMenuEnsureRetryAfterFailure(t *testing.T) {
	registry := newFakeRegistry()
	registry.failures = 1
	popup := testPopup(registry, nil)

	if err := popup.Ensure(); err == nil {
		t.Fatal("首次 Ensure 应失败")
	}
	if err := popup.Ensure(); err != nil {
		t.Fatalf("重试 Ensure 应成功: %v", err)
	}
	if registry.created != 1 {
		t.Errorf("重试后应恰好创建一个窗口, created = %d", registry.created)
	}
}

// TestPopupMenuShowAtToggle 测试 ShowAt 的切换语义
func TestPopupMenuShowAtToggle(t *testing.T) {
	registry := newFakeRegistry()
	popup := testPopup(registry, nil)
	trigger := geometry.Point{X: 960, Y: 1040}

	if err := popup.ShowAt(trigger); err != nil {
		t.Fatalf("首次 ShowAt 失败: %v", err)
	}
	if !popup.Visible() {
		t.Fatal("首次 ShowAt 后应可见")
	}

	if err := popup.ShowAt(trigger); err != nil {
		t.Fatalf("第二次 ShowAt 失败: %v", err)
	}
	if popup.Visible() {
		t.Fatal("第二次 ShowAt 应隐藏菜单")
	}

	if err := popup.ShowAt(trigger); err != nil {
		t.Fatalf("第三次 ShowAt 失败: %v", err)
	}
	if !popup.Visible() {
		t.Fatal("第三次 ShowAt 应再次显示")
	}

	win := registry.windows[TrayMenuWindowName]
	if win.countCall("Show") != 2 || win.countCall("Hide") != 1 {
		t.Errorf("调用次数不符: Show=%d Hide=%d", win.countCall("Show"), win.countCall("Hide"))
	}
}

// TestPopupMenuShowAtEmitsRawTrigger 测试前端收到的是原始触发点而非定位结果
func TestPopupMenuShowAtEmitsRawTrigger(t *testing.T) {
	registry := newFakeRegistry()
	popup := testPopup(registry, nil)

	// 屏幕右上角，定位结果会被钳制，但事件坐标不受影响
	trigger := geometry.Point{X: 1900, Y: 10}
	if err := popup.ShowAt(trigger); err != nil {
		t.Fatalf("ShowAt 失败: %v", err)
	}

	win := registry.windows[TrayMenuWindowName]
	if len(win.events) != 1 {
		t.Fatalf("应恰好发送一个事件, got %d", len(win.events))
	}
	if win.events[0].name != EventTrayMenuPosition {
		t.Errorf("事件名不符: %s", win.events[0].name)
	}
	if got, ok := win.events[0].data.(geometry.Point); !ok || got != trigger {
		t.Errorf("事件数据应为原始触发点 %v, got %v", trigger, win.events[0].data)
	}

	if win.posX+236 != 1912 {
		t.Errorf("窗口右边缘应钳制到 1912, got %d", win.posX+236)
	}
	if win.posY != 18 {
		t.Errorf("窗口应翻转到触发点下方 y=18, got %d", win.posY)
	}
}

// TestPopupMenuShowAtCallOrder 测试先设尺寸定位、再通知、最后显示聚焦
func TestPopupMenuShowAtCallOrder(t *testing.T) {
	registry := newFakeRegistry()
	popup := testPopup(registry, nil)

	if err := popup.ShowAt(geometry.Point{X: 500, Y: 500}); err != nil {
		t.Fatalf("ShowAt 失败: %v", err)
	}

	win := registry.windows[TrayMenuWindowName]
	want := []string{"SetSize", "SetPosition", "EmitEvent:" + EventTrayMenuPosition, "Show", "Focus"}
	if len(win.calls) != len(want) {
		t.Fatalf("调用序列长度不符: %v", win.calls)
	}
	for i, c := range want {
		if win.calls[i] != c {
			t.Fatalf("调用序列不符: got %v, want %v", win.calls, want)
		}
	}
}

// TestPopupMenuHideIdempotent 测试 Hide 幂等：未创建、未显示、重复隐藏都安全
func TestPopupMenuHideIdempotent(t *testing.T) {
	registry := newFakeRegistry()
	popup := testPopup(registry, nil)

	popup.Hide() // 未创建

	if err := popup.Ensure(); err != nil {
		t.Fatalf("Ensure 失败: %v", err)
	}
	popup.Hide() // 已创建未显示

	if err := popup.ShowAt(geometry.Point{X: 500, Y: 500}); err != nil {
		t.Fatalf("ShowAt 失败: %v", err)
	}
	popup.Hide()
	popup.Hide() // 重复隐藏

	win := registry.windows[TrayMenuWindowName]
	if win.countCall("Hide") != 1 {
		t.Errorf("底层 Hide 应只调用一次, got %d", win.countCall("Hide"))
	}
}

// TestPopupMenuFallbackDisplay 测试无显示器信息时用兜底边界仍能定位
func TestPopupMenuFallbackDisplay(t *testing.T) {
	registry := newFakeRegistry()
	popup := testPopup(registry, &fakeScreens{})

	if err := popup.ShowAt(geometry.Point{X: 1900, Y: 10}); err != nil {
		t.Fatalf("ShowAt 失败: %v", err)
	}

	win := registry.windows[TrayMenuWindowName]
	if win.posX+236 != 1912 || win.posY != 18 {
		t.Errorf("兜底边界下定位结果不符: (%d,%d)", win.posX, win.posY)
	}
}

// TestPopupMenuSetGeometry 测试热更新后的尺寸在下次显示生效
// 定位计算和窗口实际大小必须一起更新，否则两者不一致。
func TestPopupMenuSetGeometry(t *testing.T) {
	registry := newFakeRegistry()
	popup := testPopup(registry, nil)

	if err := popup.ShowAt(geometry.Point{X: 500, Y: 500}); err != nil {
		t.Fatalf("ShowAt 失败: %v", err)
	}
	popup.Hide()

	popup.SetGeometry(geometry.Size{Width: 300, Height: 400}, 16)
	if err := popup.ShowAt(geometry.Point{X: 1900, Y: 10}); err != nil {
		t.Fatalf("ShowAt 失败: %v", err)
	}

	win := registry.windows[TrayMenuWindowName]
	if win.width != 300 || win.height != 400 {
		t.Errorf("窗口实际尺寸未重设: %dx%d", win.width, win.height)
	}
	if win.posX+300 != 1920-16 {
		t.Errorf("新尺寸未参与定位: 右边缘 = %d", win.posX+300)
	}
}
