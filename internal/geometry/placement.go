package geometry

// PlacePopup 计算托盘弹出窗口的左上角坐标
//
// 默认候选位置：水平居中于触发点、垂直位于触发点上方（留出 margin 间距）。
// 之后按固定顺序执行四次钳制（顺序即约定——水平钳制先于垂直翻转，
// 后面的钳制允许在对侧重新压过 margin，取"尽量在屏内"的最佳努力策略）：
//  1. 右边缘超出 display.Right()-margin 时左移贴右
//  2. 左边缘小于 display.X+margin 时右移贴左
//  3. 上方空间不足（y < display.Y+margin）时翻转到触发点下方
//  4. 下边缘超出 display.Bottom()-margin 时上移贴底
//
// 只要显示器尺寸不小于 popup+2*margin，结果矩形完整落在显示器内；
// 更小的显示器退化为最佳可用位置，不会失败。
func PlacePopup(trigger Point, display Rect, popup Size, margin int) Point {
	x := trigger.X - popup.Width/2
	y := trigger.Y - popup.Height - margin

	if x+popup.Width > display.Right()-margin {
		x = display.Right() - margin - popup.Width
	}
	if x < display.X+margin {
		x = display.X + margin
	}
	if y < display.Y+margin {
		// 上方放不下，翻转到触发点下方
		y = trigger.Y + margin
	}
	if y+popup.Height > display.Bottom()-margin {
		y = display.Bottom() - margin - popup.Height
	}

	return Point{X: x, Y: y}
}
