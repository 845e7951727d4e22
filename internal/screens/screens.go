// Package screens 枚举当前所有显示器的边界
// 虚拟桌面坐标系，副屏可能出现负坐标。
// 仅 Windows 有实现；其它平台返回空列表，定位退回兜底边界。
package screens

import "efgh-desktop/internal/geometry"

// Displays 返回所有显示器的边界矩形
func Displays() []geometry.Rect {
	return displays()
}
