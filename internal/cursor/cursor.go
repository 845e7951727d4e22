// Package cursor 查询当前鼠标指针的屏幕坐标
// 托盘点击回调不携带坐标，触发点需要在回调瞬间主动查询。
// 仅 Windows 有实现；其它平台返回 ok=false，调用方退回兜底定位。
package cursor

import "efgh-desktop/internal/geometry"

// Position 返回当前指针的屏幕坐标
func Position() (geometry.Point, bool) {
	return position()
}
