// Package geometry 提供托盘弹出窗口定位所需的屏幕几何计算
// 纯函数实现，不持有任何状态；显示器信息由调用方每次查询传入
package geometry

// Point 逻辑屏幕坐标点
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size 窗口尺寸（逻辑像素）
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Rect 显示器边界矩形（逻辑屏幕坐标）
type Rect struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Right 返回矩形右边界（不含）
func (r Rect) Right() int { return r.X + r.Width }

// Bottom 返回矩形下边界（不含）
func (r Rect) Bottom() int { return r.Y + r.Height }

// Contains 判断点是否落在矩形内（半开区间：含左上边界，不含右下边界）
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X < r.Right() && p.Y >= r.Y && p.Y < r.Bottom()
}

// FallbackDisplay 显示器查询竞态（如热插拔瞬间）时使用的兜底边界
var FallbackDisplay = Rect{X: 0, Y: 0, Width: 1920, Height: 1080}

// ResolveDisplay 返回包含指定点的显示器边界
// 按传入顺序返回第一个命中的显示器；没有任何显示器包含该点时返回 FallbackDisplay。
// 永不失败，总是返回可用矩形。
func ResolveDisplay(p Point, displays []Rect) Rect {
	for _, d := range displays {
		if d.Contains(p) {
			return d
		}
	}
	return FallbackDisplay
}
