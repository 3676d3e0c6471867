package crunch

import "fmt"

// Point 描述了二维空间中的一个位置。
type Point struct {
	// X 是在水平 x 轴上的位置。
	X int `json:"x"`
	// Y 是在垂直 y 轴上的位置。
	Y int `json:"y"`
}

// NewPoint 初始化一个具有指定坐标的新点。
func NewPoint(x, y int) Point {
	return Point{X: x, Y: y}
}

// Eq 判断接收者和另一个点是否具有相同的值。
func (p *Point) Eq(point Point) bool {
	return p.X == point.X && p.Y == point.Y
}

// String 返回点的字符串表示形式。
func (p *Point) String() string {
	return fmt.Sprintf("[%v, %v]", p.X, p.Y)
}

// Size 描述了二维空间中实体的尺寸。
type Size struct {
	// Width 是在水平 x 轴上的尺寸。
	Width int `json:"width"`
	// Height 是在垂直 y 轴上的尺寸。
	Height int `json:"height"`
}

// NewSize 创建具有指定尺寸的新尺寸对象。
func NewSize(width, height int) Size {
	return Size{Width: width, Height: height}
}

// Eq 判断接收者和另一个尺寸是否具有相同的值。
func (sz *Size) Eq(size Size) bool {
	return sz.Width == size.Width && sz.Height == size.Height
}

// String 返回尺寸的字符串表示形式。
func (sz *Size) String() string {
	return fmt.Sprintf("[%v, %v]", sz.Width, sz.Height)
}

// Area 返回总面积（宽度 * 高度）。
func (sz *Size) Area() int {
	return sz.Width * sz.Height
}

// Perimeter 返回所有边的总长度。
func (sz *Size) Perimeter() int {
	return (sz.Width + sz.Height) << 1
}

// MaxSide 返回较大边的值。
func (sz *Size) MaxSide() int {
	return max(sz.Width, sz.Height)
}

// MinSide 返回较小边的值。
func (sz *Size) MinSide() int {
	return min(sz.Width, sz.Height)
}

// Transposed 返回宽高互换后的尺寸。
func (sz *Size) Transposed() Size {
	return Size{Width: sz.Height, Height: sz.Width}
}

// Rect 描述了二维空间中的一个位置（左上角）和尺寸。
type Rect struct {
	// Point 表示矩形的左上角坐标。
	Point
	// Size 表示矩形的宽度和高度。
	Size
	// Rotated 指示矩形是否是旋转90度后放置的。
	Rotated bool `json:"rotated,omitempty"`
}

// NewRect 初始化一个使用指定点和尺寸值的新矩形。
func NewRect(x, y, w, h int) Rect {
	return Rect{
		Point: Point{X: x, Y: y},
		Size:  Size{Width: w, Height: h},
	}
}

// RectOfSize 初始化一个左上角位于原点的新矩形。
// 等价于 NewRect(0, 0, w, h)，通常用于描述打包容器。
func RectOfSize(w, h int) Rect {
	return NewRect(0, 0, w, h)
}

// Eq 比较两个矩形以确定位置和尺寸是否相等。
func (r *Rect) Eq(rect Rect) bool {
	return r.Point.Eq(rect.Point) && r.Size.Eq(rect.Size)
}

// String 返回描述矩形的字符串。
func (r *Rect) String() string {
	return fmt.Sprintf("[%v, %v, %v, %v]", r.X, r.Y, r.Width, r.Height)
}

// Left 返回矩形左边缘在 x 轴上的坐标。
func (r *Rect) Left() int {
	return r.X
}

// Top 返回矩形上边缘在 y 轴上的坐标。
func (r *Rect) Top() int {
	return r.Y
}

// Right 返回矩形右边缘在 x 轴上的坐标。
func (r *Rect) Right() int {
	return r.X + r.Width
}

// Bottom 返回矩形下边缘在 y 轴上的坐标。
func (r *Rect) Bottom() int {
	return r.Y + r.Height
}

// TopLeft 返回表示矩形左上角的点。
func (r *Rect) TopLeft() Point {
	return Point{X: r.Left(), Y: r.Top()}
}

// ContainsRect 测试指定的矩形是否包含在当前接收者的边界内。
func (r *Rect) ContainsRect(rect Rect) bool {
	return r.X <= rect.X &&
		rect.X+rect.Width <= r.X+r.Width &&
		r.Y <= rect.Y &&
		rect.Y+rect.Height <= r.Y+r.Height
}

// Contains 测试指定的坐标是否在接收者的边界内。
func (r *Rect) Contains(x, y int) bool {
	return r.X <= x && x < r.X+r.Width && r.Y <= y && y < r.Y+r.Height
}

// IsEmpty 测试矩形的宽度或高度是否小于1。
func (r *Rect) IsEmpty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Intersects 测试接收者是否与指定的矩形有任何重叠。
func (r *Rect) Intersects(rect Rect) bool {
	return rect.X < r.X+r.Width &&
		r.X < rect.X+rect.Width &&
		rect.Y < r.Y+r.Height &&
		r.Y < rect.Y+rect.Height
}

// Intersect 返回一个仅表示此矩形与另一个矩形重叠区域的矩形，
// 如果没有重叠，则返回一个空矩形。
func (r *Rect) Intersect(rect Rect) (result Rect) {
	x1 := max(r.X, rect.X)
	x2 := min(r.X+r.Width, rect.X+rect.Width)
	y1 := max(r.Y, rect.Y)
	y2 := min(r.Y+r.Height, rect.Y+rect.Height)
	if x2 >= x1 && y2 >= y1 {
		result.Point = Point{X: x1, Y: y1}
		result.Size = Size{Width: x2 - x1, Height: y2 - y1}
	}
	return
}

// Union 返回一个包含目标和自己的最小矩形。
func (r *Rect) Union(rect Rect) Rect {
	x1 := min(r.X, rect.X)
	x2 := max(r.X+r.Width, rect.X+rect.Width)
	y1 := min(r.Y, rect.Y)
	y2 := max(r.Y+r.Height, rect.Y+rect.Height)
	return NewRect(x1, y1, x2-x1, y2-y1)
}

// split 用已放置的矩形切割接收者，返回最多4个剩余区域：
// 左、右两条与接收者等高的竖条，上、下两条与接收者等宽的横条。
// 对应方向没有剩余时该条目为空矩形。四个条目之间允许互相重叠，
// 它们共同覆盖接收者中未被 placed 占据的全部空间。
func (r *Rect) split(placed Rect) [4]Rect {
	var parts [4]Rect
	if placed.X > r.X {
		parts[0] = NewRect(r.X, r.Y, placed.X-r.X, r.Height)
	}
	if placed.Right() < r.Right() {
		parts[1] = NewRect(placed.Right(), r.Y, r.Right()-placed.Right(), r.Height)
	}
	if placed.Y > r.Y {
		parts[2] = NewRect(r.X, r.Y, r.Width, placed.Y-r.Y)
	}
	if placed.Bottom() < r.Bottom() {
		parts[3] = NewRect(r.X, placed.Bottom(), r.Width, r.Bottom()-placed.Bottom())
	}
	return parts
}
