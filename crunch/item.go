package crunch

import "cmp"

// Rotation 控制打包时条目是否允许旋转90度。
type Rotation uint8

const (
	// RotationNone 禁止旋转，条目始终保持原始方向。
	RotationNone Rotation = iota
	// RotationAllowed 允许打包器在旋转后评分更优时旋转条目。
	RotationAllowed
)

// Item 是一个待打包的条目。
//
// Data 是用户自定义的数据，打包过程中原样传递，打包器对它不做任何假设
// （例如在图集打包中，它可以是图片的索引或路径）。
// 允许重复的条目，条目除了自身的数据和尺寸之外没有其他标识。
type Item[T any] struct {
	// Data 是与条目关联的用户数据。
	Data T
	// Width 是期望放置的宽度，必须大于0。
	Width int
	// Height 是期望放置的高度，必须大于0。
	Height int
	// Rot 是条目的旋转策略。
	Rot Rotation
}

// NewItem 创建一个新的打包条目。
func NewItem[T any](data T, w, h int, rot Rotation) Item[T] {
	return Item[T]{Data: data, Width: w, Height: h, Rot: rot}
}

// Size 返回条目的尺寸。
func (it *Item[T]) Size() Size {
	return NewSize(it.Width, it.Height)
}

// compareItems 定义打包前的预排序顺序：按面积降序，
// 面积相同时按最长边降序。配合稳定排序，完全相同的条目保持输入顺序，
// 保证相同输入的打包结果完全一致。
// 大条目可行的位置更少，必须先行占据合适的空间，
// 否则小条目会过早地把空间碎片化。
func compareItems[T any](a, b *Item[T]) int {
	if c := cmp.Compare(b.Width*b.Height, a.Width*a.Height); c != 0 {
		return c
	}
	return cmp.Compare(max(b.Width, b.Height), max(a.Width, a.Height))
}

// PackedItem 是一个成功打包的结果：最终矩形与原始条目数据的配对。
// 如果条目被旋转放置，Rect 的宽高为旋转后的值，且 Rect.Rotated 为 true。
// 每个成功打包的条目只产生一个 PackedItem，之后不再被修改。
type PackedItem[T any] struct {
	// Rect 是条目在容器中的最终位置和尺寸。
	Rect Rect
	// Data 是条目携带的用户数据，原样传回。
	Data T
}
