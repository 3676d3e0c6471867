// Package crunch 实现了把一组矩形条目尽可能紧密地打包进
// 一个容器矩形的算法，可选地允许每个条目旋转90度。
//
// 算法用一棵节点树来索引容器中剩余的空闲空间：每次放置时
// 在树中寻找浪费面积最小的叶子，然后以放置矩形为基准切割
// 所有与之重叠的节点。典型的使用者是精灵图集和纹理表的
// 构建工具。
package crunch

import "slices"

// DefaultSize 定义了打包容器的默认最大宽度/高度值，
// 基于现代GPU的最大纹理尺寸。如果这个库不是用于创建纹理图集，
// 那么这个值除了提供一个合理的起点外没有特殊意义。
const DefaultSize = 4096

// PackResult 是一次打包运行的完整结果。
// 无论整体成功与否，Packed 都携带所有已完成的放置，
// 部分失败时调用方依然可以遍历全部成果；
// Unpacked 携带所有放不下（或尺寸非法）的条目。
// 每个输入条目恰好出现在两者之一中。
type PackResult[T any] struct {
	// Packed 是所有成功放置的条目。顺序与内部处理顺序一致，
	// 不保证与输入顺序相同，调用方通过 Data 关联回自己的条目。
	Packed []PackedItem[T]
	// Unpacked 是所有未能放置的条目。
	Unpacked []Item[T]
}

// Complete 报告是否所有条目都被成功打包。
func (r *PackResult[T]) Complete() bool {
	return len(r.Unpacked) == 0
}

// UsedArea 返回所有已放置矩形的总面积。
func (r *PackResult[T]) UsedArea() int {
	var area int
	for i := range r.Packed {
		area += r.Packed[i].Rect.Area()
	}
	return area
}

// FillRatio 返回填充率：已放置面积除以容器面积，
// 值在 0.0（空）到 1.0（完美利用）之间。
func (r *PackResult[T]) FillRatio(container Rect) float64 {
	if container.Area() <= 0 {
		return 0
	}
	return float64(r.UsedArea()) / float64(container.Area())
}

// Packer 把暂存的条目打包进一个容器矩形。
//
// 同一个 Packer 可以用不同的容器多次调用 Pack，
// 内部的节点 arena 和排序缓存会在多次运行之间复用。
// Packer 由单个调用方独占使用，不支持并发。
type Packer[T any] struct {
	items   []Item[T]
	tree    nodeTree
	indices []int
}

// NewPacker 创建一个新的空打包器。
func NewPacker[T any]() *Packer[T] {
	return &Packer[T]{}
}

// NewPackerCapacity 创建一个预分配容量的打包器，避免暂存时反复扩容。
func NewPackerCapacity[T any](capacity int) *Packer[T] {
	return &Packer[T]{items: make([]Item[T], 0, capacity)}
}

// NewPackerItems 创建一个已暂存 items 的打包器。
func NewPackerItems[T any](items []Item[T]) *Packer[T] {
	p := NewPackerCapacity[T](len(items))
	p.items = append(p.items, items...)
	return p
}

// Push 暂存一个条目。
func (p *Packer[T]) Push(item Item[T]) {
	p.items = append(p.items, item)
}

// Extend 暂存多个条目。
func (p *Packer[T]) Extend(items ...Item[T]) {
	p.items = append(p.items, items...)
}

// Clear 清空暂存的条目，保留内部缓存。
func (p *Packer[T]) Clear() {
	p.items = p.items[:0]
}

// Pack 把所有暂存的条目打包进 container。
//
// 条目先按面积降序（面积相同按最长边降序）排序再依次放置。
// 每个条目在树中寻找浪费面积最小的叶子；允许旋转的条目
// 两个方向都参与评分，旋转方向仅在严格更优时胜出。
// 放不下的条目被记录进 Unpacked 后处理继续，
// 后续更小的条目仍有机会成功。
func (p *Packer[T]) Pack(container Rect) PackResult[T] {
	result := PackResult[T]{
		Packed: make([]PackedItem[T], 0, len(p.items)),
	}

	// 容器本身退化时没有任何条目能放下
	if container.Width <= 0 || container.Height <= 0 {
		result.Unpacked = append(result.Unpacked, p.items...)
		return result
	}

	// 以整个容器为唯一的根叶子初始化空闲区域树。
	// 最终节点数通常是条目数的一个小倍数。
	p.tree.reset(container, len(p.items)*2)

	p.indices = p.indices[:0]
	for i := range p.items {
		p.indices = append(p.indices, i)
	}
	slices.SortStableFunc(p.indices, func(a, b int) int {
		return compareItems(&p.items[a], &p.items[b])
	})

	for _, itemIndex := range p.indices {
		item := &p.items[itemIndex]

		// 宽或高不足1的条目直接视为无法打包
		if item.Width <= 0 || item.Height <= 0 {
			result.Unpacked = append(result.Unpacked, *item)
			continue
		}

		// 在许可的方向中寻找最优叶子，
		// 旋转后的方向只有评分严格更优时才被采用
		packW, packH := item.Width, item.Height
		rotated := false
		nodeIndex, best := p.tree.bestLeaf(item.Width, item.Height, 0)
		if item.Rot == RotationAllowed && item.Width != item.Height {
			if i, s := p.tree.bestLeaf(item.Height, item.Width, 0); i != noNode && s.betterThan(best) {
				nodeIndex = i
				packW, packH = item.Height, item.Width
				rotated = true
			}
		}

		if nodeIndex == noNode {
			result.Unpacked = append(result.Unpacked, *item)
			continue
		}

		// 放置矩形与所选叶子的左上角对齐
		topLeft := p.tree.nodes[nodeIndex].rect.TopLeft()
		rect := NewRect(topLeft.X, topLeft.Y, packW, packH)
		rect.Rotated = rotated

		// 以放置矩形为基准从根开始切割所有重叠的节点
		p.tree.splitTree(rect, 0)

		result.Packed = append(result.Packed, PackedItem[T]{Rect: rect, Data: item.Data})
	}

	return result
}

// PackIntoPO2 尝试把暂存的条目打包进不超过 maxSize 的最小2的幂容器。
// 从面积下界开始依次尝试 size x size、size*2 x size、size x size*2，
// 返回首个能完整容纳所有条目的容器尺寸及对应结果。
// maxSize 之内没有任何容器能完整容纳时 ok 为 false。
func (p *Packer[T]) PackIntoPO2(maxSize int) (size Size, result PackResult[T], ok bool) {
	var minArea int
	for i := range p.items {
		minArea += p.items[i].Width * p.items[i].Height
	}

	side := 2
	for side*side*2 < minArea {
		side *= 2
	}

	for side <= maxSize {
		for _, sz := range [3]Size{NewSize(side, side), NewSize(side*2, side), NewSize(side, side*2)} {
			if sz.Width > maxSize || sz.Height > maxSize || sz.Area() < minArea {
				continue
			}
			if res := p.Pack(RectOfSize(sz.Width, sz.Height)); res.Complete() {
				return sz, res, true
			}
		}
		side *= 2
	}
	return Size{}, PackResult[T]{}, false
}

// Pack 一次性打包：等价于 NewPackerItems(items).Pack(container)。
func Pack[T any](container Rect, items []Item[T]) PackResult[T] {
	return NewPackerItems(items).Pack(container)
}
