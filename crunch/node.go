package crunch

import "math"

// noNode 表示没有可用节点的哨兵下标。
const noNode = -1

// node 是打包树中的一个节点，代表容器内一块可用的空闲区域。
// split 保存子节点在 arena 中的下标，0 表示没有子节点
// （根节点固定位于下标0，永远不会是任何节点的子节点）。
// 没有子节点且未被切割的节点是叶子，代表当前可供放置的区域；
// 被切割过的节点不再参与放置，仅保留用于后续的包含与碰撞检测。
type node struct {
	rect    Rect
	split   [4]int
	isSplit bool
}

// nodeTree 以下标寻址的 arena 形式维护全部空闲区域节点。
// 节点只增不删，多次打包运行之间复用底层存储。
// 叶子矩形之间允许互相重叠，它们的并集始终覆盖容器中所有未被占用的空间。
type nodeTree struct {
	nodes []node
}

// reset 重置树，使其仅包含一个覆盖整个容器的根节点。
// capacity 是预估的节点数量，用于减少打包过程中的扩容。
func (t *nodeTree) reset(container Rect, capacity int) {
	if cap(t.nodes) < capacity {
		t.nodes = make([]node, 0, capacity)
	} else {
		t.nodes = t.nodes[:0]
	}
	t.nodes = append(t.nodes, node{rect: container})
}

// score 衡量一个 w x h 的矩形放入某个空闲区域后的匹配程度。
// areaFit 是放置后剩余的面积，shortFit 是两个方向上较短的剩余长度，
// 两者都越小越好。
type score struct {
	areaFit  int
	shortFit int
}

// scoreFor 计算 w x h 放入 rect 后的评分。
func scoreFor(rect *Rect, w, h int) score {
	return score{
		areaFit:  rect.Area() - w*h,
		shortFit: min(rect.Width-w, rect.Height-h),
	}
}

// worstScore 返回最差的评分。
func worstScore() score {
	return score{areaFit: math.MaxInt, shortFit: math.MaxInt}
}

// betterThan 按 (areaFit, shortFit) 的字典序严格比较两个评分。
// 比较是严格的，评分完全相同时先遇到的节点获胜，
// 以此保证遍历顺序稳定时打包结果可重现。
func (s score) betterThan(o score) bool {
	return s.areaFit < o.areaFit ||
		(s.areaFit == o.areaFit && s.shortFit < o.shortFit)
}

// bestLeaf 在以 index 为根的子树中寻找能容纳 w x h 的最优叶子。
// 如果某个节点自身的矩形都容纳不下，它的全部后代也必然容纳不下，
// 整个分支直接跳过。找不到时返回 noNode。
func (t *nodeTree) bestLeaf(w, h, index int) (int, score) {
	n := &t.nodes[index]
	if w > n.rect.Width || h > n.rect.Height {
		return noNode, worstScore()
	}
	if !n.isSplit {
		return index, scoreFor(&n.rect, w, h)
	}
	bestIndex, bestScore := noNode, worstScore()
	for _, child := range n.split {
		if child == 0 {
			continue
		}
		if i, s := t.bestLeaf(w, h, child); i != noNode && s.betterThan(bestScore) {
			bestIndex, bestScore = i, s
		}
	}
	return bestIndex, bestScore
}

// leafContains 判断以 index 为根的子树中是否存在完全包含 r 的叶子。
// 用于丢弃冗余的切割产物：已经被某个更大的叶子完整描述的区域
// 不需要再生成新的叶子，这是控制节点数量不膨胀的关键。
func (t *nodeTree) leafContains(r Rect, index int) bool {
	n := &t.nodes[index]
	if !n.rect.ContainsRect(r) {
		return false
	}
	if !n.isSplit {
		return true
	}
	for _, child := range n.split {
		if child != 0 && t.leafContains(r, child) {
			return true
		}
	}
	return false
}

// splitTree 碰撞阶段：从 index 开始切割所有与 placed 重叠的节点。
// 与 placed 不重叠的分支整体跳过；重叠的内部节点递归进入子节点；
// 重叠的叶子被切割为最多4个剩余条带，空条带和已被其他叶子
// 完全包含的冗余条带直接丢弃，其余成为新的叶子。
func (t *nodeTree) splitTree(placed Rect, index int) {
	if !t.nodes[index].rect.Intersects(placed) {
		return
	}
	if t.nodes[index].isSplit {
		split := t.nodes[index].split
		for _, child := range split {
			if child != 0 {
				t.splitTree(placed, child)
			}
		}
		return
	}
	// 先标记为已切割，包含检测才不会把条带匹配到它自己身上
	t.nodes[index].isSplit = true
	parts := t.nodes[index].rect.split(placed)
	for i, part := range parts {
		if part.IsEmpty() || t.leafContains(part, 0) {
			continue
		}
		t.nodes[index].split[i] = len(t.nodes)
		t.nodes = append(t.nodes, node{rect: part})
	}
}
