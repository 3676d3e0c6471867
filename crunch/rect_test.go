package crunch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRectContainsRect(t *testing.T) {
	outer := NewRect(1, 1, 8, 8)
	assert.True(t, outer.ContainsRect(NewRect(1, 1, 8, 8)), "矩形应包含自身")
	assert.True(t, outer.ContainsRect(NewRect(3, 3, 2, 2)))
	assert.False(t, outer.ContainsRect(NewRect(0, 1, 8, 8)))
	assert.False(t, outer.ContainsRect(NewRect(5, 5, 8, 8)))
}

func TestRectIntersects(t *testing.T) {
	r := NewRect(0, 0, 4, 4)
	assert.True(t, r.Intersects(NewRect(3, 3, 4, 4)))
	assert.True(t, r.Intersects(NewRect(1, 1, 2, 2)))
	// 只共享边缘不算重叠
	assert.False(t, r.Intersects(NewRect(4, 0, 4, 4)))
	assert.False(t, r.Intersects(NewRect(0, 4, 4, 4)))
	assert.False(t, r.Intersects(NewRect(10, 10, 1, 1)))
}

func TestRectIntersect(t *testing.T) {
	r := NewRect(0, 0, 4, 4)
	got := r.Intersect(NewRect(2, 3, 10, 10))
	assert.True(t, got.Eq(NewRect(2, 3, 2, 1)))

	empty := r.Intersect(NewRect(8, 8, 2, 2))
	assert.True(t, empty.IsEmpty())
}

func TestRectUnion(t *testing.T) {
	r := NewRect(0, 0, 2, 2)
	got := r.Union(NewRect(5, 5, 3, 3))
	assert.True(t, got.Eq(NewRect(0, 0, 8, 8)))
}

// split 的四个条带必须共同覆盖接收者中未被占据的空间，
// 且每个条带都在接收者内部、不与放置矩形之外的空间相交。
func TestRectSplit(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	placed := NewRect(2, 3, 4, 5)
	parts := r.split(placed)

	assert.True(t, parts[0].Eq(NewRect(0, 0, 2, 10)), "左条带")
	assert.True(t, parts[1].Eq(NewRect(6, 0, 4, 10)), "右条带")
	assert.True(t, parts[2].Eq(NewRect(0, 0, 10, 3)), "上条带")
	assert.True(t, parts[3].Eq(NewRect(0, 8, 10, 2)), "下条带")

	for i := range parts {
		assert.True(t, r.ContainsRect(parts[i]), "条带必须在原矩形内")
	}

	// 逐像素验证：不在 placed 内的每个点都被某个条带覆盖
	for y := 0; y < 10; y++ {
		for x := 0; x < 10; x++ {
			inPlaced := placed.Contains(x, y)
			covered := false
			for i := range parts {
				if !parts[i].IsEmpty() && parts[i].Contains(x, y) {
					covered = true
				}
			}
			if inPlaced {
				continue
			}
			assert.True(t, covered, "点 (%d,%d) 未被任何条带覆盖", x, y)
		}
	}
}

// 放置矩形与接收者左上角对齐时只产生右、下两个条带。
func TestRectSplitCorner(t *testing.T) {
	r := NewRect(0, 0, 10, 10)
	parts := r.split(NewRect(0, 0, 4, 4))

	assert.True(t, parts[0].IsEmpty())
	assert.True(t, parts[1].Eq(NewRect(4, 0, 6, 10)))
	assert.True(t, parts[2].IsEmpty())
	assert.True(t, parts[3].Eq(NewRect(0, 4, 10, 6)))
}

// 放置矩形完全覆盖接收者时没有任何剩余。
func TestRectSplitFullCover(t *testing.T) {
	r := NewRect(2, 2, 4, 4)
	parts := r.split(NewRect(0, 0, 10, 10))
	for i := range parts {
		assert.True(t, parts[i].IsEmpty())
	}
}
