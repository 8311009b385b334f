package vector

import "math"

// Sparse 是按列下标升序存储的稀疏向量。
type Sparse struct {
	Indices []int
	Values  []float64
}

// Len 返回非零元素个数。
func (s Sparse) Len() int { return len(s.Indices) }

// IsZero 判断是否为零向量。
func (s Sparse) IsZero() bool {
	for _, v := range s.Values {
		if v != 0 {
			return false
		}
	}
	return true
}

// Get 返回第 col 列的值，不存在时返回 0。
func (s Sparse) Get(col int) float64 {
	lo, hi := 0, len(s.Indices)
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		switch {
		case s.Indices[mid] == col:
			return s.Values[mid]
		case s.Indices[mid] < col:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return 0
}

// Dot 计算两个稀疏向量的内积（双指针归并）。
func (s Sparse) Dot(o Sparse) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(s.Indices) && j < len(o.Indices) {
		switch {
		case s.Indices[i] == o.Indices[j]:
			dot += s.Values[i] * o.Values[j]
			i++
			j++
		case s.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Norm 返回 L2 范数。
func (s Sparse) Norm() float64 {
	var sum float64
	for _, v := range s.Values {
		sum += v * v
	}
	return math.Sqrt(sum)
}

// normalize 原地做 L2 归一化；零向量保持不变。
func (s Sparse) normalize() {
	n := s.Norm()
	if n == 0 {
		return
	}
	for i := range s.Values {
		s.Values[i] /= n
	}
}
