package vector

import (
	"context"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cinerec/core"
)

var _ core.SimilarityIndex = (*Matrix)(nil)

// Cosine 返回文档 i 与 j 的余弦相似度。
// 行向量已归一化，相似度即内积；任一行为零向量时返回 0（自身也是 0，不会产生 NaN）。
func (m *Matrix) Cosine(i, j int) float64 {
	a, b := m.Row(i), m.Row(j)
	if a.IsZero() || b.IsZero() {
		return 0
	}
	if i == j {
		return 1
	}
	return clampUnit(a.Dot(b))
}

// CosineVector 返回文档 i 与任意向量 v 的余弦相似度。
func (m *Matrix) CosineVector(i int, v Sparse) float64 {
	a := m.Row(i)
	na, nv := a.Norm(), v.Norm()
	if na == 0 || nv == 0 {
		return 0
	}
	return clampUnit(a.Dot(v) / (na * nv))
}

// MostSimilar 返回与文档 index 最相似的 k 个其他文档。
// 相似度为 0 的文档不返回；相似度相同时按语料顺序。k <= 0 时返回全部。
func (m *Matrix) MostSimilar(index, k int) []core.Neighbor {
	if index < 0 || index >= m.Len() {
		return nil
	}
	return m.rank(func(j int) float64 {
		if j == index {
			return 0
		}
		return m.Cosine(index, j)
	}, k)
}

// Search 返回与一段自由文本最相似的 k 个文档，文本使用冻结词表向量化。
func (m *Matrix) Search(text string, k int) []core.Neighbor {
	q := m.Transform(text)
	if q.IsZero() {
		return nil
	}
	return m.rank(func(j int) float64 {
		return m.CosineVector(j, q)
	}, k)
}

func (m *Matrix) rank(score func(j int) float64, k int) []core.Neighbor {
	out := make([]core.Neighbor, 0, 16)
	for j := 0; j < m.Len(); j++ {
		if s := score(j); s > 0 {
			out = append(out, core.Neighbor{Index: j, Score: s})
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Score > out[b].Score
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}

// SimilarityMatrix 是 n×n 的对称相似度矩阵（行优先存储）。
type SimilarityMatrix struct {
	n    int
	data []float64
}

// Len 返回矩阵维度 n。
func (s *SimilarityMatrix) Len() int { return s.n }

// At 返回 (i, j) 处的相似度。
func (s *SimilarityMatrix) At(i, j int) float64 {
	return s.data[i*s.n+j]
}

// Row 返回第 i 行的只读视图。
func (s *SimilarityMatrix) Row(i int) []float64 {
	return s.data[i*s.n : (i+1)*s.n]
}

// Pairwise 计算全部文档两两之间的余弦相似度，复杂度 O(n²)。
//
// 按行拆分到 errgroup 中并发计算，workers <= 0 时使用 GOMAXPROCS。
// 每个任务只写 (i, j>=i) 与其对称位置，不同任务之间没有写冲突。
// ctx 取消时尽快返回 ctx.Err()。
func (m *Matrix) Pairwise(ctx context.Context, workers int) (*SimilarityMatrix, error) {
	n := m.Len()
	sim := &SimilarityMatrix{n: n, data: make([]float64, n*n)}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < n; i++ {
		if egCtx.Err() != nil {
			break
		}
		row := i
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}
			for j := row; j < n; j++ {
				s := m.Cosine(row, j)
				sim.data[row*n+j] = s
				sim.data[j*n+row] = s
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return sim, nil
}

func clampUnit(v float64) float64 {
	switch {
	case v > 1:
		return 1
	case v < -1:
		return -1
	default:
		return v
	}
}
