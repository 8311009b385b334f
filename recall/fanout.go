package recall

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pipeline"
	"github.com/rushteam/cinerec/pkg/logging"
)

// Fanout 是一个 Recall Node：并发执行多个召回源，并合并结果。
// 支持超时、限流与合并策略。
//
// 单个召回源出错或超时只记录日志，不中断其他召回源；
// 合并按 Sources 的顺序进行，结果与各召回源的完成先后无关。
type Fanout struct {
	Sources       []Source
	Timeout       time.Duration // 每个召回源的超时时间
	MaxConcurrent int           // 最大并发数（0 表示无限制）
	MergeStrategy MergeStrategy // 为空时使用 FirstMergeStrategy
}

func (n *Fanout) Name() string        { return "recall.fanout" }
func (n *Fanout) Kind() pipeline.Kind { return pipeline.KindRecall }

func (n *Fanout) Process(
	ctx context.Context,
	rctx *core.RecommendContext,
	_ []*core.Item,
) ([]*core.Item, error) {
	if len(n.Sources) == 0 {
		return nil, nil
	}

	requestID := ""
	if rctx != nil {
		requestID = rctx.RequestID
	}
	logger := logging.WithRequest(core.ModulePipeline, requestID)

	batches := make([]Batch, len(n.Sources))
	eg, egCtx := errgroup.WithContext(ctx)
	if n.MaxConcurrent > 0 {
		eg.SetLimit(n.MaxConcurrent)
	}

	for i, src := range n.Sources {
		i, s := i, src
		batches[i].Source = s.Name()

		eg.Go(func() error {
			recallCtx := egCtx
			if n.Timeout > 0 {
				var cancel context.CancelFunc
				recallCtx, cancel = context.WithTimeout(egCtx, n.Timeout)
				defer cancel()
			}

			items, err := s.Recall(recallCtx, rctx)
			if err != nil {
				logger.Warn().Err(err).Str("source", s.Name()).Msg("recall source failed")
				return nil
			}
			batches[i].Items = items
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	strategy := n.MergeStrategy
	if strategy == nil {
		strategy = &FirstMergeStrategy{}
	}
	return strategy.Merge(batches), nil
}

// Batch 是单个召回源的结果。
type Batch struct {
	Source string
	Items  []*core.Item
}

// MergeStrategy 决定多路召回结果如何合并。
type MergeStrategy interface {
	Merge(batches []Batch) []*core.Item
}

// FirstMergeStrategy 按 ID 去重，保留按 Sources 顺序第一个出现的 Item，
// 后出现的同 ID Item 只把 Labels 合并进来。
type FirstMergeStrategy struct{}

func (s *FirstMergeStrategy) Merge(batches []Batch) []*core.Item {
	seen := make(map[string]*core.Item)
	out := make([]*core.Item, 0)
	for _, b := range batches {
		for _, it := range b.Items {
			if it == nil {
				continue
			}
			if old, ok := seen[it.ID]; ok {
				for k, v := range it.Labels {
					old.PutLabel(k, v)
				}
				continue
			}
			seen[it.ID] = it
			out = append(out, it)
		}
	}
	return out
}

// UnionMergeStrategy 合并所有结果，不去重（用于需要保留所有来源的场景）。
type UnionMergeStrategy struct{}

func (s *UnionMergeStrategy) Merge(batches []Batch) []*core.Item {
	out := make([]*core.Item, 0)
	for _, b := range batches {
		for _, it := range b.Items {
			if it != nil {
				out = append(out, it)
			}
		}
	}
	return out
}

// PriorityMergeStrategy 按召回源优先级合并：Order 中越靠前优先级越高，
// 未列出的召回源排在最后并保持原有顺序。同 ID 时保留优先级最高的 Item。
type PriorityMergeStrategy struct {
	Order []string
}

func (s *PriorityMergeStrategy) Merge(batches []Batch) []*core.Item {
	rank := make(map[string]int, len(s.Order))
	for i, name := range s.Order {
		if _, ok := rank[name]; !ok {
			rank[name] = i
		}
	}
	sorted := make([]Batch, len(batches))
	copy(sorted, batches)
	sort.SliceStable(sorted, func(i, j int) bool {
		return priorityOf(rank, sorted[i].Source) < priorityOf(rank, sorted[j].Source)
	})
	return (&FirstMergeStrategy{}).Merge(sorted)
}

func priorityOf(rank map[string]int, source string) int {
	if p, ok := rank[source]; ok {
		return p
	}
	return len(rank)
}
