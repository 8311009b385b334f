// Package dsl 是基于 CEL (Common Expression Language) 的 Item 表达式解释器。
//
// 可用变量：
//   - item.title / item.genre / item.overview：string
//   - item.rating / item.score：double
//   - item.year：int（没有年份时为 0，配合 item.has_year 使用）
//   - item.has_year：bool
//   - item.index：int，语料下标
//   - item.genres：list(string)，切分后的类型
//   - label.<key>：Item 上 Label 的 Value
//   - query.genre / query.year_from / query.year_to / query.n
//
// 示例：
//   - `item.rating >= 8.0`
//   - `item.has_year && item.year >= 2015`
//   - `"Romance" in item.genres`
//   - `item.overview.contains("king")`
package dsl

import (
	"fmt"
	"sync"

	"github.com/google/cel-go/cel"

	"github.com/rushteam/cinerec/core"
)

var (
	// celEnv 是全局的 CEL 环境，线程安全，可复用
	celEnv     *cel.Env
	celEnvErr  error
	celEnvOnce sync.Once

	// programs 缓存编译结果：表达式 -> *Program
	programs sync.Map
)

func initCELEnv() (*cel.Env, error) {
	return cel.NewEnv(
		cel.Variable("item", cel.DynType),
		cel.Variable("label", cel.DynType),
		cel.Variable("query", cel.DynType),
	)
}

func getCELEnv() (*cel.Env, error) {
	celEnvOnce.Do(func() {
		celEnv, celEnvErr = initCELEnv()
	})
	return celEnv, celEnvErr
}

// Program 是编译后的表达式，可被多个 goroutine 并发求值。
type Program struct {
	expr string
	prg  cel.Program
}

// Compile 编译表达式；相同表达式只编译一次。
func Compile(expr string) (*Program, error) {
	if p, ok := programs.Load(expr); ok {
		return p.(*Program), nil
	}

	env, err := getCELEnv()
	if err != nil {
		return nil, fmt.Errorf("cel env: %w", err)
	}
	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compile error: %w", issues.Err())
	}
	prg, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}

	p := &Program{expr: expr, prg: prg}
	actual, _ := programs.LoadOrStore(expr, p)
	return actual.(*Program), nil
}

// String 返回原始表达式。
func (p *Program) String() string { return p.expr }

// Eval 对 item 求值，表达式必须返回 bool。
func (p *Program) Eval(item *core.Item, rctx *core.RecommendContext) (bool, error) {
	out, _, err := p.prg.Eval(buildInput(item, rctx))
	if err != nil {
		return false, fmt.Errorf("eval error: %w", err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		return false, fmt.Errorf("expression must return boolean, got %T", out.Value())
	}
	return result, nil
}

// Evaluate 编译（或取缓存）并求值，空表达式恒为 true。
func Evaluate(expr string, item *core.Item, rctx *core.RecommendContext) (bool, error) {
	if expr == "" {
		return true, nil
	}
	p, err := Compile(expr)
	if err != nil {
		return false, err
	}
	return p.Eval(item, rctx)
}

// buildInput 构建 CEL 表达式的输入数据
func buildInput(it *core.Item, rctx *core.RecommendContext) map[string]any {
	item := map[string]any{
		"title":    "",
		"genre":    "",
		"overview": "",
		"rating":   0.0,
		"year":     int64(0),
		"has_year": false,
		"genres":   []string{},
		"score":    0.0,
		"index":    int64(-1),
	}
	labels := make(map[string]any)

	if it != nil {
		item["score"] = it.Score
		item["index"] = int64(it.Index)
		if m := it.Movie; m != nil {
			item["title"] = m.Title
			item["genre"] = m.Genre
			item["overview"] = m.Overview
			item["rating"] = m.Rating
			if genres := m.Genres(); genres != nil {
				item["genres"] = genres
			}
			if y, ok := m.YearInt(); ok {
				item["year"] = int64(y)
				item["has_year"] = true
			}
		}
		for k, v := range it.Labels {
			labels[k] = v.Value
		}
	}

	query := map[string]any{
		"genre":     "",
		"year_from": int64(0),
		"year_to":   int64(0),
		"n":         int64(0),
	}
	if rctx != nil {
		query["genre"] = rctx.Query.Genre
		query["year_from"] = int64(rctx.Query.YearFrom)
		query["year_to"] = int64(rctx.Query.YearTo)
		query["n"] = int64(rctx.Query.N)
	}

	return map[string]any{
		"item":  item,
		"label": labels,
		"query": query,
	}
}
