package filter

import (
	"context"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/dsl"
)

// ExprFilter 用 CEL 表达式过滤：表达式为 true 的电影保留，false 的被过滤。
// 表达式为空时不过滤。
type ExprFilter struct {
	Expr string

	// FromQuery 为 true 时使用 rctx.Query.Expr
	FromQuery bool
}

// NewExprFilter 创建表达式过滤器，并预先编译以尽早暴露语法错误。
func NewExprFilter(expr string) (*ExprFilter, error) {
	if expr != "" {
		if _, err := dsl.Compile(expr); err != nil {
			return nil, core.WrapDomainError(core.ModuleFilter, core.ErrorCodeInvalidInput, "filter: invalid expression", err)
		}
	}
	return &ExprFilter{Expr: expr}, nil
}

func (f *ExprFilter) Name() string {
	return "filter.expr"
}

func (f *ExprFilter) ShouldFilter(
	_ context.Context,
	rctx *core.RecommendContext,
	item *core.Item,
) (bool, error) {
	expr := f.Expr
	if f.FromQuery && rctx != nil {
		expr = rctx.Query.Expr
	}
	if expr == "" {
		return false, nil
	}
	keep, err := dsl.Evaluate(expr, item, rctx)
	if err != nil {
		return false, err
	}
	return !keep, nil
}
