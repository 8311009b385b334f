// Package conv 从 YAML/JSON 解析出的 map[string]any 中读取 Node 配置。
//
// YAML 的整数解码为 int，JSON 的数字解码为 float64，这里统一处理两种来源。
package conv

import "strconv"

// ToInt 把整数或浮点数（截断）转为 int，其他类型返回 false。
func ToInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}

// SliceAnyToString 把 []any 转为 []string：字符串原样保留，数字按整数格式化，其他元素跳过。
// v 不是 []any 时返回 nil。
func SliceAnyToString(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, e := range raw {
		if s, ok := e.(string); ok {
			out = append(out, s)
			continue
		}
		if n, ok := ToInt(e); ok {
			out = append(out, strconv.Itoa(n))
		}
	}
	return out
}

// SliceAnyToInt 把 []any 转为 []int，无法转换的元素被跳过。
func SliceAnyToInt(v any) []int {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, e := range raw {
		if n, ok := ToInt(e); ok {
			out = append(out, n)
		}
	}
	return out
}

// Has 判断 m 中是否配置了 key（值可以为 nil）。
func Has(m map[string]any, key string) bool {
	_, ok := m[key]
	return ok
}

// ConfigGet 按 key 取 T，缺失或类型不符时返回 def。
func ConfigGet[T any](m map[string]any, key string, def T) T {
	if v, ok := m[key].(T); ok {
		return v
	}
	return def
}

// ConfigGetInt 按 key 取 int，接受 YAML 的 int 与 JSON 的 float64。
func ConfigGetInt(m map[string]any, key string, def int) int {
	if n, ok := ToInt(m[key]); ok {
		return n
	}
	return def
}
