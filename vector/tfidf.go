// Package vector 实现语料级 TF-IDF 向量化与余弦相似度。
//
// 词表在 Fit 时对整个语料一次性构建并冻结；之后新增电影必须重新 Fit 整个语料，
// 不提供在线更新。Matrix 构建完成后只读，可被任意多个 goroutine 并发读取。
package vector

import (
	"math"
	"sort"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/logging"
)

var (
	// ErrEmptyCorpus 表示没有任何文档可以拟合
	ErrEmptyCorpus = core.NewDomainError(core.ModuleVector, core.ErrorCodeEmptyCorpus, "vector: empty corpus")

	// ErrEmptyVocabulary 表示所有文档在分词、去停用词后都为空
	ErrEmptyVocabulary = core.NewDomainError(core.ModuleVector, core.ErrorCodeEmptyVocabulary, "vector: empty vocabulary, every document is empty or only stop words")
)

// Options 控制分词与加权方式。
type Options struct {
	// MinTokenLen 词项最小长度（按字符计），默认 2
	MinTokenLen int `koanf:"min_token_len" validate:"gte=1"`

	// SmoothIDF 为 true 时 idf = ln((1+n)/(1+df)) + 1，否则 idf = ln(n/df) + 1
	SmoothIDF bool `koanf:"smooth_idf"`

	// SublinearTF 为 true 时 tf = 1 + ln(count)，否则 tf = count
	SublinearTF bool `koanf:"sublinear_tf"`

	// KeepStopWords 为 true 时不使用内置英文停用词表
	KeepStopWords bool `koanf:"keep_stop_words"`

	// ExtraStopWords 额外的停用词
	ExtraStopWords []string `koanf:"extra_stop_words"`
}

// DefaultOptions 返回默认选项：最小词长 2、平滑 idf、原始词频、英文停用词。
func DefaultOptions() Options {
	return Options{
		MinTokenLen: 2,
		SmoothIDF:   true,
	}
}

// Matrix 是文档-词项 TF-IDF 矩阵，每行已做 L2 归一化。
type Matrix struct {
	// Vocabulary 词项 -> 列下标
	Vocabulary map[string]int
	// Terms 列下标 -> 词项（字典序）
	Terms []string
	// IDF 每列的逆文档频率
	IDF []float64
	// Rows 每篇文档一行，顺序与 Fit 输入一致
	Rows []Sparse

	opts      Options
	tokenizer *Tokenizer
}

// Fit 对整个语料构建词表并计算 TF-IDF 矩阵。
//
// 全为空/停用词的文档得到零向量（不报错）；但如果所有文档都如此，返回 ErrEmptyVocabulary。
func Fit(docs []string, opts Options) (*Matrix, error) {
	if len(docs) == 0 {
		return nil, ErrEmptyCorpus
	}

	tokenizer := NewTokenizer(opts)
	counts := make([]map[string]int, len(docs))
	df := make(map[string]int)
	for i, doc := range docs {
		c := make(map[string]int)
		for _, tok := range tokenizer.Tokens(doc) {
			c[tok]++
		}
		for term := range c {
			df[term]++
		}
		counts[i] = c
	}
	if len(df) == 0 {
		return nil, ErrEmptyVocabulary
	}

	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	vocab := make(map[string]int, len(terms))
	idf := make([]float64, len(terms))
	n := float64(len(docs))
	for col, term := range terms {
		vocab[term] = col
		idf[col] = inverseDocFreq(n, float64(df[term]), opts.SmoothIDF)
	}

	m := &Matrix{
		Vocabulary: vocab,
		Terms:      terms,
		IDF:        idf,
		Rows:       make([]Sparse, len(docs)),
		opts:       opts,
		tokenizer:  tokenizer,
	}
	zero := 0
	for i, c := range counts {
		m.Rows[i] = m.weigh(c)
		if m.Rows[i].IsZero() {
			zero++
		}
	}

	logging.WithComponent(core.ModuleVector).Debug().
		Int("documents", len(docs)).
		Int("terms", len(terms)).
		Int("zero_rows", zero).
		Bool("smooth_idf", opts.SmoothIDF).
		Bool("sublinear_tf", opts.SublinearTF).
		Msg("tfidf fitted")

	return m, nil
}

func inverseDocFreq(n, df float64, smooth bool) float64 {
	if smooth {
		return math.Log((1+n)/(1+df)) + 1
	}
	return math.Log(n/df) + 1
}

// weigh 把词频表转换为归一化的稀疏 TF-IDF 行；不在词表中的词项被忽略。
func (m *Matrix) weigh(counts map[string]int) Sparse {
	cols := make([]int, 0, len(counts))
	for term := range counts {
		if col, ok := m.Vocabulary[term]; ok {
			cols = append(cols, col)
		}
	}
	sort.Ints(cols)

	row := Sparse{Indices: cols, Values: make([]float64, len(cols))}
	for i, col := range cols {
		tf := float64(counts[m.Terms[col]])
		if m.opts.SublinearTF {
			tf = 1 + math.Log(tf)
		}
		row.Values[i] = tf * m.IDF[col]
	}
	row.normalize()
	return row
}

// Len 返回文档数。
func (m *Matrix) Len() int { return len(m.Rows) }

// Dim 返回词表大小。
func (m *Matrix) Dim() int { return len(m.Terms) }

// Row 返回第 i 篇文档的向量；越界时返回零向量。
func (m *Matrix) Row(i int) Sparse {
	if i < 0 || i >= len(m.Rows) {
		return Sparse{}
	}
	return m.Rows[i]
}

// Transform 用冻结的词表与 idf 向量化一段新文本（词表外的词项被忽略）。
// 只用于查询，不会把文本加入语料。
func (m *Matrix) Transform(doc string) Sparse {
	counts := make(map[string]int)
	for _, tok := range m.tokenizer.Tokens(doc) {
		counts[tok]++
	}
	return m.weigh(counts)
}

// TermWeight 是一个词项及其权重。
type TermWeight struct {
	Term   string  `json:"term"`
	Weight float64 `json:"weight"`
}

// TopTerms 返回第 i 篇文档权重最高的 k 个词项（权重相同时按字典序）。
func (m *Matrix) TopTerms(i, k int) []TermWeight {
	row := m.Row(i)
	out := make([]TermWeight, 0, row.Len())
	for j, col := range row.Indices {
		out = append(out, TermWeight{Term: m.Terms[col], Weight: row.Values[j]})
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Weight > out[b].Weight
	})
	if k > 0 && len(out) > k {
		out = out[:k]
	}
	return out
}
