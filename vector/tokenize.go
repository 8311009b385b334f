package vector

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Tokenizer 把文本切分为小写词项并去除停用词。
//
// 词项 = 连续的字母/数字/下划线（含组合符号），长度（按字符计）不小于 MinTokenLen。
// 标点、空白和其他符号都是分隔符，例如 "2010.5" 切分为 "2010"（"5" 太短被丢弃）。
type Tokenizer struct {
	minLen int
	stop   map[string]struct{}
}

// NewTokenizer 按 Options 构建分词器。
func NewTokenizer(opts Options) *Tokenizer {
	minLen := opts.MinTokenLen
	if minLen <= 0 {
		minLen = 1
	}
	stop := make(map[string]struct{}, len(englishStopWords)+len(opts.ExtraStopWords))
	if !opts.KeepStopWords {
		for w := range englishStopSet {
			stop[w] = struct{}{}
		}
	}
	for _, w := range opts.ExtraStopWords {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			stop[w] = struct{}{}
		}
	}
	return &Tokenizer{minLen: minLen, stop: stop}
}

// Tokens 返回 text 中保留下来的词项，顺序与出现顺序一致，可重复。
func (t *Tokenizer) Tokens(text string) []string {
	text = strings.ToLower(text)
	var tokens []string
	start := -1
	flush := func(end int) {
		if start < 0 {
			return
		}
		tok := text[start:end]
		start = -1
		if utf8.RuneCountInString(tok) < t.minLen {
			return
		}
		if _, ok := t.stop[tok]; ok {
			return
		}
		tokens = append(tokens, tok)
	}
	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		flush(i)
	}
	flush(len(text))
	return tokens
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsMark(r)
}
