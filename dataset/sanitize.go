package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/logging"
)

// SanitizeReport 汇总一次清洗中的数据质量问题。
type SanitizeReport struct {
	Total         int // 输入行数
	Kept          int // 保留行数
	DroppedRating int // 因评分缺失/非法被丢弃的行数
	MissingYear   int // 保留行中年份缺失/非法的行数
	MalformedRows int // CSV 格式错误被跳过的行数
}

// Sanitize 把原始记录转换为类型化的电影：
//   - CSV 格式错误（Malformed）的行被丢弃
//   - 评分无法解析为有限数值的行被丢弃
//   - 年份无法解析时标记为缺失（NaN），行保留
//   - Genre / Overview 缺失时为空串
//
// 不返回错误：单行问题只计入 SanitizeReport，并输出一条汇总日志。
func Sanitize(raw []RawRecord) ([]*core.Movie, SanitizeReport) {
	report := SanitizeReport{Total: len(raw)}
	movies := make([]*core.Movie, 0, len(raw))

	for _, rec := range raw {
		if rec.Malformed {
			report.MalformedRows++
			continue
		}
		rating, ok := parseFinite(rec.Rating)
		if !ok {
			report.DroppedRating++
			continue
		}
		year, ok := parseFinite(rec.Year)
		if !ok {
			year = core.MissingYear()
			report.MissingYear++
		}
		movies = append(movies, &core.Movie{
			Title:    strings.TrimSpace(rec.Title),
			Genre:    rec.Genre,
			Overview: rec.Overview,
			Rating:   rating,
			Year:     year,
		})
	}
	report.Kept = len(movies)

	logger := logging.WithComponent(core.ModuleDataset)
	event := logger.Info()
	if report.DroppedRating > 0 || report.MalformedRows > 0 {
		event = logger.Warn()
	}
	event.
		Int("total", report.Total).
		Int("kept", report.Kept).
		Int("dropped_rating", report.DroppedRating).
		Int("missing_year", report.MissingYear).
		Int("malformed_rows", report.MalformedRows).
		Msg("records sanitized")

	return movies, report
}

// parseFinite 解析数值，空串、非法文本、NaN、±Inf 都视为缺失。
func parseFinite(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
