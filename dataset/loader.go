package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/pkg/logging"
)

// ReadCSV 读取带表头的 CSV，按 schema 抽取列。
//
// 错误：
//   - 缺少任一必需列：MISSING_COLUMN（结构性配置错误，调用方应中止初始化）
//   - 输入为空或表头无法解析：INVALID_INPUT
//
// 多余的列会被忽略；行的列数可以与表头不一致，缺失的单元格视为空。
// 单行 CSV 格式错误不会中止读取：该行以 Malformed 记录返回，由 Sanitize 计数。
func ReadCSV(r io.Reader, schema Schema) ([]RawRecord, error) {
	schema = schema.withDefaults()

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = !schema.StrictQuotes

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: empty input, header row expected")
		}
		return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: read header", err)
	}

	index := headerIndex(header)
	var missing []string
	for _, col := range schema.Columns() {
		if _, ok := index[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, core.NewDomainError(core.ModuleDataset, core.ErrorCodeMissingColumn,
			fmt.Sprintf("dataset: missing required column(s) %s", strings.Join(quoteAll(missing), ", ")))
	}

	var records []RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var parseErr *csv.ParseError
		if errors.As(err, &parseErr) {
			logging.WithComponent(core.ModuleDataset).Debug().
				Int("line", parseErr.StartLine).
				Err(parseErr).
				Msg("malformed row skipped")
			records = append(records, RawRecord{Line: parseErr.StartLine, Malformed: true})
			continue
		}
		if err != nil {
			return nil, core.WrapDomainError(core.ModuleDataset, core.ErrorCodeInvalidInput, "dataset: read row", err)
		}
		if isBlankRow(row) {
			continue
		}
		line, _ := cr.FieldPos(0)
		records = append(records, RawRecord{
			Line:     line,
			Title:    valueAt(index, row, schema.Title),
			Genre:    valueAt(index, row, schema.Genre),
			Overview: valueAt(index, row, schema.Overview),
			Rating:   valueAt(index, row, schema.Rating),
			Year:     valueAt(index, row, schema.Year),
		})
	}
	return records, nil
}

// LoadFile 打开并读取 CSV 文件。
func LoadFile(path string, schema Schema) ([]RawRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	records, err := ReadCSV(f, schema)
	if err != nil {
		return nil, err
	}
	logging.WithComponent(core.ModuleDataset).Debug().
		Str("path", path).
		Int("rows", len(records)).
		Msg("dataset read")
	return records, nil
}

// Load 读取并清洗 CSV 文件，返回可直接用于 engine.Initialize 的电影列表。
func Load(path string, schema Schema) ([]*core.Movie, SanitizeReport, error) {
	records, err := LoadFile(path, schema)
	if err != nil {
		return nil, SanitizeReport{}, err
	}
	movies, report := Sanitize(records)
	return movies, report, nil
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := index[name]; !dup {
			index[name] = i
		}
	}
	return index
}

func valueAt(index map[string]int, row []string, col string) string {
	i, ok := index[col]
	if !ok || i >= len(row) {
		return ""
	}
	return row[i]
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func quoteAll(cols []string) []string {
	out := make([]string, len(cols))
	for i, c := range cols {
		out[i] = fmt.Sprintf("%q", c)
	}
	return out
}
