// Package dataset 负责把表格数据转换为类型化的电影记录：
// 读取 CSV、校验必需列（结构性错误），再逐行清洗（数据质量问题只计数不报错）。
package dataset

// Schema 描述输入文件的列名映射。列名精确匹配、区分大小写。
type Schema struct {
	Title    string `koanf:"title"`
	Genre    string `koanf:"genre"`
	Overview string `koanf:"overview"`
	Rating   string `koanf:"rating"`
	Year     string `koanf:"year"`

	// StrictQuotes 为 true 时按 RFC 4180 严格解析引号，含裸引号等格式错误的行被跳过并计数；
	// 默认宽松解析，非引用字段中的引号按字面保留
	StrictQuotes bool `koanf:"strict_quotes"`
}

// DefaultSchema 返回默认列名：Movie, Genre, Overview, Rating, Year。
func DefaultSchema() Schema {
	return Schema{
		Title:    "Movie",
		Genre:    "Genre",
		Overview: "Overview",
		Rating:   "Rating",
		Year:     "Year",
	}
}

// Columns 按固定顺序返回全部必需列名。
func (s Schema) Columns() []string {
	return []string{s.Title, s.Genre, s.Overview, s.Rating, s.Year}
}

// withDefaults 用默认列名补齐空字段。
func (s Schema) withDefaults() Schema {
	def := DefaultSchema()
	if s.Title == "" {
		s.Title = def.Title
	}
	if s.Genre == "" {
		s.Genre = def.Genre
	}
	if s.Overview == "" {
		s.Overview = def.Overview
	}
	if s.Rating == "" {
		s.Rating = def.Rating
	}
	if s.Year == "" {
		s.Year = def.Year
	}
	return s
}

// RawRecord 是未经类型转换的一行数据。
// 单元格不存在或为空串时，对应字段为空串。
// Malformed 表示这一行无法按 CSV 解析，只有 Line 有意义，Sanitize 会丢弃并计数。
type RawRecord struct {
	Line      int // CSV 中的行号（表头为第 1 行）
	Title     string
	Genre     string
	Overview  string
	Rating    string
	Year      string
	Malformed bool
}
