// Package config 负责两类配置：
//   - Settings：应用级配置，按 默认值 -> YAML 文件 -> 环境变量 的顺序分层加载（koanf）
//   - Node 注册表：配置驱动 Pipeline 时按类型名构建 Node
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/rushteam/cinerec/core"
	"github.com/rushteam/cinerec/dataset"
	"github.com/rushteam/cinerec/feature"
	"github.com/rushteam/cinerec/vector"
)

// EnvPrefix 是环境变量前缀：CINEREC_LOG_LEVEL -> log.level
const EnvPrefix = "CINEREC_"

// PathEnvVar 可以指定配置文件路径
const PathEnvVar = "CINEREC_CONFIG"

// DefaultPaths 是未显式指定时依次查找的配置文件
var DefaultPaths = []string{
	"cinerec.yaml",
	"cinerec.yml",
}

// Settings 是应用级配置。
type Settings struct {
	Data       DataSettings       `koanf:"data"`
	Vectorizer vector.Options     `koanf:"vectorizer"`
	Combiner   CombinerSettings   `koanf:"combiner"`
	Recommend  RecommendSettings  `koanf:"recommend"`
	Similarity SimilaritySettings `koanf:"similarity"`
	Log        LogSettings        `koanf:"log"`
}

// DataSettings 描述输入数据。
type DataSettings struct {
	Path   string         `koanf:"path"`
	Schema dataset.Schema `koanf:"schema"`
}

// CombinerSettings 控制组合文本。
type CombinerSettings struct {
	YearPolicy string `koanf:"year_policy" validate:"omitempty,oneof=omit unknown nan"`
}

// RecommendSettings 是推荐默认值，实现 core.RecommendConfig。
type RecommendSettings struct {
	TopN     int `koanf:"default_top_n" validate:"gte=1"`
	MaxN     int `koanf:"max_top_n" validate:"gtefield=TopN"`
	SimilarK int `koanf:"similar_k" validate:"gte=1"`
}

func (r RecommendSettings) DefaultTopN() int     { return r.TopN }
func (r RecommendSettings) MaxTopN() int         { return r.MaxN }
func (r RecommendSettings) DefaultSimilarK() int { return r.SimilarK }

var _ core.RecommendConfig = RecommendSettings{}

// SimilaritySettings 控制两两相似度矩阵的计算。
type SimilaritySettings struct {
	// Workers <= 0 时为 GOMAXPROCS
	Workers    int  `koanf:"workers"`
	Precompute bool `koanf:"precompute"`
}

// LogSettings 对应 pkg/logging.Config。
type LogSettings struct {
	Level  string `koanf:"level" validate:"oneof=trace debug info warn warning error disabled off"`
	Format string `koanf:"format" validate:"oneof=json console"`
}

// Default 返回默认配置。
func Default() *Settings {
	return &Settings{
		Data: DataSettings{
			Path:   "Movies.csv",
			Schema: dataset.DefaultSchema(),
		},
		Vectorizer: vector.DefaultOptions(),
		Combiner:   CombinerSettings{YearPolicy: string(feature.YearOmit)},
		Recommend:  RecommendSettings{TopN: 5, MaxN: 20, SimilarK: 5},
		Log:        LogSettings{Level: "info", Format: "console"},
	}
}

var validate = validator.New()

// Validate 校验配置。
func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return core.WrapDomainError(core.ModuleConfig, core.ErrorCodeInvalidInput, "config: invalid settings", err)
	}
	return nil
}

// Load 分层加载配置：默认值 -> YAML 文件（可选）-> CINEREC_ 环境变量，然后校验。
//
// path 为空时依次尝试 CINEREC_CONFIG 与 DefaultPaths，都不存在则只使用默认值与环境变量；
// 显式指定的 path 不存在时报错。
func Load(path string) (*Settings, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Default(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path == "" {
		path = findFile()
	}
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}
	if err := processSliceFields(k); err != nil {
		return nil, err
	}

	s := &Settings{}
	if err := k.Unmarshal("", s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func findFile() string {
	if p := os.Getenv(PathEnvVar); p != "" {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	for _, p := range DefaultPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// sliceConfigPaths 是环境变量中以逗号分隔、需要拆成列表的配置项
var sliceConfigPaths = []string{
	"vectorizer.extra_stop_words",
}

// processSliceFields 把环境变量带来的 "a,b" 拆成 []string；YAML 中已经是列表的值保持不变。
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		raw, ok := k.Get(path).(string)
		if !ok {
			continue
		}
		parts := strings.Split(raw, ",")
		values := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				values = append(values, p)
			}
		}
		if err := k.Set(path, values); err != nil {
			return fmt.Errorf("set %s: %w", path, err)
		}
	}
	return nil
}

// envTransform 把 CINEREC_VECTORIZER_MIN_TOKEN_LEN 映射为 vectorizer.min_token_len：
// 去掉前缀后，第一个下划线之前是配置段，其余原样保留。
// 返回空串的变量会被忽略（例如 CINEREC_CONFIG 本身）。
func envTransform(key string) string {
	key = strings.ToLower(strings.TrimPrefix(key, EnvPrefix))
	section, rest, ok := strings.Cut(key, "_")
	if !ok || rest == "" {
		return ""
	}
	switch section {
	case "data", "vectorizer", "combiner", "recommend", "similarity", "log":
	default:
		return ""
	}
	if section == "data" && strings.HasPrefix(rest, "schema_") {
		return "data.schema." + strings.TrimPrefix(rest, "schema_")
	}
	return section + "." + rest
}
