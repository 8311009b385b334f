package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rushteam/cinerec/config"
	"github.com/rushteam/cinerec/engine"
	"github.com/rushteam/cinerec/feature"
	"github.com/rushteam/cinerec/pkg/logging"
)

var rootCmd = &cobra.Command{
	Use:   "cinerec",
	Short: "Content-based movie recommender",
	Long: `cinerec loads a movie CSV (Movie, Genre, Overview, Rating, Year) and serves
genre/year recommendations ranked by rating, plus TF-IDF content similarity.

Settings are read from cinerec.yaml (or --config) and CINEREC_* environment variables.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

var (
	configPath string
	dataPath   string
	logLevel   string
	logFormat  string

	// settings 由 PersistentPreRunE 填充，子命令只读使用
	settings *config.Settings
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML settings file (default: $CINEREC_CONFIG or ./cinerec.yaml)")
	rootCmd.PersistentFlags().StringVarP(&dataPath, "data", "d", "", "Path to the movie CSV (overrides data.path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format: console or json")
}

// loadSettings 分层加载配置后应用命令行覆盖，并初始化日志。
func loadSettings(cmd *cobra.Command, _ []string) error {
	s, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	if dataPath != "" {
		s.Data.Path = dataPath
	}
	if logLevel != "" {
		s.Log.Level = logLevel
	}
	if logFormat != "" {
		s.Log.Format = logFormat
	}
	if err := s.Validate(); err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:  s.Log.Level,
		Format: s.Log.Format,
		Output: cmd.ErrOrStderr(),
	})
	settings = s
	return nil
}

// engineOptions 把应用配置转换为引擎选项。
func engineOptions(s *config.Settings) (engine.Options, error) {
	policy, err := feature.ParseYearPolicy(s.Combiner.YearPolicy)
	if err != nil {
		return engine.Options{}, err
	}
	return engine.Options{
		YearPolicy: policy,
		Vectorizer: s.Vectorizer,
		Recommend:  s.Recommend,
		Workers:    s.Similarity.Workers,
		Precompute: s.Similarity.Precompute,
	}, nil
}

// openState 读取 CSV 并完成一次性初始化。
func openState(ctx context.Context) (*engine.State, error) {
	opts, err := engineOptions(settings)
	if err != nil {
		return nil, err
	}
	st, err := engine.Load(ctx, settings.Data.Path, settings.Data.Schema, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus %s: %w", settings.Data.Path, err)
	}
	return st, nil
}
