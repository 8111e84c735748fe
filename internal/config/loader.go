package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/linesift/linesift/pkg/alg/linehash"
	"github.com/linesift/linesift/pkg/budget"
	"github.com/linesift/linesift/pkg/linediff"
)

// configName is the config file name without extension.
const configName = ".linesift"

// configType is the config file format.
const configType = "yaml"

// envPrefix is the environment variable prefix for linesift settings.
const envPrefix = "LINESIFT"

// envKeySeparator is the nested key separator in environment variable names.
const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars, and defaults.
// If configPath is non-empty, it is used as the explicit config file path.
// Otherwise, the config file is searched in CWD and $HOME.
// Missing config file is not an error; defaults are used.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)
		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("diff.language", "")
	viperCfg.SetDefault("diff.modified_threshold", linediff.DefaultModifiedThreshold)
	viperCfg.SetDefault("diff.move_threshold", linediff.DefaultMoveThreshold)
	viperCfg.SetDefault("diff.fast_threshold", linediff.DefaultFastThreshold)
	viperCfg.SetDefault("diff.min_block_size", linediff.DefaultMinBlockSize)
	viperCfg.SetDefault("diff.max_block_size", linediff.DefaultMaxBlockSize)
	viperCfg.SetDefault("diff.min_lines_for_detection", linediff.DefaultMinLinesForDetection)
	viperCfg.SetDefault("diff.max_lines_for_detection", linediff.DefaultMaxLinesForDetection)
	viperCfg.SetDefault("diff.num_bands", linediff.DefaultNumBands)
	viperCfg.SetDefault("diff.signature_width", linehash.DefaultWidth)
	viperCfg.SetDefault("diff.max_blocks_returned", linediff.DefaultMaxBlocksReturned)
	viperCfg.SetDefault("diff.max_operations", budget.DefaultMaxOperations)
	viperCfg.SetDefault("diff.timeout_ms", DefaultTimeoutMS)
	viperCfg.SetDefault("diff.detect_moves", DefaultDetectMoves)

	viperCfg.SetDefault("output.format", DefaultOutputFormat)
	viperCfg.SetDefault("output.color", DefaultOutputColor)
	viperCfg.SetDefault("output.compress", DefaultOutputCompress)
}
