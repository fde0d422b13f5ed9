package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "FOCUSFLOW"

type RuntimeConfig struct {
	Store              string        `mapstructure:"store"`
	StatePath          string        `mapstructure:"state_file"`
	Rephraser          string        `mapstructure:"rephraser"`
	GeminiModel        string        `mapstructure:"gemini_model"`
	GeminiAPIKey       string        `mapstructure:"gemini_api_key"`
	GeminiEndpoint     string        `mapstructure:"gemini_endpoint"`
	RephraseTimeout    time.Duration `mapstructure:"rephrase_timeout"`
	LowEnergyThreshold int           `mapstructure:"low_energy_threshold"`
	LogFile            string        `mapstructure:"log_file"`
	LogLevel           string        `mapstructure:"log_level"`
}

func DefaultRuntimeConfig() RuntimeConfig {
	return RuntimeConfig{
		Store:              "file",
		StatePath:          "focusflow_tasks.json",
		Rephraser:          "gemini",
		GeminiModel:        "gemini-1.5-flash",
		RephraseTimeout:    20 * time.Second,
		LowEnergyThreshold: 3,
		LogLevel:           "info",
	}
}

// DefaultConfigPath is ~/.focusflow/config.yaml, or "" without a home dir.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".focusflow", "config.yaml")
}

// Load layers an optional YAML file and then FOCUSFLOW_* env vars over base.
// A missing file is not an error.
func Load(base RuntimeConfig, path string) (RuntimeConfig, error) {
	cfg := base
	if strings.TrimSpace(path) != "" {
		if err := loadFile(path, &cfg); err != nil && !errors.Is(err, os.ErrNotExist) {
			return base, fmt.Errorf("load config %s: %w", path, err)
		}
	}
	return RuntimeConfigFromEnv(cfg), nil
}

func loadFile(path string, cfg *RuntimeConfig) error {
	if _, err := os.Stat(path); err != nil {
		return err
	}
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return err
	}
	next := *cfg
	if err := v.Unmarshal(&next); err != nil {
		return err
	}
	*cfg = sanitize(next, *cfg)
	return nil
}

// RuntimeConfigFromEnv applies FOCUSFLOW_* overrides. Values that fail to
// parse or are out of range keep the base value.
func RuntimeConfigFromEnv(base RuntimeConfig) RuntimeConfig {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	cfg := base
	if s, ok := envString(v, "store"); ok {
		cfg.Store = strings.ToLower(s)
	}
	if s, ok := envString(v, "state_file"); ok {
		cfg.StatePath = s
	}
	if s, ok := envString(v, "rephraser"); ok {
		cfg.Rephraser = strings.ToLower(s)
	}
	if s, ok := envString(v, "gemini_model"); ok {
		cfg.GeminiModel = s
	}
	if s, ok := envString(v, "gemini_api_key"); ok {
		cfg.GeminiAPIKey = s
	} else if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = strings.TrimSpace(os.Getenv("GOOGLE_API_KEY"))
	}
	if s, ok := envString(v, "gemini_endpoint"); ok {
		cfg.GeminiEndpoint = s
	}
	if s, ok := envString(v, "rephrase_timeout"); ok {
		if d, err := time.ParseDuration(s); err == nil && d > 0 {
			cfg.RephraseTimeout = d
		}
	}
	if s, ok := envString(v, "low_energy_threshold"); ok {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			cfg.LowEnergyThreshold = n
		}
	}
	if s, ok := envString(v, "log_file"); ok {
		cfg.LogFile = s
	}
	if s, ok := envString(v, "log_level"); ok {
		cfg.LogLevel = strings.ToLower(s)
	}
	return cfg
}

func envString(v *viper.Viper, key string) (string, bool) {
	raw := strings.TrimSpace(v.GetString(key))
	if raw == "" {
		return "", false
	}
	return raw, true
}

func sanitize(next, base RuntimeConfig) RuntimeConfig {
	if next.RephraseTimeout <= 0 {
		next.RephraseTimeout = base.RephraseTimeout
	}
	if next.LowEnergyThreshold <= 0 {
		next.LowEnergyThreshold = base.LowEnergyThreshold
	}
	next.Store = strings.ToLower(strings.TrimSpace(next.Store))
	if next.Store == "" {
		next.Store = base.Store
	}
	next.Rephraser = strings.ToLower(strings.TrimSpace(next.Rephraser))
	if next.Rephraser == "" {
		next.Rephraser = base.Rephraser
	}
	return next
}
