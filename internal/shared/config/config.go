package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Env               string        `mapstructure:"env"`
	Port              string        `mapstructure:"port"`
	APIToken          string        `mapstructure:"api_token"`
	CORSAllowOrigin   []string      `mapstructure:"cors_allow_origins"`
	ProfilePath       string        `mapstructure:"profile_path"`
	TemplatesDir      string        `mapstructure:"templates_dir"`
	OutputDir         string        `mapstructure:"output_dir"`
	UploadsDir        string        `mapstructure:"uploads_dir"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	ParseTimeout      time.Duration `mapstructure:"parse_timeout"`
	ProbeTimeout      time.Duration `mapstructure:"probe_timeout"`
	ReferenceYear     int           `mapstructure:"reference_year"`
	PDF               PDFConfig     `mapstructure:"pdf"`
	Store             StoreConfig   `mapstructure:"store"`
	LLM               LLMConfig     `mapstructure:"llm"`
}

// PDFConfig controls the external markdown to PDF converter.
type PDFConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Pandoc  string `mapstructure:"pandoc"`
	Engine  string `mapstructure:"engine"`
	Margin  string `mapstructure:"margin"`
}

// StoreConfig selects where artifacts are mirrored.
type StoreConfig struct {
	Type     string `mapstructure:"type"`
	Region   string `mapstructure:"region"`
	Bucket   string `mapstructure:"bucket"`
	Prefix   string `mapstructure:"prefix"`
	KMSKeyID string `mapstructure:"kms_key_id"`
}

// LLMConfig holds credentials for remote OpenAI-compatible endpoints.
type LLMConfig struct {
	APIKey string `mapstructure:"api_key"`
}

// Load reads configuration from env vars (JOBAPP_*), an optional jobapp.yaml and defaults.
func Load() (Config, error) {
	// Best-effort load of local env files for dev convenience.
	_ = godotenv.Load(".env")

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("JOBAPP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName("jobapp")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.Env = normalizeEnv(cfg.Env)
	cfg.Store.Type = normalizeStoreType(cfg.Store.Type)
	cfg.CORSAllowOrigin = splitAndTrim(cfg.CORSAllowOrigin)
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "dev")
	v.SetDefault("port", "8080")
	v.SetDefault("api_token", "")
	v.SetDefault("cors_allow_origins", []string{"http://localhost:5173"})
	v.SetDefault("profile_path", "config.json")
	v.SetDefault("templates_dir", "templates")
	v.SetDefault("output_dir", "output")
	v.SetDefault("uploads_dir", "uploads")
	v.SetDefault("generation_timeout", 30*time.Second)
	v.SetDefault("parse_timeout", 60*time.Second)
	v.SetDefault("probe_timeout", 2*time.Second)
	v.SetDefault("reference_year", 2025)

	v.SetDefault("pdf.enabled", true)
	v.SetDefault("pdf.pandoc", "pandoc")
	v.SetDefault("pdf.engine", "xelatex")
	v.SetDefault("pdf.margin", "0.75in")

	v.SetDefault("store.type", "local")
	v.SetDefault("store.region", "")
	v.SetDefault("store.bucket", "")
	v.SetDefault("store.prefix", "jobapp")
	v.SetDefault("store.kms_key_id", "")

	v.SetDefault("llm.api_key", "")
}

func splitAndTrim(raw []string) []string {
	var out []string
	for _, entry := range raw {
		for _, p := range strings.Split(entry, ",") {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				out = append(out, trimmed)
			}
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}
