package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Data      DataConfig      `yaml:"data"`
	Matching  MatchingConfig  `yaml:"matching"`
	Phone     PhoneConfig     `yaml:"phone"`
	Reconcile ReconcileConfig `yaml:"reconcile"`
	Export    ExportConfig    `yaml:"export"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with env override.
func (c ServerConfig) GetHost() string {
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	if c.Host == "" {
		return "localhost"
	}
	return c.Host
}

// DataConfig holds flat-file storage locations (rosters, temp output).
type DataConfig struct {
	Dir string `yaml:"dir"`
}

// MatchingConfig holds the fuzzy column matcher thresholds.
type MatchingConfig struct {
	MinScore      float64 `yaml:"min_score"`
	MinScoreFuzzy float64 `yaml:"min_score_fuzzy"`
}

// PhoneConfig holds phone normalization settings.
type PhoneConfig struct {
	DefaultCountryCode string `yaml:"default_country_code"`
}

// ReconcileConfig holds CRM error-report reconciliation settings.
type ReconcileConfig struct {
	// DuplicateMarkers are lowercase substrings that classify an import
	// error message as a duplicate record. Tunable allow-list.
	DuplicateMarkers []string `yaml:"duplicate_markers"`
}

// ExportConfig holds defaults for generated spreadsheets and reports.
type ExportConfig struct {
	DefaultNiche    string `yaml:"default_niche"`
	DefaultUF       string `yaml:"default_uf"`
	DefaultRole     string `yaml:"default_role"`
	DefaultLocality string `yaml:"default_locality"`
	LeadsPerBatch   int    `yaml:"leads_per_batch"`
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Host == "" {
		c.Server.Host = "localhost"
	}
	if c.Data.Dir == "" {
		c.Data.Dir = "."
	}
	if c.Matching.MinScore == 0 {
		c.Matching.MinScore = 50
	}
	if c.Matching.MinScoreFuzzy == 0 {
		c.Matching.MinScoreFuzzy = 60
	}
	if c.Phone.DefaultCountryCode == "" {
		c.Phone.DefaultCountryCode = "+55"
	}
	if len(c.Reconcile.DuplicateMarkers) == 0 {
		c.Reconcile.DuplicateMarkers = []string{"duplicidade", "duplicate", "já existe", "cadastrado"}
	}
	if c.Export.DefaultNiche == "" {
		c.Export.DefaultNiche = "GERAL"
	}
	if c.Export.DefaultUF == "" {
		c.Export.DefaultUF = "MS"
	}
	if c.Export.DefaultRole == "" {
		c.Export.DefaultRole = "Lead Automovel"
	}
	if c.Export.DefaultLocality == "" {
		c.Export.DefaultLocality = "CG"
	}
	if c.Export.LeadsPerBatch == 0 {
		c.Export.LeadsPerBatch = 50
	}
}

// Default returns a configuration with all defaults applied, for callers
// that run without a config file (CLI, tests).
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

// LoadFromEnv loads the config file and applies environment overrides.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	// Override with environment variables if present
	if dir := os.Getenv("LEADFLOW_DATA_DIR"); dir != "" {
		cfg.Data.Dir = dir
	}
	if port := os.Getenv("LEADFLOW_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil && n > 0 {
			cfg.Server.Port = n
		}
	}
	if code := os.Getenv("LEADFLOW_COUNTRY_CODE"); code != "" {
		cfg.Phone.DefaultCountryCode = code
	}

	return cfg, nil
}
