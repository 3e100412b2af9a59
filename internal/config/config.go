// Package config loads the service configuration from YAML with environment
// overrides, and materializes per-brand thresholds and settings.
package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"ppc-keyword-lab/internal/domain"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Postgres   PostgresConfig   `yaml:"postgres"`
	Clickhouse ClickhouseConfig `yaml:"clickhouse"`
	Lifecycle  LifecycleConfig  `yaml:"lifecycle"`
	Brands     []BrandConfig    `yaml:"brands"`
}

// ServerConfig holds the HTTP server settings.
type ServerConfig struct {
	Host        string `yaml:"host"`
	Port        int    `yaml:"port"`
	MetricsAddr string `yaml:"metrics_addr"`
}

// PostgresConfig holds the PostgreSQL connection settings.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// ClickhouseConfig holds the ClickHouse connection settings.
type ClickhouseConfig struct {
	DSN string `yaml:"dsn"`
}

// LifecycleConfig holds the daily batch settings.
type LifecycleConfig struct {
	WindowDays         int           `yaml:"window_days"`
	RunInterval        time.Duration `yaml:"run_interval"`
	KeywordTimeout     time.Duration `yaml:"keyword_timeout"`
	TargetACOSFraction float64       `yaml:"target_acos_fraction"`
	Verbose            bool          `yaml:"verbose"`
}

// BrandConfig holds one brand's thresholds and evaluator settings.
type BrandConfig struct {
	BrandID string `yaml:"brand_id"`

	Thresholds ThresholdsConfig    `yaml:"thresholds"`
	Settings   BrandSettingsConfig `yaml:"settings"`
}

// ThresholdsConfig feeds the metrics-driven rule path. Zero values fall back
// to the canonical defaults.
type ThresholdsConfig struct {
	ClicksPromoteStandard    int     `yaml:"clicks_promote_standard"`
	ClicksPromoteCompetitive int     `yaml:"clicks_promote_competitive"`
	ClicksNegateStandard     int     `yaml:"clicks_negate_standard"`
	ClicksNegateCompetitive  int     `yaml:"clicks_negate_competitive"`
	CVRGraduationFactor      float64 `yaml:"cvr_graduation_factor"`
	CTRPauseThreshold        float64 `yaml:"ctr_pause_threshold"`
	WastedSpendRed           float64 `yaml:"wasted_spend_red"`
}

// BrandSettingsConfig feeds the performance-driven evaluator path. Targets
// are percentage numbers.
type BrandSettingsConfig struct {
	ClicksToPromote int     `yaml:"clicks_to_promote"`
	ClicksToNegate  int     `yaml:"clicks_to_negate"`
	TargetACOS      float64 `yaml:"target_acos"`
	TargetCTR       float64 `yaml:"target_ctr"`
	TargetCVR       float64 `yaml:"target_cvr"`
	TargetROAS      float64 `yaml:"target_roas"`

	CVRFactorMedian         float64 `yaml:"cvr_factor_median"`
	CTRPauseThreshold       float64 `yaml:"ctr_pause_threshold"`
	WastedSpendRedThreshold float64 `yaml:"wasted_spend_red_threshold"`

	EnableAutoPromotion            bool `yaml:"enable_auto_promotion"`
	EnableAutoNegation             bool `yaml:"enable_auto_negation"`
	EnableAutoPause                bool `yaml:"enable_auto_pause"`
	EnableCannibalizationDetection bool `yaml:"enable_cannibalization_detection"`
}

// Load reads and parses the YAML config at path, fills defaults, and
// validates brand thresholds.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	// Set defaults
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.MetricsAddr == "" {
		cfg.Server.MetricsAddr = ":9090"
	}
	if cfg.Lifecycle.WindowDays == 0 {
		cfg.Lifecycle.WindowDays = 30
	}
	if cfg.Lifecycle.RunInterval == 0 {
		cfg.Lifecycle.RunInterval = 24 * time.Hour
	}
	if cfg.Lifecycle.KeywordTimeout == 0 {
		cfg.Lifecycle.KeywordTimeout = 10 * time.Second
	}
	if cfg.Lifecycle.TargetACOSFraction == 0 {
		cfg.Lifecycle.TargetACOSFraction = domain.DefaultTargetACOS
	}

	for i := range cfg.Brands {
		fillThresholdDefaults(&cfg.Brands[i].Thresholds)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadFromEnv loads .env if present, then the YAML config, then applies
// environment overrides for connection strings.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	if dsn := os.Getenv("POSTGRES_DSN"); dsn != "" {
		cfg.Postgres.DSN = dsn
	}
	if dsn := os.Getenv("CLICKHOUSE_DSN"); dsn != "" {
		cfg.Clickhouse.DSN = dsn
	}

	return cfg, nil
}

func fillThresholdDefaults(t *ThresholdsConfig) {
	if t.ClicksPromoteStandard == 0 {
		t.ClicksPromoteStandard = domain.DefaultClicksPromoteStandard
	}
	if t.ClicksPromoteCompetitive == 0 {
		t.ClicksPromoteCompetitive = domain.DefaultClicksPromoteCompetitive
	}
	if t.ClicksNegateStandard == 0 {
		t.ClicksNegateStandard = domain.DefaultClicksNegateStandard
	}
	if t.ClicksNegateCompetitive == 0 {
		t.ClicksNegateCompetitive = domain.DefaultClicksNegateCompetitive
	}
	if t.CVRGraduationFactor == 0 {
		t.CVRGraduationFactor = domain.DefaultCVRGraduationFactor
	}
	if t.CTRPauseThreshold == 0 {
		t.CTRPauseThreshold = domain.DefaultCTRPauseThreshold
	}
	if t.WastedSpendRed == 0 {
		t.WastedSpendRed = domain.DefaultWastedSpendRed
	}
}

// validate rejects malformed brand entries. Competitive click thresholds
// below their standard counterparts are unusual but legal: log a warning and
// continue.
func (c *Config) validate() error {
	seen := make(map[string]bool, len(c.Brands))
	for _, b := range c.Brands {
		if b.BrandID == "" {
			return fmt.Errorf("brand entry missing brand_id")
		}
		if seen[b.BrandID] {
			return fmt.Errorf("duplicate brand_id %q", b.BrandID)
		}
		seen[b.BrandID] = true

		if b.Thresholds.ClicksPromoteCompetitive < b.Thresholds.ClicksPromoteStandard {
			log.Printf("[config] brand %s: clicks_promote_competitive (%d) below clicks_promote_standard (%d)",
				b.BrandID, b.Thresholds.ClicksPromoteCompetitive, b.Thresholds.ClicksPromoteStandard)
		}
		if b.Thresholds.ClicksNegateCompetitive < b.Thresholds.ClicksNegateStandard {
			log.Printf("[config] brand %s: clicks_negate_competitive (%d) below clicks_negate_standard (%d)",
				b.BrandID, b.Thresholds.ClicksNegateCompetitive, b.Thresholds.ClicksNegateStandard)
		}
	}
	return nil
}

// DomainThresholds materializes a brand's SettingsThresholds.
func (b *BrandConfig) DomainThresholds() *domain.SettingsThresholds {
	return &domain.SettingsThresholds{
		BrandID:                  b.BrandID,
		ClicksPromoteStandard:    b.Thresholds.ClicksPromoteStandard,
		ClicksPromoteCompetitive: b.Thresholds.ClicksPromoteCompetitive,
		ClicksNegateStandard:     b.Thresholds.ClicksNegateStandard,
		ClicksNegateCompetitive:  b.Thresholds.ClicksNegateCompetitive,
		CVRGraduationFactor:      b.Thresholds.CVRGraduationFactor,
		CTRPauseThreshold:        b.Thresholds.CTRPauseThreshold,
		WastedSpendRed:           b.Thresholds.WastedSpendRed,
	}
}

// DomainSettings materializes a brand's BrandSettings.
func (b *BrandConfig) DomainSettings() *domain.BrandSettings {
	return &domain.BrandSettings{
		BrandID:                        b.BrandID,
		ClicksToPromote:                b.Settings.ClicksToPromote,
		ClicksToNegate:                 b.Settings.ClicksToNegate,
		TargetACOS:                     b.Settings.TargetACOS,
		TargetCTR:                      b.Settings.TargetCTR,
		TargetCVR:                      b.Settings.TargetCVR,
		TargetROAS:                     b.Settings.TargetROAS,
		CVRFactorMedian:                b.Settings.CVRFactorMedian,
		CTRPauseThreshold:              b.Settings.CTRPauseThreshold,
		WastedSpendRedThreshold:        b.Settings.WastedSpendRedThreshold,
		EnableAutoPromotion:            b.Settings.EnableAutoPromotion,
		EnableAutoNegation:             b.Settings.EnableAutoNegation,
		EnableAutoPause:                b.Settings.EnableAutoPause,
		EnableCannibalizationDetection: b.Settings.EnableCannibalizationDetection,
	}
}
