// Package config provides configuration management for the podium-picks services.
package config

import (
	"fmt"
	"sort"
	"strings"

	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/projection"
	"github.com/yourusername/podium-picks/internal/scoring"
)

// Storage drivers
const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `mapstructure:"app" validate:"required"`
	Storage     StorageConfig     `mapstructure:"storage" validate:"required"`
	Database    DatabaseConfig    `mapstructure:"database"`
	Secrets     SecretsConfig     `mapstructure:"secrets"`
	Scoring     ScoringConfig     `mapstructure:"scoring" validate:"required"`
	SeasonPicks SeasonPicksConfig `mapstructure:"season_picks"`
	TieBreak    TieBreakConfig    `mapstructure:"tie_break" validate:"required"`
	Projection  ProjectionConfig  `mapstructure:"projection" validate:"required"`
	Cache       CacheConfig       `mapstructure:"cache" validate:"required"`
	Scheduler   SchedulerConfig   `mapstructure:"scheduler"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
	Health      HealthConfig      `mapstructure:"health"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	Season      int    `mapstructure:"season" validate:"required,gt=1949"`
}

// StorageConfig selects the result repository backend
type StorageConfig struct {
	Driver       string `mapstructure:"driver" validate:"required,oneof=memory postgres"`
	SnapshotPath string `mapstructure:"snapshot_path"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host"`
	Port               int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name               string `mapstructure:"name"`
	User               string `mapstructure:"user"`
	Password           string `mapstructure:"password"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"omitempty,gt=0"`
	BootstrapSchema    bool   `mapstructure:"bootstrap_schema"`
}

// SecretsConfig enables the AWS Secrets Manager overlay
type SecretsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	Region     string `mapstructure:"region" validate:"required_if=Enabled true"`
	SecretName string `mapstructure:"secret_name" validate:"required_if=Enabled true"`
}

// ScoringConfig represents weekly scoring rules
type ScoringConfig struct {
	WildcardRule      string         `mapstructure:"wildcard_rule" validate:"required,wildcardrule"`
	WildcardThreshold int            `mapstructure:"wildcard_threshold" validate:"gt=0"`
	SideBetPoints     map[string]int `mapstructure:"side_bet_points" validate:"required,min=1"`
	LockSideBets      bool           `mapstructure:"lock_side_bets"`
	BigMoverThreshold int            `mapstructure:"big_mover_threshold" validate:"gt=0"`
	FrontRunningTeams []string       `mapstructure:"front_running_teams"`
}

// SeasonPicksConfig represents season-long pick scoring
type SeasonPicksConfig struct {
	WDCExactPoints int            `mapstructure:"wdc_exact_points" validate:"gte=0"`
	WCCExactPoints int            `mapstructure:"wcc_exact_points" validate:"gte=0"`
	CategoryPoints map[string]int `mapstructure:"category_points"`
}

// TieBreakConfig lists tie-break keys in priority order
type TieBreakConfig struct {
	Keys []string `mapstructure:"keys" validate:"required,min=1,tiebreakkeys"`
}

// ProjectionConfig groups the feature model, weight table and simulation settings
type ProjectionConfig struct {
	Model      models.ProjectionModel      `mapstructure:"model"`
	Simulation projection.SimulationConfig `mapstructure:"simulation"`
	Features   features.Config             `mapstructure:"features"`
}

// CacheConfig represents service result cache configuration
type CacheConfig struct {
	TTLSeconds     int `mapstructure:"ttl_seconds" validate:"required,gt=0"`
	CleanupSeconds int `mapstructure:"cleanup_seconds" validate:"required,gt=0"`
}

// SchedulerConfig represents refresher cron schedules
type SchedulerConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	RefreshActuals  string `mapstructure:"refresh_actuals" validate:"required_if=Enabled true"`
	WarmProjections string `mapstructure:"warm_projections" validate:"required_if=Enabled true"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path" validate:"required_if=Enabled true"`
}

// HealthConfig represents the health server configuration
type HealthConfig struct {
	Port int `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// ScoringRules converts the scoring section into engine configuration.
// Side-bet keys are matched case-insensitively since viper lowercases map keys.
func (c *Config) ScoringRules() (scoring.Config, error) {
	points := make(map[models.SideBet]int, len(c.Scoring.SideBetPoints))
	for _, key := range sortedKeys(c.Scoring.SideBetPoints) {
		bet, ok := lookupSideBet(key)
		if !ok {
			return scoring.Config{}, models.NewConfigurationError("scoring.side_bet_points", fmt.Sprintf("unknown side bet %q", key))
		}
		points[bet] = c.Scoring.SideBetPoints[key]
	}
	rules := scoring.Config{
		WildcardRule:      c.Scoring.WildcardRule,
		WildcardThreshold: c.Scoring.WildcardThreshold,
		SideBetPoints:     points,
		LockSideBets:      c.Scoring.LockSideBets,
	}
	return rules, rules.Validate()
}

// SeasonPickRules converts the season_picks section
func (c *Config) SeasonPickRules() (scoring.SeasonPickConfig, error) {
	rules := scoring.DefaultSeasonPickConfig()
	rules.WDCExactPoints = c.SeasonPicks.WDCExactPoints
	rules.WCCExactPoints = c.SeasonPicks.WCCExactPoints
	for _, key := range sortedKeys(c.SeasonPicks.CategoryPoints) {
		group := models.CategoryGroup(strings.ToLower(key))
		if !isCategoryGroup(group) {
			return scoring.SeasonPickConfig{}, models.NewConfigurationError("season_picks.category_points", fmt.Sprintf("unknown category group %q", key))
		}
		rules.CategoryPoints[group] = c.SeasonPicks.CategoryPoints[key]
	}
	return rules, rules.Validate()
}

// DeriveOptions returns the actual-derivation settings
func (c *Config) DeriveOptions() models.DeriveOptions {
	opts := models.DefaultDeriveOptions()
	if c.Scoring.BigMoverThreshold > 0 {
		opts.BigMoverThreshold = c.Scoring.BigMoverThreshold
	}
	if len(c.Scoring.FrontRunningTeams) > 0 {
		opts.FrontRunningTeams = append([]string(nil), c.Scoring.FrontRunningTeams...)
	}
	return opts
}

// FeatureConfig returns the feature settings with the model's fallback rules applied
func (c *Config) FeatureConfig() features.Config {
	fc := c.Projection.Features
	fc.Fallback = c.Projection.Model.Fallback
	return fc
}

func lookupSideBet(key string) (models.SideBet, bool) {
	for _, bet := range models.AllSideBets {
		if strings.EqualFold(string(bet), key) {
			return bet, true
		}
	}
	return "", false
}

func isCategoryGroup(group models.CategoryGroup) bool {
	for _, g := range models.AllCategoryGroups {
		if g == group {
			return true
		}
	}
	return false
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
