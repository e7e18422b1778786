package config

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/yourusername/podium-picks/internal/features"
	"github.com/yourusername/podium-picks/internal/models"
	"github.com/yourusername/podium-picks/internal/projection"
	"github.com/yourusername/podium-picks/internal/scoring"
	"github.com/yourusername/podium-picks/internal/tiebreak"
)

const (
	envPrefix         = "PODIUM_PICKS"
	defaultConfigPath = "config/config.yaml"
)

// Load reads and parses the configuration from file and environment variables.
// It expands environment variable placeholders in the YAML file (${VAR_NAME}).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found at %s: %w", configPath, err)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	v := newViper()
	if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return unmarshal(v)
}

// LoadWithDefaults loads configuration with default values for optional fields.
// A missing file is not an error; defaults and environment variables apply.
func LoadWithDefaults(configPath string) (*Config, error) {
	if configPath == "" {
		configPath = defaultConfigPath
	}

	v := newViper()
	setDefaults(v)

	if data, err := os.ReadFile(configPath); err == nil {
		if err := v.ReadConfig(bytes.NewBufferString(os.ExpandEnv(string(data)))); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return unmarshal(v)
}

// ReloadFromEnv reloads the configuration when PODIUM_PICKS_CONFIG_PATH is set
func ReloadFromEnv(cfg *Config) error {
	if envPath := os.Getenv(envPrefix + "_CONFIG_PATH"); envPath != "" {
		newCfg, err := Load(envPath)
		if err != nil {
			return err
		}
		*cfg = *newCfg
	}
	return nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "podium-picks")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")
	v.SetDefault("app.season", time.Now().Year())
	v.SetDefault("storage.driver", StorageMemory)

	v.SetDefault("database.port", 5432)
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.max_idle_connections", 2)

	sideBets := make(map[string]int, len(models.AllSideBets))
	for bet, pts := range scoring.DefaultConfig().SideBetPoints {
		sideBets[string(bet)] = pts
	}
	v.SetDefault("scoring.wildcard_rule", "top10")
	v.SetDefault("scoring.wildcard_threshold", 10)
	v.SetDefault("scoring.side_bet_points", sideBets)
	v.SetDefault("scoring.lock_side_bets", false)
	v.SetDefault("scoring.big_mover_threshold", models.DefaultDeriveOptions().BigMoverThreshold)
	v.SetDefault("scoring.front_running_teams", models.DefaultDeriveOptions().FrontRunningTeams)

	v.SetDefault("season_picks.wdc_exact_points", 1)
	v.SetDefault("season_picks.wcc_exact_points", 1)

	keys := make([]string, len(tiebreak.DefaultKeys))
	for i, k := range tiebreak.DefaultKeys {
		keys[i] = string(k)
	}
	v.SetDefault("tie_break.keys", keys)

	model := models.DefaultProjectionModel()
	v.SetDefault("projection.model.version", model.Version)
	v.SetDefault("projection.model.qualifying_weights", model.QualifyingWeights)
	v.SetDefault("projection.model.qualifying_total", model.QualifyingTotal)
	v.SetDefault("projection.model.race_weights", model.RaceWeights)
	v.SetDefault("projection.model.race_total", model.RaceTotal)
	v.SetDefault("projection.model.fallback.neutral_score", model.Fallback.NeutralScore)
	v.SetDefault("projection.model.fallback.min_confidence", model.Fallback.MinConfidence)
	v.SetDefault("projection.model.fallback.season_fallback_penalty", model.Fallback.SeasonFallbackPenalty)

	sim := projection.DefaultSimulationConfig()
	v.SetDefault("projection.simulation.runs", sim.Runs)
	v.SetDefault("projection.simulation.seed", sim.Seed)
	v.SetDefault("projection.simulation.noise_scale", sim.NoiseScale)
	v.SetDefault("projection.simulation.dnf_scale", sim.DNFScale)
	v.SetDefault("projection.simulation.grid_influence", sim.GridInfluence)
	v.SetDefault("projection.simulation.points_table", sim.PointsTable)

	fc := features.DefaultConfig()
	v.SetDefault("projection.features.momentum_window", fc.MomentumWindow)
	v.SetDefault("projection.features.momentum_slope_range", fc.MomentumSlopeRange)
	v.SetDefault("projection.features.form_decay", fc.FormDecay)
	v.SetDefault("projection.features.q3_cutoff", fc.Q3Cutoff)
	v.SetDefault("projection.features.teammate_weight", fc.TeammateWeight)
	v.SetDefault("projection.features.track_type_similarity", fc.TrackTypeSimilarity)
	v.SetDefault("projection.features.confidence_saturation", fc.ConfidenceSaturation)

	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.cleanup_seconds", 600)
	v.SetDefault("scheduler.refresh_actuals", "*/15 * * * *")
	v.SetDefault("scheduler.warm_projections", "0 * * * *")
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
	v.SetDefault("health.port", 8081)
}
