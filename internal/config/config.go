// Package config provides configuration management for the paddock simulator.
package config

import (
	"fmt"
	"strings"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Storage    StorageConfig    `mapstructure:"storage" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Simulation SimulationConfig `mapstructure:"simulation" validate:"required"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// StorageConfig selects the persistence backend
type StorageConfig struct {
	Driver     string `mapstructure:"driver" validate:"required,storagedriver"`
	SQLitePath string `mapstructure:"sqlite_path" validate:"required_if=Driver sqlite"`
}

// DatabaseConfig represents PostgreSQL connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"omitempty,gt=0"`
}

// SimulationConfig holds every simulation parameter consumed by the engines
type SimulationConfig struct {
	Track        TrackConfig        `mapstructure:"track" validate:"required"`
	Terrain      TerrainConfig      `mapstructure:"terrain" validate:"required"`
	Aging        AgingConfig        `mapstructure:"aging" validate:"required"`
	Form         FormConfig         `mapstructure:"form" validate:"required"`
	Stamina      StaminaConfig      `mapstructure:"stamina" validate:"required"`
	Injury       InjuryConfig       `mapstructure:"injury" validate:"required"`
	Retirement   RetirementConfig   `mapstructure:"retirement" validate:"required"`
	Rookie       RookieConfig       `mapstructure:"rookie" validate:"required"`
	Betting      BettingConfig      `mapstructure:"betting" validate:"required"`
	Championship ChampionshipConfig `mapstructure:"championship" validate:"required"`
}

// TrackConfig describes track geometry and the simulation clock
type TrackConfig struct {
	Length        float64 `mapstructure:"length" validate:"required,gt=0"`
	SegmentLength float64 `mapstructure:"segment_length" validate:"required,gt=0"`
	TimeStep      float64 `mapstructure:"time_step" validate:"required,gt=0"`
	MaxTicks      int     `mapstructure:"max_ticks" validate:"required,gt=0"`
	FieldSize     int     `mapstructure:"field_size" validate:"required,gte=2"`
}

// TerrainModifier is the per-terrain-type modifier row
type TerrainModifier struct {
	Speed        float64 `mapstructure:"speed" validate:"required,gt=0"`
	StaminaDrain float64 `mapstructure:"stamina_drain" validate:"required,gt=0"`
	InjuryChance float64 `mapstructure:"injury_chance" validate:"gte=0,lte=1"`
}

// TerrainConfig configures the terrain generator
type TerrainConfig struct {
	Neutral        string                     `mapstructure:"neutral" validate:"required"`
	PatchTypes     []string                   `mapstructure:"patch_types" validate:"required,min=1"`
	Patches        int                        `mapstructure:"patches" validate:"gte=0"`
	PatchMinLength int                        `mapstructure:"patch_min_length" validate:"required,gt=0"`
	PatchMaxLength int                        `mapstructure:"patch_max_length" validate:"required,gtefield=PatchMinLength"`
	Modifiers      map[string]TerrainModifier `mapstructure:"modifiers" validate:"required,min=1,dive"`
}

// AgingConfig shapes the age multiplier curve
type AgingConfig struct {
	PeakAge         int     `mapstructure:"peak_age" validate:"required,gt=0"`
	YouthFloor      float64 `mapstructure:"youth_floor" validate:"required,gt=0,lte=1"`
	DeclinePerYear  float64 `mapstructure:"decline_per_year" validate:"gte=0"`
	DeclineCapYears float64 `mapstructure:"decline_cap_years" validate:"gte=0"`
	MinMultiplier   float64 `mapstructure:"min_multiplier" validate:"required,gt=0"`
	MaxMultiplier   float64 `mapstructure:"max_multiplier" validate:"required,gtefield=MinMultiplier"`
}

// FormConfig shapes the recent-form multiplier
type FormConfig struct {
	Depth          int       `mapstructure:"depth" validate:"required,gt=0"`
	Weights        []float64 `mapstructure:"weights" validate:"required,min=1,dive,gt=0"`
	Impact         float64   `mapstructure:"impact" validate:"gte=0,lte=1"`
	PositionScores []float64 `mapstructure:"position_scores" validate:"required,min=1,dive,gte=0,lte=1"`
	DefaultScore   float64   `mapstructure:"default_score" validate:"gte=0,lte=1"`
}

// StaminaConfig configures drain, recovery and the exhaustion multipliers
type StaminaConfig struct {
	DrainBase          float64 `mapstructure:"drain_base" validate:"required,gt=0"`
	RecoveryRate       float64 `mapstructure:"recovery_rate" validate:"required,gt=0"`
	BoostMultiplier    float64 `mapstructure:"boost_multiplier" validate:"required,gt=0"`
	DepletedMultiplier float64 `mapstructure:"depleted_multiplier" validate:"required,gt=0"`
	EffortScaling      bool    `mapstructure:"effort_scaling"`
	EffortMin          float64 `mapstructure:"effort_min" validate:"required,gt=0"`
	EffortMax          float64 `mapstructure:"effort_max" validate:"required,gtefield=EffortMin"`
	Floor              float64 `mapstructure:"floor" validate:"required,gt=0"`
}

// InjuryConfig configures in-race injury risk and post-race injury rolls
type InjuryConfig struct {
	SeverityMin             int                `mapstructure:"severity_min" validate:"required,gte=1"`
	SeverityMax             int                `mapstructure:"severity_max" validate:"required,gtefield=SeverityMin"`
	DurationMin             int                `mapstructure:"duration_min" validate:"required,gte=1"`
	DurationMax             int                `mapstructure:"duration_max" validate:"required,gtefield=DurationMin"`
	SeverityPenalty         float64            `mapstructure:"severity_penalty" validate:"gte=0,lte=1"`
	MinMultiplier           float64            `mapstructure:"min_multiplier" validate:"required,gt=0,lte=1"`
	LowStaminaThreshold     float64            `mapstructure:"low_stamina_threshold" validate:"required,gt=0,lte=1"`
	StaminaRiskMax          float64            `mapstructure:"stamina_risk_max" validate:"required,gte=1"`
	AgeRiskPerYearOverPeak  float64            `mapstructure:"age_risk_per_year_over_peak" validate:"gte=0"`
	AgeRiskPerYearUnderPeak float64            `mapstructure:"age_risk_per_year_under_peak" validate:"gte=0"`
	SpeedPenalty            float64            `mapstructure:"speed_penalty" validate:"required,gt=0,lte=1"`
	RaceTypeMultipliers     map[string]float64 `mapstructure:"race_type_multipliers" validate:"required,min=1,dive,gt=0"`
	InjuryType              string             `mapstructure:"injury_type" validate:"required"`
}

// RetirementConfig configures aging steps and retirement
type RetirementConfig struct {
	RacesPerYear        int     `mapstructure:"races_per_year" validate:"required,gt=0"`
	MinRetireAge        int     `mapstructure:"min_retire_age" validate:"required,gt=0"`
	ForcedRetireAge     int     `mapstructure:"forced_retire_age" validate:"required,gtefield=MinRetireAge"`
	RetireChancePerYear float64 `mapstructure:"retire_chance_per_year" validate:"gte=0,lte=1"`
}

// RookieConfig configures generated replacement horses
type RookieConfig struct {
	StartingAge     int     `mapstructure:"starting_age" validate:"required,gte=2"`
	SpeedMin        float64 `mapstructure:"speed_min" validate:"required,gt=0"`
	SpeedMax        float64 `mapstructure:"speed_max" validate:"required,gtefield=SpeedMin"`
	StaminaMin      float64 `mapstructure:"stamina_min" validate:"required,gt=0"`
	StaminaMax      float64 `mapstructure:"stamina_max" validate:"required,gtefield=StaminaMin"`
	AccelerationMin float64 `mapstructure:"acceleration_min" validate:"required,gt=0"`
	AccelerationMax float64 `mapstructure:"acceleration_max" validate:"required,gtefield=AccelerationMin"`
}

// BettingConfig configures the odds engine and bet markets
type BettingConfig struct {
	HouseEdge      float64  `mapstructure:"house_edge" validate:"gte=0,lt=1"`
	PlaceCap       float64  `mapstructure:"place_cap" validate:"required,gt=0,lte=1"`
	PlaceMinOdds   float64  `mapstructure:"place_min_odds" validate:"required,gte=1"`
	SentinelOdds   float64  `mapstructure:"sentinel_odds" validate:"required,gt=1"`
	Markets        []string `mapstructure:"markets" validate:"required,min=1,markets"`
	OddsCacheTTL   int      `mapstructure:"odds_cache_ttl_seconds" validate:"required,gt=0"`
	StartingWallet float64  `mapstructure:"starting_wallet" validate:"gte=0"`
}

// ChampionshipConfig configures the championship series
type ChampionshipConfig struct {
	FieldSize       int     `mapstructure:"field_size" validate:"required,gte=2"`
	Rounds          int     `mapstructure:"rounds" validate:"required,gt=0"`
	Points          []int   `mapstructure:"points" validate:"required,min=1,dive,gte=0"`
	StaminaRecovery float64 `mapstructure:"stamina_recovery" validate:"gte=0,lte=1"`
	// OrganiserPrize is credited to the wallet when a series completes
	OrganiserPrize float64 `mapstructure:"organiser_prize" validate:"gte=0"`
}

// SchedulerConfig configures automated race meetings
type SchedulerConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
	RaceType string `mapstructure:"race_type" validate:"omitempty,oneof=Standard Championship"`
}

// MetricsConfig represents metrics and health endpoint configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
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

// SegmentCount returns the number of track segments, rounding up so the final
// segment absorbs any remainder.
func (t TrackConfig) SegmentCount() int {
	if t.SegmentLength <= 0 {
		return 0
	}
	n := int(t.Length / t.SegmentLength)
	if float64(n)*t.SegmentLength < t.Length {
		n++
	}
	if n < 1 {
		n = 1
	}
	return n
}

// RaceTypeMultiplier returns the injury multiplier for a race type, 1.0 when
// unknown. Keys are matched case-insensitively since viper lowercases map keys.
func (i InjuryConfig) RaceTypeMultiplier(raceType string) float64 {
	if m, ok := i.RaceTypeMultipliers[strings.ToLower(raceType)]; ok {
		return m
	}
	return 1.0
}
