package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/saadjs/fitquest/internal/model"
	"github.com/saadjs/fitquest/internal/tracker"
)

const EnvPrefix = "FITQUEST"

type Config struct {
	User        string            `mapstructure:"user"`
	Nutrition   NutritionConfig   `mapstructure:"nutrition"`
	Points      PointsConfig      `mapstructure:"points"`
	Badges      BadgesConfig      `mapstructure:"badges"`
	Leaderboard LeaderboardConfig `mapstructure:"leaderboard"`
	Feed        FeedConfig        `mapstructure:"feed"`
	Simulate    SimulateConfig    `mapstructure:"simulate"`
	Server      ServerConfig      `mapstructure:"server"`
	Log         LogConfig         `mapstructure:"log"`
	Lookup      LookupConfig      `mapstructure:"lookup"`

	v *viper.Viper
}

type NutritionConfig struct {
	CalorieGoal int `mapstructure:"calorie_goal"`
	ProteinGoal int `mapstructure:"protein_goal"`
	CarbsGoal   int `mapstructure:"carbs_goal"`
	FatGoal     int `mapstructure:"fat_goal"`
	WaterGoalMl int `mapstructure:"water_goal_ml"`
}

type PointsConfig struct {
	Join     int `mapstructure:"join"`
	Create   int `mapstructure:"create"`
	Complete int `mapstructure:"complete"`
}

type BadgesConfig struct {
	ChallengeMaster int `mapstructure:"challenge_master"`
	SevenDayFire    int `mapstructure:"seven_day_fire"`
	PointLegend     int `mapstructure:"point_legend"`
	TenMeals        int `mapstructure:"ten_meals"`
	LoggingStreak   int `mapstructure:"logging_streak"`
}

type LeaderboardConfig struct {
	PageSize int `mapstructure:"page_size"`
}

type FeedConfig struct {
	Size int `mapstructure:"size"`
}

type SimulateConfig struct {
	LeaderboardInterval time.Duration `mapstructure:"leaderboard_interval"`
	FeedInterval        time.Duration `mapstructure:"feed_interval"`
	HeatmapInterval     time.Duration `mapstructure:"heatmap_interval"`
}

type ServerConfig struct {
	Addr      string  `mapstructure:"addr"`
	RateLimit float64 `mapstructure:"rate_limit"`
	Burst     int     `mapstructure:"burst"`
	Mode      string  `mapstructure:"mode"`
}

// LookupConfig points meal lookups at an Open Food Facts compatible API.
type LookupConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

func setDefaults(v *viper.Viper) {
	goals := tracker.DefaultNutritionGoals()
	points := tracker.DefaultPointValues()
	th := tracker.DefaultThresholds()

	v.SetDefault("user", "You")
	v.SetDefault("nutrition.calorie_goal", goals.Calories)
	v.SetDefault("nutrition.protein_goal", goals.Macros.Protein)
	v.SetDefault("nutrition.carbs_goal", goals.Macros.Carbs)
	v.SetDefault("nutrition.fat_goal", goals.Macros.Fat)
	v.SetDefault("nutrition.water_goal_ml", goals.WaterMl)
	v.SetDefault("points.join", points.Join)
	v.SetDefault("points.create", points.Create)
	v.SetDefault("points.complete", points.Complete)
	v.SetDefault("badges.challenge_master", th.ChallengeMaster)
	v.SetDefault("badges.seven_day_fire", th.SevenDayFire)
	v.SetDefault("badges.point_legend", th.PointLegend)
	v.SetDefault("badges.ten_meals", th.TenMeals)
	v.SetDefault("badges.logging_streak", th.LoggingStreak)
	v.SetDefault("leaderboard.page_size", 5)
	v.SetDefault("feed.size", 5)
	v.SetDefault("simulate.leaderboard_interval", "8s")
	v.SetDefault("simulate.feed_interval", "10s")
	v.SetDefault("simulate.heatmap_interval", "8s")
	v.SetDefault("server.addr", "127.0.0.1:8080")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.burst", 40)
	v.SetDefault("server.mode", "release")
	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("lookup.base_url", "https://world.openfoodfacts.org")
	v.SetDefault("lookup.timeout", "12s")
}

// Load reads configuration from defaults, the optional YAML file at path,
// a .env file in the working directory and FITQUEST_* environment variables,
// in increasing order of precedence. A missing file is not an error.
func Load(path string) (*Config, error) {
	// .env is optional.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	cfg := &Config{v: v}
	if err := cfg.decode(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decode() error {
	if err := c.v.Unmarshal(c); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	return c.validate()
}

// Apply layers stored overrides (from `fitquest config set`) on top of the
// loaded values. Environment variables still win.
func (c *Config) Apply(overrides map[string]string) error {
	for key, value := range overrides {
		if os.Getenv(envName(key)) != "" {
			continue
		}
		c.v.Set(key, value)
	}
	return c.decode()
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.User) == "" {
		return fmt.Errorf("user must not be empty")
	}
	ints := map[string]int{
		"nutrition.calorie_goal":  c.Nutrition.CalorieGoal,
		"nutrition.protein_goal":  c.Nutrition.ProteinGoal,
		"nutrition.carbs_goal":    c.Nutrition.CarbsGoal,
		"nutrition.fat_goal":      c.Nutrition.FatGoal,
		"nutrition.water_goal_ml": c.Nutrition.WaterGoalMl,
		"points.join":             c.Points.Join,
		"points.create":           c.Points.Create,
		"points.complete":         c.Points.Complete,
	}
	for name, value := range ints {
		if value < 0 {
			return fmt.Errorf("%s must be >= 0", name)
		}
	}
	if c.Leaderboard.PageSize <= 0 {
		return fmt.Errorf("leaderboard.page_size must be > 0")
	}
	if c.Feed.Size <= 0 {
		return fmt.Errorf("feed.size must be > 0")
	}
	for name, d := range map[string]time.Duration{
		"simulate.leaderboard_interval": c.Simulate.LeaderboardInterval,
		"simulate.feed_interval":        c.Simulate.FeedInterval,
		"simulate.heatmap_interval":     c.Simulate.HeatmapInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}
	return nil
}

// Get returns the effective value of key as text.
func (c *Config) Get(key string) (string, bool) {
	if !c.v.IsSet(key) {
		return "", false
	}
	return c.v.GetString(key), true
}

func (c *Config) Goals() tracker.NutritionGoals {
	return tracker.NutritionGoals{
		Calories: c.Nutrition.CalorieGoal,
		Macros: model.Macros{
			Protein: c.Nutrition.ProteinGoal,
			Carbs:   c.Nutrition.CarbsGoal,
			Fat:     c.Nutrition.FatGoal,
		},
		WaterMl: c.Nutrition.WaterGoalMl,
	}
}

func (c *Config) PointValues() tracker.PointValues {
	return tracker.PointValues{Join: c.Points.Join, Create: c.Points.Create, Complete: c.Points.Complete}
}

func (c *Config) Thresholds() tracker.Thresholds {
	return tracker.Thresholds{
		ChallengeMaster: c.Badges.ChallengeMaster,
		SevenDayFire:    c.Badges.SevenDayFire,
		PointLegend:     c.Badges.PointLegend,
		TenMeals:        c.Badges.TenMeals,
		LoggingStreak:   c.Badges.LoggingStreak,
	}
}

// TrackerOptions builds store options from the configuration. Callers add
// the logger, notifier and clock.
func (c *Config) TrackerOptions() tracker.Options {
	points, goals := c.PointValues(), c.Goals()
	return tracker.Options{
		User:     c.User,
		Points:   &points,
		Goals:    &goals,
		Rules:    tracker.DefaultRules(c.Thresholds()),
		FeedSize: c.Feed.Size,
	}
}
