package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"fleet-reliability/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Logging   logging.Config  `mapstructure:"logging"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	History   HistoryConfig   `mapstructure:"history"`
	Planner   PlannerConfig   `mapstructure:"planner"`
	Costs     CostConfig      `mapstructure:"costs"`
	Grid      GridConfig      `mapstructure:"grid"`
	Alerting  AlertingConfig  `mapstructure:"alerting"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// DatabaseConfig encapsulates PostgreSQL connectivity.
type DatabaseConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsPath  string        `mapstructure:"migrations_path"`
}

// SchedulerConfig governs the watch-loop cadence.
type SchedulerConfig struct {
	Interval        time.Duration `mapstructure:"interval"`
	AlignToInterval bool          `mapstructure:"align_to_interval"`
	AdvisoryLockKey int64         `mapstructure:"advisory_lock_key"`
	StartupDelay    time.Duration `mapstructure:"startup_delay"`
}

// HistoryConfig locates the historical maintenance table the watcher
// re-reads on every tick.
type HistoryConfig struct {
	Path string `mapstructure:"path"`
}

// PlannerConfig tunes interval selection and curve fitting.
type PlannerConfig struct {
	TargetDF         float64 `mapstructure:"target_df"`
	ToleranceBand    float64 `mapstructure:"tolerance_band"`
	CurveSamples     int     `mapstructure:"curve_samples"`
	FitMaxIterations int     `mapstructure:"fit_max_iterations"`
}

// CostConfig carries the default maintenance cost model.
type CostConfig struct {
	PM                   float64 `mapstructure:"pm"`
	CorrectivePerFailure float64 `mapstructure:"corrective_per_failure"`
}

// GridConfig sets the default feasibility-matrix resolution.
type GridConfig struct {
	Resolution int `mapstructure:"resolution"`
}

// AlertingConfig defines breach thresholds and routing.
type AlertingConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	MarginDF float64        `mapstructure:"margin_df"`
	Cooldown time.Duration  `mapstructure:"cooldown"`
	Channels []string       `mapstructure:"channels"`
	Telegram TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig describes the Telegram alert channel.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("DFPLANNER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "dfplanner")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("scheduler.interval", "1h")
	v.SetDefault("scheduler.align_to_interval", true)
	v.SetDefault("scheduler.advisory_lock_key", int64(0x6466706C))
	v.SetDefault("scheduler.startup_delay", "0s")

	v.SetDefault("planner.target_df", 0.92)
	v.SetDefault("planner.tolerance_band", 0.95)
	v.SetDefault("planner.curve_samples", 100)
	v.SetDefault("planner.fit_max_iterations", 200)

	v.SetDefault("costs.pm", 1000.0)
	v.SetDefault("costs.corrective_per_failure", 5000.0)

	v.SetDefault("grid.resolution", 50)

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.margin_df", 0.0)
	v.SetDefault("alerting.cooldown", "24h")
	v.SetDefault("alerting.channels", []string{"telegram"})
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")
	v.SetDefault("database.migrations_path", "migrations")
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Scheduler.Interval <= 0 {
		return fmt.Errorf("scheduler.interval must be greater than zero")
	}
	if c.Planner.TargetDF <= 0 || c.Planner.TargetDF >= 1 {
		return fmt.Errorf("planner.target_df must be strictly between 0 and 1")
	}
	if c.Planner.ToleranceBand <= 0 || c.Planner.ToleranceBand > 1 {
		return fmt.Errorf("planner.tolerance_band must be in (0,1]")
	}
	if c.Planner.CurveSamples < 2 {
		return fmt.Errorf("planner.curve_samples must be at least 2")
	}
	if c.Planner.FitMaxIterations <= 0 {
		return fmt.Errorf("planner.fit_max_iterations must be greater than zero")
	}
	if c.Costs.PM < 0 || c.Costs.CorrectivePerFailure < 0 {
		return fmt.Errorf("costs must be non-negative")
	}
	if c.Grid.Resolution < 2 {
		return fmt.Errorf("grid.resolution must be at least 2")
	}
	if c.Alerting.MarginDF < 0 {
		return fmt.Errorf("alerting.margin_df cannot be negative")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token must be configured")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id must be configured")
		}
	}
	return nil
}
