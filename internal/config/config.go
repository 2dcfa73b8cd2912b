package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/kitchen-estimator/internal/cost"
)

// Config holds the full application configuration.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog" mapstructure:"catalog"`
	Wizard  WizardConfig  `yaml:"wizard" mapstructure:"wizard"`
	Pricing cost.Params   `yaml:"pricing" mapstructure:"pricing"`
	Display DisplayConfig `yaml:"display" mapstructure:"display"`
	Log     LogConfig     `yaml:"log" mapstructure:"log"`
}

// CatalogConfig selects the question catalog. An empty path uses the
// embedded kitchen catalog.
type CatalogConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// WizardConfig configures the step navigator.
type WizardConfig struct {
	AutoAdvanceMS int `yaml:"auto_advance_ms" mapstructure:"auto_advance_ms"`
}

// DisplayConfig configures terminal output.
type DisplayConfig struct {
	Color string `yaml:"color" mapstructure:"color"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("KITCHEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	p := cost.DefaultParams()
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("catalog.path", "")
	v.SetDefault("wizard.auto_advance_ms", 300)
	v.SetDefault("display.color", "auto")
	v.SetDefault("pricing.default_area", p.DefaultArea)
	v.SetDefault("pricing.worktop_label", p.WorktopLabel)
	v.SetDefault("pricing.worktop_minimum_run", p.WorktopMinimumRun)
	v.SetDefault("pricing.worktop_divisor", p.WorktopDivisor)
	v.SetDefault("pricing.area_unit", p.AreaUnit)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks value ranges that viper cannot express.
func (c *Config) Validate() error {
	var errs []string

	if c.Wizard.AutoAdvanceMS < 0 || c.Wizard.AutoAdvanceMS > 10000 {
		errs = append(errs, "wizard.auto_advance_ms must be between 0 and 10000")
	}
	switch c.Display.Color {
	case "auto", "always", "never":
	default:
		errs = append(errs, "display.color must be one of auto, always, never")
	}
	if c.Pricing.DefaultArea <= 0 {
		errs = append(errs, "pricing.default_area must be > 0")
	}
	if c.Pricing.WorktopMinimumRun <= 0 {
		errs = append(errs, "pricing.worktop_minimum_run must be > 0")
	}
	if c.Pricing.WorktopDivisor <= 0 {
		errs = append(errs, "pricing.worktop_divisor must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("config: %s", strings.Join(errs, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
