// Package config loads bsgrid settings from an optional file, a .env file
// and BSGRID_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. BSGRID_SOLVER_PRECISION.
const EnvPrefix = "BSGRID"

type Solver struct {
	Precision     float64 `mapstructure:"precision"`
	MaxIterations int     `mapstructure:"max_iterations"`
	// Rational solves through the bracketed forward-price routine instead of
	// plain Newton on the spot price.
	Rational bool `mapstructure:"rational"`
}

type Grid struct {
	Workers int    `mapstructure:"workers"`
	Model   string `mapstructure:"model"` // spot, dividend or forward
}

// Synthetic describes the generated option chain used when no quote file is
// available and by grid mode.
type Synthetic struct {
	Underlying string    `mapstructure:"underlying"`
	Spot       float64   `mapstructure:"spot"`
	Rate       float64   `mapstructure:"rate"`
	Dividend   float64   `mapstructure:"dividend"`
	Vol        float64   `mapstructure:"vol"`
	Skew       float64   `mapstructure:"skew"`
	StrikeLo   float64   `mapstructure:"strike_lo"`
	StrikeHi   float64   `mapstructure:"strike_hi"`
	StrikeStep float64   `mapstructure:"strike_step"`
	Maturities []float64 `mapstructure:"maturities"`
	Seed       int64     `mapstructure:"seed"`
	Noise      float64   `mapstructure:"noise"`
}

// Massive selects a live chain snapshot. It is used when Underlying is set.
type Massive struct {
	Underlying string `mapstructure:"underlying"`
	APIKey     string `mapstructure:"api_key"` // falls back to POLYGON_API_KEY
	BaseURL    string `mapstructure:"base_url"`
}

type Input struct {
	QuotesFile string    `mapstructure:"quotes_file"`
	Massive    Massive   `mapstructure:"massive"`
	Synthetic  Synthetic `mapstructure:"synthetic"`
}

type Report struct {
	Dir      string `mapstructure:"dir"`
	Decimals int32  `mapstructure:"decimals"`
	Compress bool   `mapstructure:"compress"`
}

type Log struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"` // text or json
	File       string `mapstructure:"file"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type Metrics struct {
	Textfile string `mapstructure:"textfile"`
}

// Config is the full application configuration.
type Config struct {
	Solver  Solver  `mapstructure:"solver"`
	Grid    Grid    `mapstructure:"grid"`
	Input   Input   `mapstructure:"input"`
	Report  Report  `mapstructure:"report"`
	Log     Log     `mapstructure:"log"`
	Metrics Metrics `mapstructure:"metrics"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("solver.precision", 1e-6)
	v.SetDefault("solver.max_iterations", 10000)
	v.SetDefault("solver.rational", false)

	v.SetDefault("grid.workers", 0)
	v.SetDefault("grid.model", "spot")

	v.SetDefault("input.quotes_file", "")
	v.SetDefault("input.massive.underlying", "")
	v.SetDefault("input.massive.api_key", "")
	v.SetDefault("input.massive.base_url", "")
	v.SetDefault("input.synthetic.underlying", "SYN")
	v.SetDefault("input.synthetic.spot", 100.0)
	v.SetDefault("input.synthetic.rate", 0.05)
	v.SetDefault("input.synthetic.dividend", 0.0)
	v.SetDefault("input.synthetic.vol", 0.2)
	v.SetDefault("input.synthetic.skew", -0.1)
	v.SetDefault("input.synthetic.strike_lo", 0.8)
	v.SetDefault("input.synthetic.strike_hi", 1.2)
	v.SetDefault("input.synthetic.strike_step", 5.0)
	v.SetDefault("input.synthetic.maturities", []float64{0.25, 0.5, 1})
	v.SetDefault("input.synthetic.seed", 1)
	v.SetDefault("input.synthetic.noise", 0.0)

	v.SetDefault("report.dir", "out")
	v.SetDefault("report.decimals", 6)
	v.SetDefault("report.compress", false)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)

	v.SetDefault("metrics.textfile", "")
}

// Load reads path (optional, any format viper understands) after loading
// .env from the working directory when present.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if cfg.Input.Massive.APIKey == "" {
		cfg.Input.Massive.APIKey = os.Getenv("POLYGON_API_KEY")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the solver and grid cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Solver.Precision > 0) {
		errs = append(errs, fmt.Errorf("solver.precision must be positive, got %g", c.Solver.Precision))
	}
	if c.Solver.MaxIterations <= 0 {
		errs = append(errs, fmt.Errorf("solver.max_iterations must be positive, got %d", c.Solver.MaxIterations))
	}
	if c.Grid.Workers < 0 {
		errs = append(errs, fmt.Errorf("grid.workers must not be negative, got %d", c.Grid.Workers))
	}
	switch c.Grid.Model {
	case "spot", "dividend", "forward":
	default:
		errs = append(errs, fmt.Errorf("grid.model must be spot, dividend or forward, got %q", c.Grid.Model))
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}
	if c.Report.Decimals < 0 {
		errs = append(errs, fmt.Errorf("report.decimals must not be negative, got %d", c.Report.Decimals))
	}
	return errors.Join(errs...)
}
