package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EstimatorPlaceholder = "placeholder"
	EstimatorGeodesic    = "geodesic"
)

// Config holds the service settings. Values come from, in increasing
// precedence: built-in defaults, the YAML file named by CONFIG_FILE, and
// environment variables (a .env file is loaded into the environment first).
type Config struct {
	Port        string `yaml:"port"`
	DBPath      string `yaml:"db_path"`
	DatabaseURL string `yaml:"database_url"`
	StateKey    string `yaml:"state_key"`
	JWTSecret   string `yaml:"jwt_secret"`
	LogLevel    string `yaml:"log_level"`
	LogDev      bool   `yaml:"log_dev"`

	Solver    SolverConfig    `yaml:"solver"`
	Estimator EstimatorConfig `yaml:"estimator"`
}

type SolverConfig struct {
	URL         string        `yaml:"url"`
	FallbackURL string        `yaml:"fallback_url"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
}

type EstimatorConfig struct {
	Kind string `yaml:"kind"`
	// Seed for the placeholder estimator; 0 seeds from the clock.
	Seed uint64 `yaml:"seed"`
	// Geodesic estimator tuning.
	SpeedKmh           float64 `yaml:"speed_kmh"`
	ServiceMinutesStop int     `yaml:"service_minutes_per_stop"`
}

func Default() *Config {
	return &Config{
		Port:     "8080",
		DBPath:   "data/app.db",
		StateKey: "beat-planning-store",
		LogLevel: "info",
		Solver: SolverConfig{
			URL:     "http://localhost:8000/solve_beat_planning",
			BaseURL: "http://localhost:8000",
		},
		Estimator: EstimatorConfig{
			Kind:               EstimatorPlaceholder,
			SpeedKmh:           30,
			ServiceMinutesStop: 10,
		},
	}
}

// Load builds the configuration and validates it.
func Load() (*Config, error) {
	cfg, err := Read()
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Read builds the configuration without validating it, for tools that only
// need part of it.
func Read() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	cfg := Default()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("load config: read %q: %w", path, err)
	}
	if err := yaml.Unmarshal(b, c); err != nil {
		return fmt.Errorf("load config: parse %q: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() error {
	setString(&c.Port, "PORT")
	setString(&c.DBPath, "DB_PATH")
	setString(&c.DatabaseURL, "DATABASE_URL")
	setString(&c.StateKey, "STATE_KEY")
	setString(&c.JWTSecret, "JWT_SECRET")
	setString(&c.LogLevel, "LOG_LEVEL")
	setString(&c.Solver.URL, "SOLVER_URL")
	setString(&c.Solver.FallbackURL, "SOLVER_FALLBACK_URL")
	setString(&c.Solver.BaseURL, "SERVICE_BASE_URL")
	setString(&c.Estimator.Kind, "METRICS_ESTIMATOR")

	if v := Get("LOG_DEV", ""); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("load config: LOG_DEV: %w", err)
		}
		c.LogDev = b
	}

	if v := Get("SOLVER_TIMEOUT", ""); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("load config: SOLVER_TIMEOUT: %w", err)
		}
		c.Solver.Timeout = d
	}

	if v := Get("ESTIMATOR_SEED", ""); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("load config: ESTIMATOR_SEED: %w", err)
		}
		c.Estimator.Seed = n
	}

	return nil
}

func (c *Config) Validate() error {
	var errs []error

	if strings.TrimSpace(c.JWTSecret) == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if strings.TrimSpace(c.Solver.URL) == "" {
		errs = append(errs, errors.New("SOLVER_URL is required"))
	}
	if strings.TrimSpace(c.StateKey) == "" {
		errs = append(errs, errors.New("STATE_KEY must not be empty"))
	}
	switch c.Estimator.Kind {
	case EstimatorPlaceholder, EstimatorGeodesic:
	default:
		errs = append(errs, fmt.Errorf("METRICS_ESTIMATOR must be %q or %q, got %q",
			EstimatorPlaceholder, EstimatorGeodesic, c.Estimator.Kind))
	}
	if c.Solver.Timeout < 0 {
		errs = append(errs, errors.New("SOLVER_TIMEOUT must not be negative"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func setString(dst *string, key string) {
	if v := Get(key, ""); v != "" {
		*dst = v
	}
}
