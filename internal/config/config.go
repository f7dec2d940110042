package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"go.uber.org/multierr"
)

const (
	BackendMemory  = "memory"
	BackendXlsx    = "xlsx"
	BackendGSheets = "gsheets"

	MemoMemory   = "memory"
	MemoRedis    = "redis"
	MemoPostgres = "postgres"
)

type Config struct {
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	Environment string `toml:"environment"`
	// logging
	LogLevel      string `toml:"log_level"`
	LogsPath      string `toml:"logs_path"`
	LogToStdout   bool   `toml:"log_to_stdout"`
	SentryEnabled bool   `toml:"sentry_enabled"`
	// http
	AllowedOrigins             []string `toml:"allowed_origins"`
	EditRateLimitAllowedPerMin int      `toml:"edit_rate_limit_allowed_per_min"`
	// metrics
	PrometheusMetricsHost string `toml:"prometheus_metrics_host"`
	PrometheusMetricsPort string `toml:"prometheus_metrics_port"`
	// redis: memo store and rate limiting
	RedisHost string `toml:"redis_host"`
	RedisPort string `toml:"redis_port"`
	// postgres: memo store
	PostgresHost   string `toml:"postgres_host"`
	PostgresPort   string `toml:"postgres_port"`
	PostgresDBName string `toml:"postgres_db_name"`

	Backend        BackendConfig         `toml:"backend"`
	Memo           MemoConfig            `toml:"memo"`
	Dashboards     []DashboardConfig     `toml:"dashboards"`
	Periodizations []PeriodizationConfig `toml:"periodizations"`
}

// BackendConfig selects where the training log lives.
type BackendConfig struct {
	Kind string `toml:"kind"`
	// xlsx
	XlsxPath string `toml:"xlsx_path"`
	// gsheets; credentials come from GYMSHEETS_GOOGLE_CREDENTIALS
	SpreadsheetID string `toml:"spreadsheet_id"`
	// memory
	Sheets []string `toml:"sheets"`
}

// MemoConfig selects the key-value store behind edit memos.
type MemoConfig struct {
	Kind            string `toml:"kind"`
	KeyPrefix       string `toml:"key_prefix"`
	MemorySizeBytes int    `toml:"memory_size_bytes"`
}

type DashboardConfig struct {
	Name        string   `toml:"name"`
	Variant     string   `toml:"variant"`
	Inputs      []string `toml:"inputs"`
	Output      string   `toml:"output"`
	Microcycles int      `toml:"microcycles"`
	NaNPolicy   string   `toml:"nan_policy"`
	// timed_strength
	Previous1RM          float64 `toml:"previous_1rm"`
	Previous1RMRef       string  `toml:"previous_1rm_ref"`
	MinSetsPerMicrocycle []int   `toml:"min_sets_per_microcycle"`
	StartSequenceNumber  int     `toml:"start_sequence_number"`
	// grip_strength
	StartMicrocycle int `toml:"start_microcycle"`
}

type PeriodizationConfig struct {
	Name        string `toml:"name"`
	Watched     string `toml:"watched"`
	E1RM        string `toml:"e1rm"`
	Bodyweight  string `toml:"bodyweight"`
	RequiredRPE string `toml:"required_rpe"`
	Intensities string `toml:"intensities"`
	Reps        string `toml:"reps"`
	Output      string `toml:"output"`
}

type Toml struct {
	Development *Config
	Production  *Config
}

func (t *Toml) Get(env string) (*Config, error) {
	switch strings.ToLower(env) {
	case "dev", "development":
		return t.Development, nil
	case "prod", "production":
		return t.Production, nil
	default:
		return nil, fmt.Errorf("unknown env: %s", env)
	}
}

// Load reads the TOML file at path and returns the config for env.
func Load(env, path string) (*Config, error) {
	var t Toml
	if _, err := toml.DecodeFile(path, &t); err != nil {
		return nil, fmt.Errorf("decode config file %s: %w", path, err)
	}

	cfg, err := t.Get(env)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		return nil, fmt.Errorf("no config for env [%s] in %s", env, path)
	}
	if cfg.Environment == "" {
		cfg.Environment = strings.ToLower(env)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var err error
	switch c.Backend.Kind {
	case BackendMemory:
	case BackendXlsx:
		if c.Backend.XlsxPath == "" {
			err = multierr.Append(err, errors.New("backend.xlsx_path is required for the xlsx backend"))
		}
	case BackendGSheets:
		if c.Backend.SpreadsheetID == "" {
			err = multierr.Append(err, errors.New("backend.spreadsheet_id is required for the gsheets backend"))
		}
	default:
		err = multierr.Append(err, fmt.Errorf("unknown backend kind: [%s]", c.Backend.Kind))
	}

	switch c.Memo.Kind {
	case MemoMemory, MemoRedis, MemoPostgres:
	default:
		err = multierr.Append(err, fmt.Errorf("unknown memo kind: [%s]", c.Memo.Kind))
	}

	names := make(map[string]bool)
	for _, d := range c.Dashboards {
		if d.Name == "" || len(d.Inputs) == 0 || d.Output == "" {
			err = multierr.Append(err, fmt.Errorf("dashboard [%s]: name, inputs and output are required", d.Name))
		}
		if names[d.Name] {
			err = multierr.Append(err, fmt.Errorf("dashboard [%s] declared twice", d.Name))
		}
		names[d.Name] = true
	}

	names = make(map[string]bool)
	for _, p := range c.Periodizations {
		if p.Name == "" || p.Watched == "" || p.Output == "" {
			err = multierr.Append(err, fmt.Errorf("periodization [%s]: name, watched and output are required", p.Name))
		}
		if names[p.Name] {
			err = multierr.Append(err, fmt.Errorf("periodization [%s] declared twice", p.Name))
		}
		names[p.Name] = true
	}

	return err
}
