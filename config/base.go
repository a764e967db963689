package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Version    bool   `yaml:"-"`
	Verbose    bool   `yaml:"verbose"`
	ConfigFile string `yaml:"-"`

	Environment string `yaml:"environment"`

	Data    string `yaml:"data"`
	CSVPath string `yaml:"csv"`
	Column  string `yaml:"column"`
	Plot    string `yaml:"plot"`
	PNGPath string `yaml:"png"`

	Serve  bool   `yaml:"serve"`
	Listen string `yaml:"listen"`

	Worker    bool   `yaml:"worker"`
	TestRunID int64  `yaml:"-"`
	RedisURL  string `yaml:"redis_url"`
	Queue     string `yaml:"queue"`
}

func NewWithDefaults() Config {
	return Config{
		Environment: "development",
		Plot:        "histogram",
		Listen:      ":8080",
		RedisURL:    "redis://localhost:6379/0",
		Queue:       "default",
	}
}

// LogLevel is the zap level name matching Verbose.
func (c Config) LogLevel() string {
	if c.Verbose {
		return "debug"
	}
	return "info"
}

// LoadDotEnv loads the files that exist, in order. Variables already present
// in the environment win.
func LoadDotEnv(files ...string) error {
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadFile overlays the yaml file at path onto c.
func (c *Config) LoadFile(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.UnmarshalStrict(raw, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays the environment variables the worker shares with the
// rest of the deployment.
func (c *Config) ApplyEnv() {
	if v := os.Getenv("APP_ENV"); v != "" {
		c.Environment = v
	}
	if v := os.Getenv("REDIS_URL"); v != "" {
		c.RedisURL = v
	}
	if v := os.Getenv("WORKER_QUEUE"); v != "" {
		c.Queue = v
	}
}

// Parse builds the configuration for one run: defaults, then the yaml file
// named by --config, then the environment, then the remaining flags.
func Parse(name string, args []string) (Config, error) {
	pre := flag.NewFlagSet(name, flag.ContinueOnError)
	pre.ParseErrorsWhitelist.UnknownFlags = true
	pre.Usage = func() {}
	configFile := pre.String("config", "", "")
	_ = pre.Parse(args)

	cfg := NewWithDefaults()
	if *configFile != "" {
		if err := cfg.LoadFile(*configFile); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv()

	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.ConfigFile, "config", *configFile, "YAML configuration file")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Debug mode")
	fs.BoolVar(&cfg.Version, "version", false, "Prints version number")
	fs.StringVar(&cfg.Environment, "environment", cfg.Environment, "Environment name")

	fs.StringVar(&cfg.Data, "data", cfg.Data, "Numbers separated by commas or spaces")
	fs.StringVar(&cfg.CSVPath, "csv", cfg.CSVPath, "CSV file to analyze")
	fs.StringVar(&cfg.Column, "column", cfg.Column, "Numeric CSV column (default: first numeric column)")
	fs.StringVar(&cfg.Plot, "plot", cfg.Plot, "Plot kind: histogram, boxplot or both")
	fs.StringVar(&cfg.PNGPath, "png", cfg.PNGPath, "Write the chart as PNG to this file")

	fs.BoolVar(&cfg.Serve, "serve", cfg.Serve, "Run the HTTP service")
	fs.StringVar(&cfg.Listen, "listen", cfg.Listen, "HTTP listen address")

	fs.BoolVar(&cfg.Worker, "worker", cfg.Worker, "Run as background worker listening to the Redis queue")
	fs.Int64Var(&cfg.TestRunID, "test-run-id", 0, "ID of test_runs row to attach results to")
	fs.StringVar(&cfg.RedisURL, "redis-url", cfg.RedisURL, "Redis URL of the job queue")
	fs.StringVar(&cfg.Queue, "queue", cfg.Queue, "Queue name (without the queue: prefix)")

	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.TestRunID == 0 && fs.NArg() > 0 {
		if _, err := fmt.Sscan(fs.Arg(0), &cfg.TestRunID); err != nil {
			return cfg, fmt.Errorf("invalid test run id %q", fs.Arg(0))
		}
	}
	return cfg, nil
}
