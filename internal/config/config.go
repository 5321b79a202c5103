package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`

	Database struct {
		Path string `yaml:"path"`
	} `yaml:"database"`

	Redis struct {
		Address        string `yaml:"address"`
		Password       string `yaml:"password"`
		DB             int    `yaml:"db"`
		FeedTTLSeconds int    `yaml:"feed_ttl_seconds"`
	} `yaml:"redis"`

	Backup struct {
		Enabled       bool   `yaml:"enabled"`
		IntervalHours int    `yaml:"interval_hours"`
		Path          string `yaml:"path"`
		RetentionDays int    `yaml:"retention_days"`
	} `yaml:"backup"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Resources struct {
		Nodes       []int `yaml:"nodes"`
		GPUsPerNode int   `yaml:"gpus_per_node"`
	} `yaml:"resources"`

	RateLimit struct {
		RPS   float64 `yaml:"rps"`
		Burst int     `yaml:"burst"`
	} `yaml:"ratelimit"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()

	if err = os.MkdirAll(filepath.Dir(cfg.Database.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Database.Path == "" {
		c.Database.Path = "data/gpubook.db"
	}
	if len(c.Resources.Nodes) == 0 {
		c.Resources.Nodes = []int{60, 61, 63}
	}
	if c.Resources.GPUsPerNode <= 0 {
		c.Resources.GPUsPerNode = 4
	}
	if c.RateLimit.RPS <= 0 {
		c.RateLimit.RPS = 20
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 40
	}
}

// FeedTTL returns the calendar feed cache TTL, defaulting to 30 seconds.
func (c *Config) FeedTTL() time.Duration {
	if c.Redis.FeedTTLSeconds <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.Redis.FeedTTLSeconds) * time.Second
}
