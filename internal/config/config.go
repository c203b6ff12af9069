package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

const DefaultPath = "config.yaml"

type Config struct {
	Log        LogConfig        `yaml:"log"`
	Sensor     SensorConfig     `yaml:"sensor"`
	Production ProductionConfig `yaml:"production"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"`
}

type SensorConfig struct {
	// Seed makes the visual sensor deterministic when set.
	Seed          *uint64 `yaml:"seed"`
	DetectionRate float64 `yaml:"detection_rate"`
}

type ProductionConfig struct {
	MoldType      string `yaml:"mold_type"`
	PackagingType string `yaml:"packaging_type"`
}

type RabbitMQConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Exchange string `yaml:"exchange"`
}

func Default() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "warn",
			Output: "stderr",
		},
		Sensor: SensorConfig{
			DetectionRate: 0.15,
		},
		Production: ProductionConfig{
			MoldType:      "heart",
			PackagingType: "gift_box",
		},
		RabbitMQ: RabbitMQConfig{
			Host:     "localhost",
			Port:     5672,
			User:     "guest",
			Password: "guest",
			Exchange: "quality_inspections",
		},
	}
}

// Load reads the YAML file at path on top of the defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse yaml: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOptional behaves like Load but falls back to the defaults when the file does not exist.
func LoadOptional(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

func (c *Config) Validate() error {
	if c.Sensor.DetectionRate < 0 || c.Sensor.DetectionRate > 1 {
		return fmt.Errorf("sensor.detection_rate must be between 0 and 1, got %v", c.Sensor.DetectionRate)
	}
	switch strings.ToLower(c.Log.Output) {
	case "", "stderr", "stdout":
	default:
		return fmt.Errorf("log.output must be stderr or stdout, got %q", c.Log.Output)
	}
	if c.RabbitMQ.Enabled {
		if c.RabbitMQ.Host == "" || c.RabbitMQ.Port <= 0 {
			return errors.New("rabbitmq.host and rabbitmq.port are required when rabbitmq is enabled")
		}
		if c.RabbitMQ.Exchange == "" {
			return errors.New("rabbitmq.exchange is required when rabbitmq is enabled")
		}
	}
	return nil
}

// URL builds the AMQP connection string
func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Password, c.Host, c.Port)
}
