// Package config loads the service configuration from an optional YAML file and FARE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Model  ModelConfig  `mapstructure:"model"`
	Server ServerConfig `mapstructure:"server"`
	Log    LogConfig    `mapstructure:"log"`
	Batch  BatchConfig  `mapstructure:"batch"`
	Cache  CacheConfig  `mapstructure:"cache"`
}

type ModelConfig struct {
	Path       string `mapstructure:"path"`
	ScalerPath string `mapstructure:"scaler_path"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

type CacheConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("model.path", "artifacts/model.json")
	v.SetDefault("model.scaler_path", "artifacts/scaler.json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("batch.concurrency", 4)
	v.SetDefault("cache.enabled", false)
	v.SetDefault("cache.addr", "localhost:6379")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", 24*time.Hour)
}

// Load reads the config file at path when it is not empty and applies FARE_ prefixed
// environment overrides, e.g. FARE_MODEL_PATH or FARE_SERVER_PORT
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("fare")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c Config) Validate() error {
	switch {
	case c.Model.Path == "":
		return errors.New("model.path is required")
	case c.Model.ScalerPath == "":
		return errors.New("model.scaler_path is required")
	case c.Server.Port < 0 || c.Server.Port > 65535:
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	case c.Batch.Concurrency <= 0:
		return errors.New("batch.concurrency should be greater than 0")
	case c.Cache.Enabled && c.Cache.Addr == "":
		return errors.New("cache.addr is required when the cache is enabled")
	case c.Cache.Enabled && c.Cache.TTL <= 0:
		return errors.New("cache.ttl should be greater than 0")
	}
	return nil
}
