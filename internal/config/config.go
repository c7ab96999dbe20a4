// Package config handles application configuration loading and
// validation. Configuration is read from config.yml when present and
// every setting can be overridden by environment variables.
package config

import (
    "os"
    "strconv"
    "time"

    "github.com/go-playground/validator/v10"
    "gopkg.in/yaml.v3"
)

type AppConfig struct {
    Server struct {
        Port int `yaml:"port" validate:"gte=0"`
    } `yaml:"server"`
    Feed struct {
        URL string `yaml:"url" validate:"omitempty,url"`
    } `yaml:"feed"`
    Redis struct {
        URL string `yaml:"url"`
    } `yaml:"redis"`
    Database struct {
        URL string `yaml:"url"`
    } `yaml:"database"`
    Camera struct {
        TimeoutMs int `yaml:"timeout_ms" validate:"gte=0"`
    } `yaml:"camera"`
    Liveness struct {
        TimeoutMs int `yaml:"timeout_ms" validate:"gte=0"`
        CheckMs   int `yaml:"check_ms" validate:"gte=0"`
    } `yaml:"liveness"`
}

// Load reads config.yml (first path found), validates it, applies env
// overrides and defaults. A missing file is fine; env and defaults
// cover everything.
func Load(paths ...string) (AppConfig, error) {
    if len(paths) == 0 {
        paths = []string{"config.yml"}
    }
    var cfg AppConfig
    for _, p := range paths {
        data, err := os.ReadFile(p)
        if err != nil {
            continue
        }
        if err := yaml.Unmarshal(data, &cfg); err != nil {
            return cfg, err
        }
        break
    }
    if err := validator.New().Struct(cfg); err != nil {
        return cfg, err
    }
    if v := os.Getenv("PORT"); v != "" {
        if n, err := strconv.Atoi(v); err == nil && n > 0 { cfg.Server.Port = n }
    }
    if v := os.Getenv("FEED_URL"); v != "" {
        cfg.Feed.URL = v
    }
    if v := os.Getenv("REDIS_URL"); v != "" {
        cfg.Redis.URL = v
    }
    if v := os.Getenv("DATABASE_URL"); v != "" {
        cfg.Database.URL = v
    }
    if cfg.Server.Port == 0 {
        cfg.Server.Port = 8080
    }
    if cfg.Camera.TimeoutMs == 0 {
        cfg.Camera.TimeoutMs = 5000
    }
    if cfg.Liveness.TimeoutMs == 0 {
        cfg.Liveness.TimeoutMs = 30000
    }
    if cfg.Liveness.CheckMs == 0 {
        cfg.Liveness.CheckMs = 5000
    }
    return cfg, nil
}

func (c AppConfig) CameraTimeout() time.Duration {
    return time.Duration(c.Camera.TimeoutMs) * time.Millisecond
}

func (c AppConfig) LivenessTimeout() time.Duration {
    return time.Duration(c.Liveness.TimeoutMs) * time.Millisecond
}

func (c AppConfig) CheckInterval() time.Duration {
    return time.Duration(c.Liveness.CheckMs) * time.Millisecond
}
