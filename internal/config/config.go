package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"TodoTally/internal/todo"
	"TodoTally/pkg/logger"
)

// EnvSourceURL 是覆盖数据源地址的环境变量名。
const EnvSourceURL = "URI"

// Config 描述 TodoTally 在启动阶段需要加载的核心配置。
type Config struct {
	Server ServerConfig `yaml:"server"`
	Source SourceConfig `yaml:"source"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig 控制本地 API 服务的监听地址等参数。
type ServerConfig struct {
	Address string `yaml:"address"`
}

// SourceConfig 描述上游待办数据源。
type SourceConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Timeout 返回数据源请求超时。
func (c SourceConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// LogConfig 控制结构化日志与调用记录日志的输出。
type LogConfig struct {
	Level      string              `yaml:"level"`
	Format     string              `yaml:"format"`
	Outputs    []string            `yaml:"outputs"`
	Invocation InvocationLogConfig `yaml:"invocation"`
}

// InvocationLogConfig 控制按调用追加的记录日志。
type InvocationLogConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Path       string `yaml:"path"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// LoggerConfig 将日志配置转换为 pkg/logger 需要的形式。
func (c LogConfig) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       c.Level,
		Format:      c.Format,
		OutputPaths: c.Outputs,
		Invocation: logger.InvocationLogConfig{
			Enabled:    c.Invocation.Enabled,
			Path:       c.Invocation.Path,
			MaxSizeMB:  c.Invocation.MaxSizeMB,
			MaxBackups: c.Invocation.MaxBackups,
			MaxAgeDays: c.Invocation.MaxAgeDays,
		},
	}
}

// Load 负责解析指定路径的 YAML 配置文件，随后套用默认值与环境变量覆盖。
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("配置文件路径为空")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	cfg.applyDefaults()
	cfg.applyEnv()

	return &cfg, nil
}

// FromEnv 构造仅由环境变量驱动的配置，供无配置文件的宿主运行时使用。
func FromEnv() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	cfg.applyEnv()
	return cfg
}

// applyDefaults 在用户未填写部分字段时设置合理的默认值。
func (c *Config) applyDefaults() {
	if c.Server.Address == "" {
		c.Server.Address = ":8080"
	}

	if c.Source.URL == "" {
		c.Source.URL = todo.DefaultSourceURL
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
}

// applyEnv 套用环境变量覆盖。URI 优先于配置文件与默认端点。
func (c *Config) applyEnv() {
	if uri := os.Getenv(EnvSourceURL); uri != "" {
		c.Source.URL = uri
	}
}
