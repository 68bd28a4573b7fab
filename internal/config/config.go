// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix namespaces environment overrides, e.g. QAFORGE_ENGINE_MAX_DEPTH.
const EnvPrefix = "QAFORGE"

// Interface defines the contract for accessing application configuration.
// This allows for dependency injection and mocking in tests.
type Interface interface {
	Logger() LoggerConfig
	Engine() EngineConfig
	Server() ServerConfig
	MCP() MCPConfig

	// Engine Setters
	SetEngineEdgeCaseRouting(string)
	SetEngineWorkerConcurrency(int)

	// Server Setters
	SetServerListenAddr(string)
	SetServerDefaultTargetURL(string)
}

// Config holds the entire application configuration.
type Config struct {
	LoggerCfg LoggerConfig `mapstructure:"logger" yaml:"logger"`
	EngineCfg EngineConfig `mapstructure:"engine" yaml:"engine"`
	ServerCfg ServerConfig `mapstructure:"server" yaml:"server"`
	MCPCfg    MCPConfig    `mapstructure:"mcp" yaml:"mcp"`
}

func (c *Config) Logger() LoggerConfig { return c.LoggerCfg }
func (c *Config) Engine() EngineConfig { return c.EngineCfg }
func (c *Config) Server() ServerConfig { return c.ServerCfg }
func (c *Config) MCP() MCPConfig       { return c.MCPCfg }

func (c *Config) SetEngineEdgeCaseRouting(r string)  { c.EngineCfg.EdgeCaseRouting = r }
func (c *Config) SetEngineWorkerConcurrency(w int)   { c.EngineCfg.WorkerConcurrency = w }
func (c *Config) SetServerListenAddr(addr string)    { c.ServerCfg.ListenAddr = addr }
func (c *Config) SetServerDefaultTargetURL(u string) { c.ServerCfg.DefaultTargetURL = u }

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig maps log levels to color names for the console encoder.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// EngineConfig bounds the synthesis engine and the service boundary around it.
type EngineConfig struct {
	MaxDepth          int           `mapstructure:"max_depth" yaml:"max_depth"`
	MaxSteps          int           `mapstructure:"max_steps" yaml:"max_steps"`
	EdgeCaseRouting   string        `mapstructure:"edge_case_routing" yaml:"edge_case_routing"`
	LoadTimeoutMs     int           `mapstructure:"load_timeout_ms" yaml:"load_timeout_ms"`
	SynthesisTimeout  time.Duration `mapstructure:"synthesis_timeout" yaml:"synthesis_timeout"`
	WorkerConcurrency int           `mapstructure:"worker_concurrency" yaml:"worker_concurrency"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	ListenAddr       string        `mapstructure:"listen_addr" yaml:"listen_addr"`
	RequestTimeout   time.Duration `mapstructure:"request_timeout" yaml:"request_timeout"`
	ShutdownTimeout  time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
	RateLimit        float64       `mapstructure:"rate_limit" yaml:"rate_limit"`
	RateBurst        int           `mapstructure:"rate_burst" yaml:"rate_burst"`
	DefaultTargetURL string        `mapstructure:"default_target_url" yaml:"default_target_url"`
	MaxBodyBytes     int64         `mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// MCPConfig configures the Model Context Protocol tool server.
type MCPConfig struct {
	ServerName    string `mapstructure:"server_name" yaml:"server_name"`
	ServerVersion string `mapstructure:"server_version" yaml:"server_version"`
}

// NewDefaultConfig creates a configuration populated only with defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		// This should not happen with defaults, but good to be safe.
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "qaforge")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")
	v.SetDefault("logger.colors.dpanic", "magenta")
	v.SetDefault("logger.colors.panic", "magenta")
	v.SetDefault("logger.colors.fatal", "magenta")

	// -- Engine --
	v.SetDefault("engine.max_depth", 32)
	v.SetDefault("engine.max_steps", 512)
	v.SetDefault("engine.edge_case_routing", "interaction")
	v.SetDefault("engine.load_timeout_ms", 30000)
	v.SetDefault("engine.synthesis_timeout", "5s")
	v.SetDefault("engine.worker_concurrency", 4)

	// -- Server --
	v.SetDefault("server.listen_addr", ":8001")
	v.SetDefault("server.request_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.rate_limit", 20.0)
	v.SetDefault("server.rate_burst", 40)
	v.SetDefault("server.default_target_url", "http://localhost:3000")
	v.SetDefault("server.max_body_bytes", 1<<20)

	// -- MCP --
	v.SetDefault("mcp.server_name", "qaforge")
	v.SetDefault("mcp.server_version", "dev")
}

// BindEnv wires QAFORGE_* environment variables onto viper keys.
func BindEnv(v *viper.Viper) {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if err := c.EngineCfg.Validate(); err != nil {
		return fmt.Errorf("engine configuration invalid: %w", err)
	}
	if err := c.ServerCfg.Validate(); err != nil {
		return fmt.Errorf("server configuration invalid: %w", err)
	}
	return nil
}

// Validate checks the engine limits.
func (e *EngineConfig) Validate() error {
	if e.MaxDepth <= 0 {
		return fmt.Errorf("max_depth must be a positive integer")
	}
	if e.MaxSteps <= 0 {
		return fmt.Errorf("max_steps must be a positive integer")
	}
	if e.LoadTimeoutMs <= 0 {
		return fmt.Errorf("load_timeout_ms must be a positive integer")
	}
	if e.SynthesisTimeout <= 0 {
		return fmt.Errorf("synthesis_timeout must be a positive duration")
	}
	if e.WorkerConcurrency <= 0 {
		return fmt.Errorf("worker_concurrency must be a positive integer")
	}
	switch strings.ToLower(e.EdgeCaseRouting) {
	case "interaction", "capability":
	default:
		return fmt.Errorf("edge_case_routing must be \"interaction\" or \"capability\", got %q", e.EdgeCaseRouting)
	}
	return nil
}

// Validate checks the HTTP transport settings.
func (s *ServerConfig) Validate() error {
	if s.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be a positive duration")
	}
	if s.RateLimit <= 0 || s.RateBurst <= 0 {
		return fmt.Errorf("rate_limit and rate_burst must be positive")
	}
	if s.MaxBodyBytes <= 0 {
		return fmt.Errorf("max_body_bytes must be positive")
	}
	if s.DefaultTargetURL != "" {
		if err := ValidateTargetURL(s.DefaultTargetURL); err != nil {
			return fmt.Errorf("default_target_url: %w", err)
		}
	}
	return nil
}

// ValidateTargetURL accepts absolute URLs with a scheme and host, plus about:blank.
func ValidateTargetURL(raw string) error {
	if raw == "about:blank" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("malformed URL %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("URL %q must be absolute (scheme and host)", raw)
	}
	return nil
}
