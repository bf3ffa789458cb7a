package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"basket-stats-mcp/internal/stats"
)

// Environment variables holding secrets; never read from the YAML file.
const (
	EnvMCPAPIKey  = "BASKET_MCP_API_KEY"
	EnvRESTAPIKey = "BASKET_REST_API_KEY"
)

type Config struct {
	Server ServerConfig `yaml:"server"`
	Source SourceConfig `yaml:"source"`
	Redis  RedisConfig  `yaml:"redis"`
	REST   RESTConfig   `yaml:"rest"`
	Engine EngineConfig `yaml:"engine"`
	Log    LogConfig    `yaml:"log"`
}

type ServerConfig struct {
	Addr        string   `yaml:"addr" validate:"required"`
	MCPPath     string   `yaml:"mcp_path" validate:"required,startswith=/"`
	RequireAuth bool     `yaml:"require_auth"`
	AuthHeader  string   `yaml:"auth_header" validate:"required"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type SourceConfig struct {
	Kind        string `yaml:"kind" validate:"oneof=files postgres"`
	RawRoot     string `yaml:"raw_root" validate:"required_if=Kind files"`
	PostgresDSN string `yaml:"postgres_dsn" validate:"required_if=Kind postgres"`
}

// RedisConfig enables the snapshot cache when Addr is set.
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db" validate:"gte=0"`
	TTL      time.Duration `yaml:"ttl" validate:"gte=0"`
	Prefix   string        `yaml:"prefix"`
}

type RESTConfig struct {
	BaseURL string        `yaml:"base_url" validate:"omitempty,url"`
	Sleep   time.Duration `yaml:"sleep" validate:"gte=0"`
	Timeout time.Duration `yaml:"timeout" validate:"gt=0"`
}

type EngineConfig struct {
	Minutes       string   `yaml:"minutes" validate:"oneof=auto direct substitutions"`
	UnmatchedExit string   `yaml:"unmatched_exit" validate:"oneof=ignore period_start"`
	EnterTerms    []string `yaml:"enter_terms"`
	ExitTerms     []string `yaml:"exit_terms"`
}

type LogConfig struct {
	Level  string `yaml:"level" validate:"oneof=trace debug info warn error"`
	Pretty bool   `yaml:"pretty"`
}

func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:        ":8080",
			MCPPath:     "/mcp",
			RequireAuth: true,
			AuthHeader:  "X-API-Key",
			CORSOrigins: []string{"*"},
		},
		Source: SourceConfig{Kind: "files", RawRoot: "data/raw"},
		Redis:  RedisConfig{TTL: 10 * time.Minute, Prefix: "basket"},
		REST:   RESTConfig{Sleep: 250 * time.Millisecond, Timeout: 20 * time.Second},
		Engine: EngineConfig{Minutes: "auto", UnmatchedExit: "ignore"},
		Log:    LogConfig{Level: "info"},
	}
}

// Load reads a YAML file over the defaults. An empty path returns the
// defaults.
func Load(configPath string) (*Config, error) {
	cfg := Default()
	if configPath == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

// Validate checks the config after flags have been applied.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// PlayerOptions turns the engine section into aggregation options for a
// competition.
func (c *Config) PlayerOptions(mini bool) (stats.PlayerOptions, error) {
	minutes, err := stats.ParseMinutesSource(c.Engine.Minutes)
	if err != nil {
		return stats.PlayerOptions{}, err
	}
	rec, err := c.Reconstructor(mini)
	if err != nil {
		return stats.PlayerOptions{}, err
	}
	return stats.PlayerOptions{Minutes: minutes, Reconstructor: rec}, nil
}

func (c *Config) Reconstructor(mini bool) (stats.Reconstructor, error) {
	policy, err := stats.ParseUnmatchedExitPolicy(c.Engine.UnmatchedExit)
	if err != nil {
		return stats.Reconstructor{}, err
	}
	rec := stats.NewReconstructor(mini)
	rec.UnmatchedExit = policy
	rec.Vocabulary = stats.DefaultVocabulary.With(c.Engine.EnterTerms, c.Engine.ExitTerms)
	return rec, nil
}
