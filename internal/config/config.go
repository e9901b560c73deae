// Package config provides configuration management: defaults, an optional
// YAML file, and BRANDSCOPE_* environment overrides.
package config

import (
	"time"

	"github.com/brandscope/brandscope/internal/llm"
	"github.com/brandscope/brandscope/internal/observability"
	"github.com/brandscope/brandscope/internal/server"
	"github.com/brandscope/brandscope/internal/session"
)

// Config is the complete application configuration.
type Config struct {
	Server   server.Config        `mapstructure:"server" yaml:"server"`
	Session  session.Config       `mapstructure:"session" yaml:"session"`
	Search   SearchConfig         `mapstructure:"search" yaml:"search"`
	LLM      llm.Config           `mapstructure:"llm" yaml:"llm"`
	Research ResearchConfig       `mapstructure:"research" yaml:"research"`
	Logging  observability.Config `mapstructure:"logging" yaml:"logging"`
}

// SearchConfig holds web search provider settings.
type SearchConfig struct {
	APIKey  string        `mapstructure:"api_key" yaml:"api_key"`
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Count   int           `mapstructure:"count" yaml:"count"`
}

// ResearchConfig holds aggregator settings.
type ResearchConfig struct {
	TLDs              []string      `mapstructure:"tlds" yaml:"tlds"`
	CountryCode       string        `mapstructure:"country_code" yaml:"country_code"`
	PaceInterval      time.Duration `mapstructure:"pace_interval" yaml:"pace_interval"`
	WhoisFallbackTLDs []string      `mapstructure:"whois_fallback_tlds" yaml:"whois_fallback_tlds"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Server: server.Config{
			Host: "127.0.0.1",
			Port: 8080,
		},
		Session: session.Config{
			Driver: "memory",
			TTL:    session.DefaultTTL,
		},
		Search: SearchConfig{
			Timeout: 15 * time.Second,
			Count:   10,
		},
		LLM: llm.Config{
			Model:   "gpt-4o",
			Timeout: 60 * time.Second,
		},
		Research: ResearchConfig{
			TLDs:         []string{".com", ".co", ".io", ".ai", ".org", ".net"},
			CountryCode:  "US",
			PaceInterval: 500 * time.Millisecond,
			// Registries without public RDAP coverage.
			WhoisFallbackTLDs: []string{".io", ".ai", ".co"},
		},
		Logging: observability.Config{
			Level:  "info",
			Format: "json",
		},
	}
}
