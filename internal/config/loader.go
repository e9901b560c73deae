package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"
)

const envPrefix = "BRANDSCOPE"

// Load builds the configuration from defaults, an optional YAML file, and
// environment overrides. cfgFile may be empty; the default search paths are
// the working directory and ~/.brandscope.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	setDefaults(v, Default())

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".brandscope"))
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := &Config{}
	decodeHook := viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))
	if err := v.Unmarshal(cfg, decodeHook); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every default so viper can overlay file and
// environment values on top.
func setDefaults(v *viper.Viper, def *Config) {
	v.SetDefault("server.host", def.Server.Host)
	v.SetDefault("server.port", def.Server.Port)

	v.SetDefault("session.driver", def.Session.Driver)
	v.SetDefault("session.path", def.Session.Path)
	v.SetDefault("session.url", def.Session.URL)
	v.SetDefault("session.auth_token", def.Session.AuthToken)
	v.SetDefault("session.ttl", def.Session.TTL)

	v.SetDefault("search.api_key", def.Search.APIKey)
	v.SetDefault("search.base_url", def.Search.BaseURL)
	v.SetDefault("search.timeout", def.Search.Timeout)
	v.SetDefault("search.count", def.Search.Count)

	v.SetDefault("llm.api_key", def.LLM.APIKey)
	v.SetDefault("llm.base_url", def.LLM.BaseURL)
	v.SetDefault("llm.model", def.LLM.Model)
	v.SetDefault("llm.timeout", def.LLM.Timeout)

	v.SetDefault("research.tlds", def.Research.TLDs)
	v.SetDefault("research.country_code", def.Research.CountryCode)
	v.SetDefault("research.pace_interval", def.Research.PaceInterval)
	v.SetDefault("research.whois_fallback_tlds", def.Research.WhoisFallbackTLDs)

	v.SetDefault("logging.level", def.Logging.Level)
	v.SetDefault("logging.format", def.Logging.Format)
}
