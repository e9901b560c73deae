// Package session persists per-session analysis context and credential
// overrides. Two implementations exist: an in-process cache for default
// deployments and a libsql-backed store for restarts-survive setups.
package session

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/brandscope/brandscope/internal/core"
)

// Credentials are per-session overrides for the external service keys. An
// empty field means "fall back to the server default".
type Credentials struct {
	OpenAIKey string `json:"openai_key"`
	SearchKey string `json:"search_key"`
}

// Empty reports whether no override is set.
func (c Credentials) Empty() bool {
	return c.OpenAIKey == "" && c.SearchKey == ""
}

// Store holds the most recent analysis context and credential overrides per
// session identifier. Writes overwrite wholesale; readers never observe a
// partially written context.
type Store interface {
	// PutContext stores the analysis context for a session, replacing any
	// prior context.
	PutContext(ctx context.Context, sessionID string, sc *core.SessionContext) error
	// GetContext returns the stored context, or nil when the session has
	// none.
	GetContext(ctx context.Context, sessionID string) (*core.SessionContext, error)
	// ClearContext removes any stored context for the session.
	ClearContext(ctx context.Context, sessionID string) error

	// PutCredentials stores credential overrides, replacing prior ones.
	// Empty credentials clear the overrides.
	PutCredentials(ctx context.Context, sessionID string, creds Credentials) error
	// GetCredentials returns the stored overrides; zero value when none.
	GetCredentials(ctx context.Context, sessionID string) (Credentials, error)

	Close() error
}

// Config holds session store settings.
type Config struct {
	Driver    string        `mapstructure:"driver" yaml:"driver"`
	Path      string        `mapstructure:"path" yaml:"path"`
	URL       string        `mapstructure:"url" yaml:"url"`
	AuthToken string        `mapstructure:"auth_token" yaml:"auth_token"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
}

// DefaultTTL bounds how long an idle session keeps its context.
const DefaultTTL = 24 * time.Hour

// NewStore builds a session store for the configured driver. An empty or
// "memory" driver yields the in-process store; "libsql" opens the database
// and runs migrations.
func NewStore(ctx context.Context, cfg Config) (Store, error) {
	switch strings.TrimSpace(cfg.Driver) {
	case "", "memory":
		return NewMemoryStore(cfg.TTL), nil
	case driverLibsql:
		return Open(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported session store driver: %s", cfg.Driver)
	}
}
