package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/brandscope/brandscope/internal/core"
)

// MemoryStore keeps session state in process memory with per-entry TTL.
// Suitable for single-instance deployments; contents are lost on restart.
type MemoryStore struct {
	cache *gocache.Cache
}

// NewMemoryStore builds an in-memory store. A non-positive ttl falls back to
// DefaultTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{cache: gocache.New(ttl, ttl/2)}
}

func contextKey(sessionID string) string {
	return "context:" + sessionID
}

func credentialsKey(sessionID string) string {
	return "credentials:" + sessionID
}

func validateSessionID(sessionID string) error {
	if strings.TrimSpace(sessionID) == "" {
		return errors.New("session id is required")
	}
	return nil
}

// PutContext stores the analysis context, replacing any prior one.
func (s *MemoryStore) PutContext(_ context.Context, sessionID string, sc *core.SessionContext) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if sc == nil {
		return errors.New("session context is required")
	}
	s.cache.Set(contextKey(sessionID), sc, gocache.DefaultExpiration)
	return nil
}

// GetContext returns the stored context or nil when absent.
func (s *MemoryStore) GetContext(_ context.Context, sessionID string) (*core.SessionContext, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}
	value, ok := s.cache.Get(contextKey(sessionID))
	if !ok {
		return nil, nil
	}
	sc, ok := value.(*core.SessionContext)
	if !ok {
		return nil, fmt.Errorf("unexpected context entry type %T", value)
	}
	return sc, nil
}

// ClearContext removes any stored context for the session.
func (s *MemoryStore) ClearContext(_ context.Context, sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	s.cache.Delete(contextKey(sessionID))
	return nil
}

// PutCredentials stores overrides; empty credentials clear them.
func (s *MemoryStore) PutCredentials(_ context.Context, sessionID string, creds Credentials) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if creds.Empty() {
		s.cache.Delete(credentialsKey(sessionID))
		return nil
	}
	s.cache.Set(credentialsKey(sessionID), creds, gocache.DefaultExpiration)
	return nil
}

// GetCredentials returns stored overrides, zero value when none.
func (s *MemoryStore) GetCredentials(_ context.Context, sessionID string) (Credentials, error) {
	if err := validateSessionID(sessionID); err != nil {
		return Credentials{}, err
	}
	value, ok := s.cache.Get(credentialsKey(sessionID))
	if !ok {
		return Credentials{}, nil
	}
	creds, ok := value.(Credentials)
	if !ok {
		return Credentials{}, fmt.Errorf("unexpected credentials entry type %T", value)
	}
	return creds, nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
