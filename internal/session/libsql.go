package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/brandscope/brandscope/internal/core"
)

const driverLibsql = "libsql"

// SQLStore persists session state in a libsql database so context and
// credential overrides survive restarts. Rows idle longer than TTL are
// treated as absent on read and removed by PruneExpired; a zero TTL disables
// expiry.
type SQLStore struct {
	DB  *sql.DB
	TTL time.Duration

	// Clock reports the current time; nil means time.Now.
	Clock func() time.Time
}

// Open initializes a libsql-backed session store and ensures the schema.
func Open(ctx context.Context, cfg Config) (*SQLStore, error) {
	driver := strings.TrimSpace(cfg.Driver)
	if driver == "" {
		driver = driverLibsql
	}
	if driver != driverLibsql {
		return nil, fmt.Errorf("unsupported session store driver: %s", driver)
	}

	if ctx == nil {
		ctx = context.Background()
	}

	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(driverLibsql, dsn)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping session store: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	store := &SQLStore{DB: db, TTL: ttl}
	if err := store.Migrate(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	if err := store.PruneExpired(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS session_contexts (
		session_id TEXT PRIMARY KEY,
		context_json TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	);`,
	`CREATE TABLE IF NOT EXISTS session_settings (
		session_id TEXT PRIMARY KEY,
		openai_key TEXT NOT NULL DEFAULT '',
		search_key TEXT NOT NULL DEFAULT '',
		updated_at INTEGER NOT NULL
	);`,
}

// Migrate ensures the required tables exist.
func (s *SQLStore) Migrate(ctx context.Context) error {
	if s == nil || s.DB == nil {
		return errors.New("session store is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	for _, stmt := range schemaStatements {
		if _, err := s.DB.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("session store migration failed: %w", err)
		}
	}
	return nil
}

// PutContext stores the analysis context, replacing any prior one.
func (s *SQLStore) PutContext(ctx context.Context, sessionID string, sc *core.SessionContext) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if sc == nil {
		return errors.New("session context is required")
	}

	payload, err := json.Marshal(sc)
	if err != nil {
		return fmt.Errorf("encode session context: %w", err)
	}

	_, err = s.DB.ExecContext(ctx, `
		INSERT INTO session_contexts (session_id, context_json, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			context_json = excluded.context_json,
			updated_at = excluded.updated_at
	`, sessionID, string(payload), s.now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("store session context: %w", err)
	}
	return nil
}

// GetContext returns the stored context or nil when absent.
func (s *SQLStore) GetContext(ctx context.Context, sessionID string) (*core.SessionContext, error) {
	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	var payload string
	row := s.DB.QueryRowContext(ctx,
		`SELECT context_json FROM session_contexts WHERE session_id = ? AND updated_at > ?`,
		sessionID, s.cutoff())
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("fetch session context: %w", err)
	}

	var sc core.SessionContext
	if err := json.Unmarshal([]byte(payload), &sc); err != nil {
		return nil, fmt.Errorf("decode session context: %w", err)
	}
	return &sc, nil
}

// ClearContext removes any stored context for the session.
func (s *SQLStore) ClearContext(ctx context.Context, sessionID string) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}
	if _, err := s.DB.ExecContext(ctx,
		`DELETE FROM session_contexts WHERE session_id = ?`, sessionID); err != nil {
		return fmt.Errorf("clear session context: %w", err)
	}
	return nil
}

// PutCredentials stores overrides; empty credentials delete the row.
func (s *SQLStore) PutCredentials(ctx context.Context, sessionID string, creds Credentials) error {
	if err := validateSessionID(sessionID); err != nil {
		return err
	}

	if creds.Empty() {
		if _, err := s.DB.ExecContext(ctx,
			`DELETE FROM session_settings WHERE session_id = ?`, sessionID); err != nil {
			return fmt.Errorf("clear session credentials: %w", err)
		}
		return nil
	}

	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO session_settings (session_id, openai_key, search_key, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(session_id) DO UPDATE SET
			openai_key = excluded.openai_key,
			search_key = excluded.search_key,
			updated_at = excluded.updated_at
	`, sessionID, creds.OpenAIKey, creds.SearchKey, s.now().UTC().Unix())
	if err != nil {
		return fmt.Errorf("store session credentials: %w", err)
	}
	return nil
}

// GetCredentials returns stored overrides, zero value when none.
func (s *SQLStore) GetCredentials(ctx context.Context, sessionID string) (Credentials, error) {
	if err := validateSessionID(sessionID); err != nil {
		return Credentials{}, err
	}

	var creds Credentials
	row := s.DB.QueryRowContext(ctx,
		`SELECT openai_key, search_key FROM session_settings WHERE session_id = ? AND updated_at > ?`,
		sessionID, s.cutoff())
	if err := row.Scan(&creds.OpenAIKey, &creds.SearchKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Credentials{}, nil
		}
		return Credentials{}, fmt.Errorf("fetch session credentials: %w", err)
	}
	return creds, nil
}

// PruneExpired deletes rows whose updated_at has fallen past TTL. A zero TTL
// keeps everything.
func (s *SQLStore) PruneExpired(ctx context.Context) error {
	cutoff := s.cutoff()
	if cutoff == 0 {
		return nil
	}
	for _, table := range []string{"session_contexts", "session_settings"} {
		if _, err := s.DB.ExecContext(ctx,
			`DELETE FROM `+table+` WHERE updated_at <= ?`, cutoff); err != nil {
			return fmt.Errorf("prune expired sessions: %w", err)
		}
	}
	return nil
}

func (s *SQLStore) now() time.Time {
	if s.Clock != nil {
		return s.Clock()
	}
	return time.Now()
}

// cutoff is the oldest updated_at still considered live; zero disables the
// expiry filter.
func (s *SQLStore) cutoff() int64 {
	if s.TTL <= 0 {
		return 0
	}
	return s.now().Add(-s.TTL).UTC().Unix()
}

// Close releases database resources.
func (s *SQLStore) Close() error {
	if s == nil || s.DB == nil {
		return nil
	}
	return s.DB.Close()
}

func buildDSN(cfg Config) (string, error) {
	if dsn := strings.TrimSpace(cfg.URL); dsn != "" {
		return addAuthToken(dsn, cfg.AuthToken)
	}

	path := strings.TrimSpace(cfg.Path)
	if path == "" {
		return "", errors.New("session store path or url is required")
	}
	if path == ":memory:" || strings.HasPrefix(path, "file:") || strings.HasPrefix(path, "libsql:") {
		return path, nil
	}

	if err := ensureStoreDir(path); err != nil {
		return "", err
	}
	return "file:" + filepath.Clean(path), nil
}

func addAuthToken(dsn string, token string) (string, error) {
	if strings.TrimSpace(token) == "" {
		return dsn, nil
	}

	parsed, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("invalid session store url: %w", err)
	}

	query := parsed.Query()
	if query.Get("authToken") == "" {
		query.Set("authToken", token)
		parsed.RawQuery = query.Encode()
	}
	return parsed.String(), nil
}

func ensureStoreDir(path string) error {
	dir := filepath.Dir(filepath.Clean(path))
	if dir == "." || dir == string(filepath.Separator) {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session store directory: %w", err)
	}
	return nil
}
