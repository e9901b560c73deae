//go:build cgo

package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/brandscope/brandscope/internal/core"
)

func openTestStore(t *testing.T) *SQLStore {
	t.Helper()
	store, err := Open(context.Background(), Config{Driver: "libsql", Path: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, store.Close()) })
	return store
}

func TestSQLStoreContextRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	got, err := store.GetContext(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, got)

	sc := &core.SessionContext{
		AnalyzedBrand: "Acme",
		ResearchData:  &core.ResearchRecord{BrandName: "Acme"},
		EvaluationData: &core.Evaluation{
			Err:         "completion response format error (incorrect keys)",
			RawResponse: "{}",
		},
	}
	require.NoError(t, store.PutContext(ctx, "s1", sc))

	got, err = store.GetContext(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "Acme", got.AnalyzedBrand)
	require.Equal(t, "Acme", got.ResearchData.BrandName)
	// Error shapes survive the round trip intact.
	require.True(t, got.EvaluationData.Failed())
	require.Equal(t, sc.EvaluationData.Err, got.EvaluationData.Err)

	require.NoError(t, store.ClearContext(ctx, "s1"))
	got, err = store.GetContext(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestSQLStoreCredentials(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)

	creds, err := store.GetCredentials(ctx, "s1")
	require.NoError(t, err)
	require.True(t, creds.Empty())

	require.NoError(t, store.PutCredentials(ctx, "s1", Credentials{OpenAIKey: "sk-test"}))
	creds, err = store.GetCredentials(ctx, "s1")
	require.NoError(t, err)
	require.Equal(t, "sk-test", creds.OpenAIKey)

	require.NoError(t, store.PutCredentials(ctx, "s1", Credentials{}))
	creds, err = store.GetCredentials(ctx, "s1")
	require.NoError(t, err)
	require.True(t, creds.Empty())
}

func TestSQLStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := openTestStore(t)
	store.TTL = 24 * time.Hour

	base := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	now := base
	store.Clock = func() time.Time { return now }

	require.NoError(t, store.PutContext(ctx, "s1", &core.SessionContext{
		AnalyzedBrand: "Acme",
		ResearchData:  &core.ResearchRecord{BrandName: "Acme"},
	}))
	require.NoError(t, store.PutCredentials(ctx, "s1", Credentials{OpenAIKey: "sk-test"}))

	// Still live just inside the TTL window.
	now = base.Add(23 * time.Hour)
	got, err := store.GetContext(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)

	// Past the TTL both reads report absence.
	now = base.Add(25 * time.Hour)
	got, err = store.GetContext(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, got)

	creds, err := store.GetCredentials(ctx, "s1")
	require.NoError(t, err)
	require.True(t, creds.Empty())

	// Pruning removes the rows for good.
	require.NoError(t, store.PruneExpired(ctx))
	now = base
	got, err = store.GetContext(ctx, "s1")
	require.NoError(t, err)
	require.Nil(t, got)
}
