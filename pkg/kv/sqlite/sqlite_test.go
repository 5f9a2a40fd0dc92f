package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/kv/sqlite"
)

func TestBackendRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "proverbs.db")

	b, err := sqlite.Open(ctx, path)
	require.NoError(t, err)

	_, ok, err := b.Get(ctx, "favoriteProverbs")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, b.Set(ctx, "favoriteProverbs", []byte(`[{"id":1}]`)))
	require.NoError(t, b.Set(ctx, "favoriteProverbs", []byte(`[{"id":2}]`)))
	require.NoError(t, b.Close())

	reopened, err := sqlite.Open(ctx, path)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok, err := reopened.Get(ctx, "favoriteProverbs")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":2}]`, string(got))
}

func TestBackendWatchable(t *testing.T) {
	dir := t.TempDir()
	b, err := sqlite.Open(context.Background(), filepath.Join(dir, "proverbs.db"))
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, []string{dir}, b.WatchPaths())
	assert.True(t, b.Affects(filepath.Join(dir, "proverbs.db-wal"), "anything"))
	assert.False(t, b.Affects(filepath.Join(dir, "notes.txt"), "anything"))
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open(context.Background(), "")
	require.Error(t, err)
}

func TestOpenReportsPragmaFailure(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "proverbs.db"))
	var re *errors.ResourceError
	require.True(t, errors.As(err, &re))
	assert.Equal(t, "pragma", re.Resource)
	assert.Equal(t, "PRAGMA journal_mode = WAL;", re.ID)
	assert.ErrorIs(t, err, context.Canceled)
}
