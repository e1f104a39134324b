package store

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate(context.Background()))
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSQLiteSaveAndGetRun(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run := &Run{
		ID:      uuid.New().String(),
		Kind:    KindScore,
		Request: json.RawMessage(`{"latitude":-6.24,"longitude":106.81}`),
		Result:  json.RawMessage(`{"score":0.25}`),
	}
	require.NoError(t, s.SaveRun(ctx, run))
	assert.False(t, run.CreatedAt.IsZero())

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, KindScore, got.Kind)
	assert.JSONEq(t, string(run.Request), string(got.Request))
	assert.JSONEq(t, string(run.Result), string(got.Result))
}

func TestSQLiteGetRunNotFound(t *testing.T) {
	s := newTestSQLite(t)

	_, err := s.GetRun(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, ErrRunNotFound)
}

func TestSQLiteSaveRunNilPayloads(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	run := &Run{ID: uuid.New().String(), Kind: KindPortfolio}
	require.NoError(t, s.SaveRun(ctx, run))

	got, err := s.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Request)
	assert.Empty(t, got.Result)
}

func TestSQLiteListRuns(t *testing.T) {
	s := newTestSQLite(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, s.SaveRun(ctx, &Run{ID: uuid.New().String(), Kind: KindCompare}))
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)

	runs, err = s.ListRuns(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}

func TestNoopStore(t *testing.T) {
	var s Store = NoopStore{}
	ctx := context.Background()

	assert.NoError(t, s.SaveRun(ctx, &Run{ID: "x"}))
	assert.NoError(t, s.Migrate(ctx))

	_, err := s.GetRun(ctx, "x")
	assert.ErrorIs(t, err, ErrRunNotFound)

	runs, err := s.ListRuns(ctx, 10)
	assert.NoError(t, err)
	assert.Nil(t, runs)
	assert.NoError(t, s.Close())
}
