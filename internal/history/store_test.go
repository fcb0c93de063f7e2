package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wasmkit/capirun/internal/runner"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runs.db")

	st, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())

	st, err = Open(path)
	require.NoError(t, err)
	require.NoError(t, st.Close())
}

func TestNewRunIDIsOrdered(t *testing.T) {
	a := NewRunID()
	b := NewRunID()

	assert.NotEqual(t, a, b)
	// UUIDv7 IDs sort by generation time.
	assert.Less(t, a, b)
}

func TestRecordAndListRun(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	run := Run{
		ID:         NewRunID(),
		Suite:      "wasm-c-api",
		StartedAt:  started,
		FinishedAt: started.Add(3 * time.Second),
		Executed:   2,
		Failed:     1,
	}
	results := []runner.ExampleResult{
		{Name: "hello", Path: "/bin/hello", ExitCode: 0, Output: []byte("hi\n"), Duration: 120 * time.Millisecond},
		{Name: "trap", Path: "/bin/trap", ExitCode: 1, Output: []byte("boom\n"), Duration: 80 * time.Millisecond},
	}
	require.NoError(t, st.RecordRun(ctx, run, results))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "wasm-c-api", got.Suite)
	assert.True(t, got.StartedAt.Equal(started))
	assert.Equal(t, 2, got.Executed)
	assert.Equal(t, 1, got.Failed)
}

func TestRecordRunSilentExample(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	started := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	run := Run{
		ID:         NewRunID(),
		Suite:      "wasm-c-api",
		StartedAt:  started,
		FinishedAt: started.Add(time.Second),
		Executed:   1,
	}
	// An example that exits 0 without writing anything carries a nil
	// output slice; recording it must still succeed.
	results := []runner.ExampleResult{
		{Name: "start", Path: "/bin/start", ExitCode: 0, Output: nil, Duration: 50 * time.Millisecond},
	}
	require.NoError(t, st.RecordRun(ctx, run, results))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, 1, runs[0].Executed)
}

func TestListRunsNewestFirst(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		run := Run{
			ID:         NewRunID(),
			Suite:      "wasm-c-api",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
		}
		require.NoError(t, st.RecordRun(ctx, run, nil))
	}

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.True(t, runs[0].StartedAt.After(runs[1].StartedAt))
	assert.True(t, runs[1].StartedAt.After(runs[2].StartedAt))
}

func TestListRunsLimit(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	base := time.Date(2026, 8, 24, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		run := Run{
			ID:         NewRunID(),
			Suite:      "wasm-c-api",
			StartedAt:  base.Add(time.Duration(i) * time.Minute),
			FinishedAt: base.Add(time.Duration(i)*time.Minute + time.Second),
		}
		require.NoError(t, st.RecordRun(ctx, run, nil))
	}

	runs, err := st.ListRuns(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestRecordRunRejectsDuplicateID(t *testing.T) {
	st := openTestStore(t)
	ctx := context.Background()

	run := Run{
		ID:         NewRunID(),
		Suite:      "wasm-c-api",
		StartedAt:  time.Now(),
		FinishedAt: time.Now(),
	}
	require.NoError(t, st.RecordRun(ctx, run, nil))
	require.Error(t, st.RecordRun(ctx, run, nil))
}
