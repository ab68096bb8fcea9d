package eventstore

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendJSON(t *testing.T, s Store, buildID, typ string, v any) {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, s.Append(t.Context(), buildID, typ, b, nil))
}

func TestProjectionRebuild(t *testing.T) {
	store := newStore(t)
	now := time.Now()

	appendJSON(t, store, "old", TypeStageCompleted, StageCompleted{Stage: "load_content", Result: "success"})
	appendJSON(t, store, "old", TypeBuildCompleted, BuildCompleted{
		Target: "root-domain", Outcome: "success", FinalState: "done",
		StartedAt: now.Add(-time.Hour).UnixMilli(), DurationMS: 40,
	})
	appendJSON(t, store, "new", TypeStageCompleted, StageCompleted{Stage: "compose_layout", Result: "fatal"})
	appendJSON(t, store, "new", TypeBuildCompleted, BuildCompleted{
		Target: "sub-path", Outcome: "failed", FinalState: "aborted",
		StartedAt: now.UnixMilli(), Errors: []string{"missing body slot"},
		BrokenAssets: []string{"/css/a.css"},
	})

	p := NewBuildHistoryProjection(store, 10)
	require.NoError(t, p.Rebuild(t.Context()))

	h := p.History(0)
	require.Len(t, h, 2)
	assert.Equal(t, "new", h[0].BuildID)
	assert.Equal(t, "compose_layout", h[0].FailedStage)
	assert.Equal(t, 1, h[0].BrokenAssets)
	assert.Equal(t, "old", h[1].BuildID)
	assert.Empty(t, h[1].FailedStage)
	assert.Equal(t, 40*time.Millisecond, h[1].Duration)

	last, ok := p.Last()
	require.True(t, ok)
	assert.Equal(t, "failed", last.Outcome)
}

func TestProjectionBounded(t *testing.T) {
	p := NewBuildHistoryProjection(newStore(t), 2)
	for i, id := range []string{"a", "b", "c"} {
		e, err := NewEvent(id, TypeBuildCompleted, BuildCompleted{StartedAt: int64(i + 1)})
		require.NoError(t, err)
		p.Apply(e)
	}
	h := p.History(5)
	require.Len(t, h, 2)
	assert.Equal(t, "c", h[0].BuildID)
	assert.Equal(t, "b", h[1].BuildID)

	_, ok := NewBuildHistoryProjection(newStore(t), 0).Last()
	assert.False(t, ok)
}
