package eventstore

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestEventStoreAppendAndRetrieve(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	payload := []byte(`{"stage":"load_content"}`)

	if err := store.Append(ctx, "b1", TypeStageCompleted, payload, map[string]string{"target": "root-domain"}); err != nil {
		t.Fatalf("failed to append event: %v", err)
	}
	require.NoError(t, store.Append(ctx, "b2", TypeStageCompleted, payload, nil))

	events, err := store.GetByBuildID(ctx, "b1")
	require.NoError(t, err)
	require.Len(t, events, 1)

	e := events[0]
	assert.Equal(t, "b1", e.BuildID())
	assert.Equal(t, TypeStageCompleted, e.Type())
	if !bytes.Equal(e.Payload(), payload) {
		t.Errorf("expected payload %s, got %s", payload, e.Payload())
	}
	assert.Equal(t, "root-domain", e.Metadata()["target"])
	assert.NotZero(t, e.ID())
}

func TestEventStoreGetRange(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	start := time.Now().Add(-time.Second)
	require.NoError(t, store.Append(ctx, "b1", TypeBuildCompleted, []byte(`{}`), nil))
	require.NoError(t, store.Append(ctx, "b2", TypeBuildCompleted, []byte(`{}`), nil))

	events, err := store.GetRange(ctx, start, time.Now().Add(time.Second))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "b1", events[0].BuildID())

	none, err := store.GetRange(ctx, time.Now().Add(time.Hour), time.Now().Add(2*time.Hour))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestNewEventAndDecode(t *testing.T) {
	e, err := NewEvent("b1", TypeBrokenAsset, BrokenAsset{Target: "sub-path", Ref: "./css/x.css", File: "index.html"})
	require.NoError(t, err)
	assert.Equal(t, TypeBrokenAsset, e.Type())

	var got BrokenAsset
	require.NoError(t, Decode(e, &got))
	assert.Equal(t, "./css/x.css", got.Ref)

	bad := &BaseEvent{EventType: TypeBrokenAsset, EventPayload: []byte("{")}
	assert.Error(t, Decode(bad, &got))
}

func TestEventStoreRangeUsesRecordTime(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	day := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	store.now = func() time.Time { return day }
	require.NoError(t, store.Append(ctx, "old", TypeBuildCompleted, []byte(`{}`), nil))
	store.now = func() time.Time { return day.Add(48 * time.Hour) }
	require.NoError(t, store.Append(ctx, "new", TypeBuildCompleted, []byte(`{}`), map[string]string{"target": "generic-static"}))

	events, err := store.GetRange(ctx, day.Add(24*time.Hour), day.Add(72*time.Hour))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "new", events[0].BuildID())
	assert.True(t, events[0].Timestamp().Equal(day.Add(48*time.Hour)))
}
