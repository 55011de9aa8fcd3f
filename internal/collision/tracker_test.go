package collision

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewTracker(t *testing.T) {
	tracker := NewTracker()

	require.NotNil(t, tracker)
	require.Zero(t, tracker.Count())
	require.Zero(t, tracker.Duplicates())
	require.False(t, tracker.HasCollision())
	require.Empty(t, tracker.Keys())
}

func TestTracker_Track(t *testing.T) {
	tracker := NewTracker()

	dup, err := tracker.Track("WOPR:OP_1")
	require.NoError(t, err)
	require.False(t, dup)

	dup, err = tracker.Track("BPR:5,5,1")
	require.NoError(t, err)
	require.False(t, dup)

	dup, err = tracker.Track("WOPR:OP_1")
	require.NoError(t, err)
	require.True(t, dup)

	require.Equal(t, 2, tracker.Count())
	require.Equal(t, 1, tracker.Duplicates())
	require.Equal(t, []string{"WOPR:OP_1", "BPR:5,5,1"}, tracker.Keys())
	require.False(t, tracker.HasCollision())
}

func TestTracker_EmptyKey(t *testing.T) {
	tracker := NewTracker()

	_, err := tracker.Track("")
	require.ErrorIs(t, err, ErrEmptyKey)
	require.Zero(t, tracker.Count())
}

func TestTracker_Reset(t *testing.T) {
	tracker := NewTracker()
	_, _ = tracker.Track("FOPT")
	_, _ = tracker.Track("FOPT")

	tracker.Reset()

	require.Zero(t, tracker.Count())
	require.Zero(t, tracker.Duplicates())

	dup, err := tracker.Track("FOPT")
	require.NoError(t, err)
	require.False(t, dup)
}
