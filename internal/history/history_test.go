package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
)

var now = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

func designWith(n int) *design.Design {
	d := design.New("layer_base")
	for i := 0; i < n; i++ {
		d.Stitches = append(d.Stitches, design.Stitch{
			ID:        fmt.Sprintf("st_%d", i),
			Type:      design.StitchOutline,
			Points:    []geom.Point{geom.Pt(0.1, 0.1), geom.Pt(0.2, 0.2)},
			Color:     "#000000",
			Thickness: 0.004,
			Opacity:   1,
		})
	}
	return d
}

func TestUndoRedoRoundTrip(t *testing.T) {
	s := New(0)
	current := designWith(0)

	// Apply N mutations, snapshotting before each.
	for n := 1; n <= 5; n++ {
		s.Record(current, fmt.Sprintf("commit %d", n), now)
		current = designWith(n)
	}
	final := current.Clone()

	for n := 5; n >= 1; n-- {
		var ok bool
		current, ok = s.Undo(current, now)
		require.True(t, ok)
		assert.Len(t, current.Stitches, n-1)
	}
	assert.Equal(t, designWith(0), current)

	for n := 1; n <= 5; n++ {
		var ok bool
		current, ok = s.Redo(current, now)
		require.True(t, ok)
		assert.Len(t, current.Stitches, n)
	}
	assert.Equal(t, final, current)
}

func TestUndoEmptyStackIsNoOp(t *testing.T) {
	s := New(0)
	d := designWith(2)

	got, ok := s.Undo(d, now)
	assert.False(t, ok)
	assert.Equal(t, d, got)

	got, ok = s.Redo(d, now)
	assert.False(t, ok)
	assert.Equal(t, d, got)
}

func TestRecordClearsRedo(t *testing.T) {
	s := New(0)
	current := designWith(0)

	s.Record(current, "first", now)
	current = designWith(1)

	current, ok := s.Undo(current, now)
	require.True(t, ok)
	require.True(t, s.CanRedo())

	// A fresh mutation forks history: the redo branch is gone.
	s.Record(current, "second", now)
	assert.False(t, s.CanRedo())
}

func TestSnapshotsAreDeepCopies(t *testing.T) {
	s := New(0)
	current := designWith(1)
	s.Record(current, "commit", now)

	// Mutating the live state must not reach the stored snapshot.
	current.Stitches[0].Points[0] = geom.Pt(0.9, 0.9)

	restored, ok := s.Undo(current, now)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(0.1, 0.1), restored.Stitches[0].Points[0])
}

func TestLimitDropsOldest(t *testing.T) {
	s := New(3)
	current := designWith(0)
	for n := 1; n <= 5; n++ {
		s.Record(current, fmt.Sprintf("commit %d", n), now)
		current = designWith(n)
	}

	undo, _ := s.Depth()
	assert.Equal(t, 3, undo)
	assert.Equal(t, []string{"commit 3", "commit 4", "commit 5"}, s.Labels())

	// Only the retained window can be undone.
	for i := 0; i < 3; i++ {
		var ok bool
		current, ok = s.Undo(current, now)
		require.True(t, ok)
	}
	_, ok := s.Undo(current, now)
	assert.False(t, ok)
	assert.Len(t, current.Stitches, 2)
}
