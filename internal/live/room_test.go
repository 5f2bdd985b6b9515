package live

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
	"github.com/closset/closset/engine-go/internal/session"
)

func newTestRoom() (*Room, *time.Time) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	sess := session.New(slog.New(slog.NewTextHandler(io.Discard, nil)), session.Options{
		Clock: func() time.Time { return *clock },
	})
	return &Room{
		designID: "dsgn_test",
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		session:  sess,
	}, clock
}

func mustMsg(t *testing.T, typ string, payload any) *Message {
	t.Helper()
	data, err := json.Marshal(payload)
	require.NoError(t, err)
	return &Message{Type: typ, Payload: data}
}

func TestRoomApply_PointerLifecycle(t *testing.T) {
	room, clock := newTestRoom()

	style := design.Style{Type: design.StitchChain, Color: "#2980b9", Thickness: 0.003, Opacity: 1}
	mutated, err := room.apply(mustMsg(t, TypePointerStart, PointerPayload{Point: geom.Pt(0.1, 0.1), Style: &style}))
	require.NoError(t, err)
	assert.False(t, mutated, "draft only, nothing committed")

	*clock = clock.Add(session.MoveInterval)
	mutated, err = room.apply(mustMsg(t, TypePointerMove, PointerPayload{Point: geom.Pt(0.2, 0.2)}))
	require.NoError(t, err)
	assert.False(t, mutated)

	mutated, err = room.apply(&Message{Type: TypePointerEnd})
	require.NoError(t, err)
	assert.True(t, mutated)

	snap := room.snapshot()
	require.Len(t, snap.Design.Stitches, 1)
	assert.Equal(t, design.StitchChain, snap.Design.Stitches[0].Type)
	assert.True(t, snap.CanUndo)
}

func TestRoomApply_UndoRedo(t *testing.T) {
	room, _ := newTestRoom()
	room.apply(mustMsg(t, TypePointerStart, PointerPayload{Point: geom.Pt(0.1, 0.1)}))
	room.apply(&Message{Type: TypePointerEnd})

	mutated, err := room.apply(&Message{Type: TypeDesignUndo})
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.Empty(t, room.snapshot().Design.Stitches)

	// Undo on an empty stack does not trigger a sync.
	mutated, err = room.apply(&Message{Type: TypeDesignUndo})
	require.NoError(t, err)
	assert.False(t, mutated)

	mutated, err = room.apply(&Message{Type: TypeDesignRedo})
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.Len(t, room.snapshot().Design.Stitches, 1)
}

func TestRoomApply_LayerOps(t *testing.T) {
	room, _ := newTestRoom()

	mutated, err := room.apply(mustMsg(t, TypeLayerAdd, LayerPayload{Name: "details"}))
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.Len(t, room.snapshot().Design.Layers, 2)

	mutated, err = room.apply(mustMsg(t, TypeLayerRename, LayerPayload{Index: 1, Name: "highlights"}))
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.Equal(t, "highlights", room.snapshot().Design.Layers[1].Name)

	// Out-of-range index is a quiet no-op.
	mutated, err = room.apply(mustMsg(t, TypeLayerToggle, LayerPayload{Index: 9}))
	require.NoError(t, err)
	assert.False(t, mutated)
}

func TestRoomApply_ImportAndClear(t *testing.T) {
	room, _ := newTestRoom()

	mutated, err := room.apply(mustMsg(t, TypeDesignImport, ImportPayload{
		Stitches: []design.Stitch{
			{Type: design.StitchCross, Points: []geom.Point{geom.Pt(0.1, 0.1), geom.Pt(0.2, 0.2)}, Color: "#000000", Thickness: 0.004, Opacity: 1},
		},
	}))
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.Len(t, room.snapshot().Design.Stitches, 1)

	mutated, err = room.apply(&Message{Type: TypeDesignClear})
	require.NoError(t, err)
	assert.True(t, mutated)
	assert.Empty(t, room.snapshot().Design.Stitches)
}

func TestRoomApply_UnknownAndMalformed(t *testing.T) {
	room, _ := newTestRoom()

	_, err := room.apply(&Message{Type: "design.teleport"})
	assert.Error(t, err)

	_, err = room.apply(&Message{Type: TypePointerStart, Payload: json.RawMessage(`{`)})
	assert.ErrorIs(t, err, errBadPayload)
}
