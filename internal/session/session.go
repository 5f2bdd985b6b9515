// Package session runs the live drawing state machine: pointer events in,
// history-snapshotted design mutations out. The session is single-threaded by
// contract; callers deliver events and frame ticks from one goroutine.
package session

import (
	"log/slog"
	"math"
	"time"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
	"github.com/closset/closset/engine-go/internal/history"
	"github.com/closset/closset/engine-go/internal/optimizer"
	"github.com/closset/closset/engine-go/internal/stitch"
	"github.com/closset/closset/engine-go/internal/typeid"
)

const (
	// MoveInterval is the minimum gap between accepted pointer moves. Faster
	// drags are coalesced so point density stays bounded.
	MoveInterval = 32 * time.Millisecond

	// RenderDebounce coalesces bursts of mutations into at most one render
	// pass per interval. The latest state wins; superseded passes never run.
	RenderDebounce = 16 * time.Millisecond
)

// State is the drawing lifecycle state.
type State int

const (
	Idle State = iota
	Drawing
)

// Clock supplies the session's notion of now. Tests inject a fake.
type Clock func() time.Time

// Options tune a new session.
type Options struct {
	HistoryLimit int
	Clock        Clock
	NewStitchID  func() string
	NewLayerID   func() string
}

// Session owns the design state exclusively: every mutation funnels through
// its history-snapshotting entry points.
type Session struct {
	log     *slog.Logger
	clock   Clock
	newID   func() string
	layerID func() string

	design  *design.Design
	history *history.Stack
	style   design.Style
	params  stitch.Params

	state    State
	draft    *design.Stitch
	lastMove time.Time

	dirty      bool
	lastRender time.Time
}

func New(log *slog.Logger, opts Options) *Session {
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.NewStitchID == nil {
		opts.NewStitchID = typeid.NewStitchID
	}
	if opts.NewLayerID == nil {
		opts.NewLayerID = typeid.NewLayerID
	}
	return &Session{
		log:     log,
		clock:   opts.Clock,
		newID:   opts.NewStitchID,
		layerID: opts.NewLayerID,
		design:  design.New(opts.NewLayerID()),
		history: history.New(opts.HistoryLimit),
		style:   design.DefaultStyle(),
		params:  stitch.DefaultParams(),
	}
}

// Design exposes the live design for the render path. Callers must not
// mutate it; Stitches returns a safe copy for everyone else.
func (s *Session) Design() *design.Design {
	return s.design
}

// Stitches returns a deep copy of the current stitch list.
func (s *Session) Stitches() []design.Stitch {
	out := make([]design.Stitch, len(s.design.Stitches))
	for i, st := range s.design.Stitches {
		out[i] = st.Clone()
	}
	return out
}

func (s *Session) State() State          { return s.state }
func (s *Session) Style() design.Style   { return s.style }
func (s *Session) Params() stitch.Params { return s.params }
func (s *Session) CanUndo() bool         { return s.history.CanUndo() }
func (s *Session) CanRedo() bool         { return s.history.CanRedo() }

// SetStyle replaces the style new stitches are started with. An unknown
// stitch type and non-finite or out-of-range values fall back to defaults
// rather than poisoning renders. Imported stitches may carry types outside
// the closed set; new strokes never do.
func (s *Session) SetStyle(st design.Style) {
	def := design.DefaultStyle()
	if !design.Known(st.Type) {
		st.Type = def.Type
	}
	if st.Color == "" {
		st.Color = def.Color
	}
	if !finitePositive(st.Thickness) {
		st.Thickness = def.Thickness
	}
	if math.IsNaN(st.Opacity) || st.Opacity <= 0 || st.Opacity > 1 {
		st.Opacity = def.Opacity
	}
	s.style = st
}

// SetParams replaces the generator parameters used by render passes.
func (s *Session) SetParams(p stitch.Params) {
	s.params = p
	s.invalidate()
}

// Start begins a new stitch at pt with a snapshot of the current style.
// A start while already drawing is ignored.
func (s *Session) Start(pt geom.Point) {
	if s.state == Drawing {
		s.log.Debug("start ignored while drawing")
		return
	}
	s.state = Drawing
	s.lastMove = s.clock()
	s.draft = &design.Stitch{
		ID:         s.newID(),
		Type:       s.style.Type,
		Points:     []geom.Point{pt},
		Color:      s.style.Color,
		Thickness:  s.style.Thickness,
		Opacity:    s.style.Opacity,
		ThreadType: s.style.ThreadType,
		Layer:      s.design.ActiveLayer,
	}
}

// Move appends a point to the in-progress stitch, dropping events that
// arrive faster than MoveInterval. A move while idle is a no-op.
func (s *Session) Move(pt geom.Point) {
	if s.state != Drawing {
		return
	}
	now := s.clock()
	if now.Sub(s.lastMove) < MoveInterval {
		return
	}
	s.lastMove = now
	s.draft.Points = append(s.draft.Points, pt)
	s.invalidate()
}

// End commits the in-progress stitch. A single-point click stitch is still
// committed; generators treat it as a rendering no-op.
func (s *Session) End() {
	if s.state != Drawing {
		return
	}
	draft := *s.draft
	s.state = Idle
	s.draft = nil

	s.mutate("draw "+string(draft.Type), func(d *design.Design) {
		d.Stitches = append(d.Stitches, draft)
	})
	s.log.Debug("stitch committed", "stitch", draft.ID, "points", len(draft.Points))
}

// Draft returns the uncommitted in-progress stitch, if any.
func (s *Session) Draft() (design.Stitch, bool) {
	if s.draft == nil {
		return design.Stitch{}, false
	}
	return s.draft.Clone(), true
}

// Undo restores the previous snapshot. Empty stack is a no-op.
func (s *Session) Undo() bool {
	d, ok := s.history.Undo(s.design, s.clock())
	if !ok {
		return false
	}
	s.design = d
	s.invalidate()
	return true
}

// Redo restores the next snapshot. Empty stack is a no-op.
func (s *Session) Redo() bool {
	d, ok := s.history.Redo(s.design, s.clock())
	if !ok {
		return false
	}
	s.design = d
	s.invalidate()
	return true
}

// Clear removes every stitch, keeping layers.
func (s *Session) Clear() {
	s.mutate("clear", func(d *design.Design) {
		d.Stitches = d.Stitches[:0]
	})
}

// ApplyStyle rewrites color, thickness and opacity on the named stitches,
// or on every stitch when ids is empty.
func (s *Session) ApplyStyle(st design.Style, ids ...string) {
	match := func(string) bool { return true }
	if len(ids) > 0 {
		set := make(map[string]bool, len(ids))
		for _, id := range ids {
			set[id] = true
		}
		match = func(id string) bool { return set[id] }
	}
	s.mutate("restyle", func(d *design.Design) {
		for i := range d.Stitches {
			if !match(d.Stitches[i].ID) {
				continue
			}
			if st.Color != "" {
				d.Stitches[i].Color = st.Color
			}
			if finitePositive(st.Thickness) {
				d.Stitches[i].Thickness = st.Thickness
			}
			if st.Opacity > 0 && st.Opacity <= 1 {
				d.Stitches[i].Opacity = st.Opacity
			}
		}
	})
}

// ApplyOptimize reorders the stitch list to shorten thread jumps.
func (s *Session) ApplyOptimize() {
	s.mutate("optimize", func(d *design.Design) {
		d.Stitches = optimizer.Optimize(d.Stitches)
	})
}

// GenerateRealistic synthesizes a stitch batch from abstract geometry and
// appends it to the design.
func (s *Session) GenerateRealistic(typ design.StitchType, g stitch.Geometry, m stitch.Material, l stitch.Lighting, sp stitch.ShapeProperties) int {
	batch := stitch.GenerateRealistic(typ, g, m, l, sp, s.style, s.newID)
	if len(batch) == 0 {
		return 0
	}
	layer := s.design.ActiveLayer
	for i := range batch {
		batch[i].Layer = layer
	}
	s.mutate("generate "+string(typ), func(d *design.Design) {
		d.Stitches = append(d.Stitches, batch...)
	})
	return len(batch)
}

// Import replaces the stitch list with an externally supplied one, the
// inbound half of the serialization boundary.
func (s *Session) Import(stitches []design.Stitch) {
	s.mutate("import", func(d *design.Design) {
		d.Stitches = make([]design.Stitch, len(stitches))
		for i, st := range stitches {
			d.Stitches[i] = st.Clone()
			if d.Stitches[i].ID == "" {
				d.Stitches[i].ID = s.newID()
			}
		}
	})
}

// AddLayer appends a new visible layer and makes it active.
func (s *Session) AddLayer(name string) string {
	id := s.layerID()
	s.mutate("add layer", func(d *design.Design) {
		d.Layers = append(d.Layers, design.Layer{ID: id, Name: name, Visible: true})
		d.ActiveLayer = len(d.Layers) - 1
	})
	return id
}

// RemoveLayer deletes the layer at idx along with its stitches. The last
// remaining layer cannot be removed.
func (s *Session) RemoveLayer(idx int) bool {
	if idx < 0 || idx >= len(s.design.Layers) || len(s.design.Layers) == 1 {
		return false
	}
	s.mutate("remove layer", func(d *design.Design) {
		d.Layers = append(d.Layers[:idx], d.Layers[idx+1:]...)
		kept := d.Stitches[:0]
		for _, st := range d.Stitches {
			switch {
			case st.Layer == idx:
				continue
			case st.Layer > idx:
				st.Layer--
			}
			kept = append(kept, st)
		}
		d.Stitches = kept
		if d.ActiveLayer >= len(d.Layers) {
			d.ActiveLayer = len(d.Layers) - 1
		}
	})
	return true
}

// RenameLayer sets the layer's display name.
func (s *Session) RenameLayer(idx int, name string) bool {
	if idx < 0 || idx >= len(s.design.Layers) {
		return false
	}
	s.mutate("rename layer", func(d *design.Design) {
		d.Layers[idx].Name = name
	})
	return true
}

// ToggleLayer flips the layer's visibility.
func (s *Session) ToggleLayer(idx int) bool {
	if idx < 0 || idx >= len(s.design.Layers) {
		return false
	}
	s.mutate("toggle layer", func(d *design.Design) {
		d.Layers[idx].Visible = !d.Layers[idx].Visible
	})
	return true
}

// SetActiveLayer selects the layer new stitches land on.
func (s *Session) SetActiveLayer(idx int) bool {
	if idx < 0 || idx >= len(s.design.Layers) {
		return false
	}
	s.mutate("select layer", func(d *design.Design) {
		d.ActiveLayer = idx
	})
	return true
}

// PollRender reports whether a render pass should run now. Mutations mark
// the design dirty; passes are spaced at least RenderDebounce apart and a
// burst of mutations collapses into one pass over the latest state.
func (s *Session) PollRender() bool {
	if !s.dirty {
		return false
	}
	now := s.clock()
	if now.Sub(s.lastRender) < RenderDebounce {
		return false
	}
	s.dirty = false
	s.lastRender = now
	return true
}

// mutate snapshots the pre-mutation state, applies fn and schedules a render.
func (s *Session) mutate(label string, fn func(*design.Design)) {
	s.history.Record(s.design, label, s.clock())
	fn(s.design)
	s.invalidate()
}

func (s *Session) invalidate() {
	s.dirty = true
}

func finitePositive(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
