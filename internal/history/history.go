// Package history keeps the undo/redo snapshot stacks for a design.
package history

import (
	"time"

	"github.com/closset/closset/engine-go/internal/design"
)

// Entry is one immutable snapshot of the full design state, captured before
// a mutating operation.
type Entry struct {
	Design *design.Design `json:"design"`
	Label  string         `json:"label"`
	At     time.Time      `json:"at"`
}

// Stack holds linear undo and redo history. A limit of zero leaves both
// stacks unbounded; a positive limit drops the oldest undo entries once
// exceeded.
type Stack struct {
	undo  []Entry
	redo  []Entry
	limit int
}

func New(limit int) *Stack {
	return &Stack{limit: limit}
}

// Record pushes a snapshot of the pre-mutation state onto the undo stack and
// clears the redo stack. Call it before applying any mutation.
func (s *Stack) Record(d *design.Design, label string, at time.Time) {
	s.undo = append(s.undo, Entry{Design: d.Clone(), Label: label, At: at})
	if s.limit > 0 && len(s.undo) > s.limit {
		s.undo = s.undo[len(s.undo)-s.limit:]
	}
	s.redo = nil
}

// Undo pops the most recent snapshot, parks the current state on the redo
// stack and returns the restored state. With an empty undo stack it reports
// false and returns current unchanged.
func (s *Stack) Undo(current *design.Design, at time.Time) (*design.Design, bool) {
	if len(s.undo) == 0 {
		return current, false
	}
	top := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, Entry{Design: current.Clone(), Label: top.Label, At: at})
	return top.Design.Clone(), true
}

// Redo is the symmetric inverse of Undo.
func (s *Stack) Redo(current *design.Design, at time.Time) (*design.Design, bool) {
	if len(s.redo) == 0 {
		return current, false
	}
	top := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, Entry{Design: current.Clone(), Label: top.Label, At: at})
	return top.Design.Clone(), true
}

func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

// Depth reports the undo and redo stack sizes.
func (s *Stack) Depth() (undo, redo int) {
	return len(s.undo), len(s.redo)
}

// Labels lists the undo stack labels oldest first, for history UIs.
func (s *Stack) Labels() []string {
	out := make([]string, len(s.undo))
	for i, e := range s.undo {
		out[i] = e.Label
	}
	return out
}
