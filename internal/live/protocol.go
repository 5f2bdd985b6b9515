package live

import (
	"encoding/json"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/geom"
	"github.com/closset/closset/engine-go/internal/stitch"
)

type Message struct {
	Type     string          `json:"type"`
	DesignID string          `json:"designId,omitempty"`
	ClientID string          `json:"clientId,omitempty"`
	UserID   string          `json:"userId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

const (
	TypeWelcome = "welcome"
	TypeError   = "error"

	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"

	// Pointer events drive the shared drawing session.
	TypePointerStart = "pointer.start"
	TypePointerMove  = "pointer.move"
	TypePointerEnd   = "pointer.end"

	TypeDesignUndo     = "design.undo"
	TypeDesignRedo     = "design.redo"
	TypeDesignClear    = "design.clear"
	TypeDesignOptimize = "design.optimize"
	TypeDesignRestyle  = "design.restyle"
	TypeDesignGenerate = "design.generate"
	TypeDesignImport   = "design.import"

	TypeLayerAdd    = "layer.add"
	TypeLayerRemove = "layer.remove"
	TypeLayerRename = "layer.rename"
	TypeLayerToggle = "layer.toggle"
	TypeLayerSelect = "layer.select"

	// The authoritative stitch document, broadcast after every mutation.
	TypeDesignSync = "design.sync"
)

type WelcomePayload struct {
	ClientID string         `json:"clientId"`
	Design   *design.Design `json:"design"`
}

type ErrorPayload struct {
	Reason string `json:"reason"`
}

type PointerPayload struct {
	Point geom.Point    `json:"point"`
	Style *design.Style `json:"style,omitempty"`
}

type RestylePayload struct {
	Style design.Style `json:"style"`
	IDs   []string     `json:"ids,omitempty"`
}

type GeneratePayload struct {
	Type     design.StitchType      `json:"type"`
	Geometry stitch.Geometry        `json:"geometry"`
	Material stitch.Material        `json:"material"`
	Lighting stitch.Lighting        `json:"lighting"`
	Shape    stitch.ShapeProperties `json:"shape"`
}

type ImportPayload struct {
	Stitches []design.Stitch `json:"stitches"`
}

type LayerPayload struct {
	Index int    `json:"index"`
	Name  string `json:"name,omitempty"`
}

type SyncPayload struct {
	Design  *design.Design `json:"design"`
	CanUndo bool           `json:"canUndo"`
	CanRedo bool           `json:"canRedo"`
}

// PresencePayload is one user's ephemeral editor state. Draft carries the
// points of an in-flight stroke so peers can ghost it before it commits; it
// is only meaningful while Drawing is set.
type PresencePayload struct {
	Cursor      *CursorPos   `json:"cursor,omitempty"`
	Drawing     bool         `json:"drawing,omitempty"`
	Draft       []geom.Point `json:"draft,omitempty"`
	DisplayName string       `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type PresenceStatePayload struct {
	Presences map[string]PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	UserID string `json:"userId"`
}
