package live

import (
	"encoding/json"
	"errors"
	"fmt"
)

var errBadPayload = errors.New("malformed payload")

// apply dispatches a message onto the room's drawing session. It reports
// whether the committed design changed, which drives the sync broadcast.
// Pointer start/move only touch the transient draft, so peers learn about
// in-progress strokes via presence, not sync.
func (r *Room) apply(msg *Message) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch msg.Type {
	case TypePointerStart:
		var p PointerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		if p.Style != nil {
			r.session.SetStyle(*p.Style)
		}
		r.session.Start(p.Point)
		return false, nil

	case TypePointerMove:
		var p PointerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		r.session.Move(p.Point)
		return false, nil

	case TypePointerEnd:
		r.session.End()
		return true, nil

	case TypeDesignUndo:
		return r.session.Undo(), nil

	case TypeDesignRedo:
		return r.session.Redo(), nil

	case TypeDesignClear:
		r.session.Clear()
		return true, nil

	case TypeDesignOptimize:
		r.session.ApplyOptimize()
		return true, nil

	case TypeDesignRestyle:
		var p RestylePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		r.session.ApplyStyle(p.Style, p.IDs...)
		return true, nil

	case TypeDesignGenerate:
		var p GeneratePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		n := r.session.GenerateRealistic(p.Type, p.Geometry, p.Material, p.Lighting, p.Shape)
		return n > 0, nil

	case TypeDesignImport:
		var p ImportPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		r.session.Import(p.Stitches)
		return true, nil

	case TypeLayerAdd:
		var p LayerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		r.session.AddLayer(p.Name)
		return true, nil

	case TypeLayerRemove:
		var p LayerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		return r.session.RemoveLayer(p.Index), nil

	case TypeLayerRename:
		var p LayerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		return r.session.RenameLayer(p.Index, p.Name), nil

	case TypeLayerToggle:
		var p LayerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		return r.session.ToggleLayer(p.Index), nil

	case TypeLayerSelect:
		var p LayerPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return false, errBadPayload
		}
		return r.session.SetActiveLayer(p.Index), nil

	default:
		return false, fmt.Errorf("unknown message type %q", msg.Type)
	}
}
