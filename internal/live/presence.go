package live

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/closset/closset/engine-go/internal/geom"
)

// PresenceManager tracks each user's ephemeral editor state in a room:
// cursor position, drawing flag and the in-flight draft points peers ghost
// before the stroke commits. Committed geometry travels via design.sync,
// never through presence, and presence dies with the room.
type PresenceManager struct {
	mu      sync.RWMutex
	entries map[string]PresencePayload // userID -> latest update
}

func NewPresenceManager() *PresenceManager {
	return &PresenceManager{
		entries: make(map[string]PresencePayload),
	}
}

// Update stores a user's latest presence and returns the value to broadcast.
// A draft only survives while the user is drawing, and an update without a
// display name keeps the previous one. The stored draft is detached from the
// caller's slice.
func (pm *PresenceManager) Update(userID string, p PresencePayload) PresencePayload {
	if !p.Drawing {
		p.Draft = nil
	}
	p.Draft = append([]geom.Point(nil), p.Draft...)

	pm.mu.Lock()
	defer pm.mu.Unlock()
	if p.DisplayName == "" {
		p.DisplayName = pm.entries[userID].DisplayName
	}
	pm.entries[userID] = p
	return p
}

// Remove forgets a user, typically when their last connection drops.
func (pm *PresenceManager) Remove(userID string) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	delete(pm.entries, userID)
}

// GetAll returns a copy of every user's latest presence.
func (pm *PresenceManager) GetAll() map[string]PresencePayload {
	pm.mu.RLock()
	defer pm.mu.RUnlock()

	result := make(map[string]PresencePayload, len(pm.entries))
	for userID, p := range pm.entries {
		result[userID] = p
	}
	return result
}

// StateMessage packs the whole room's presence for a newly joined client.
// Returns nil when there is nobody to report.
func (pm *PresenceManager) StateMessage() *Message {
	all := pm.GetAll()
	if len(all) == 0 {
		return nil
	}
	payload, err := json.Marshal(PresenceStatePayload{Presences: all})
	if err != nil {
		slog.Error("marshal presence state", "error", err)
		return nil
	}
	return &Message{
		Type:    TypePresenceState,
		Payload: payload,
	}
}
