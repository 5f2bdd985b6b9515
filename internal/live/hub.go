package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/closset/closset/engine-go/internal/design"
	"github.com/closset/closset/engine-go/internal/session"
	"github.com/closset/closset/engine-go/internal/typeid"
)

// Room is one shared design surface: its clients and the authoritative
// drawing session their pointer events drive. Session access is serialized
// by mu, keeping the session's single-threaded contract intact.
type Room struct {
	designID string
	clients  map[string]*Client // clientID -> client
	presence *PresenceManager

	mu      sync.Mutex
	session *session.Session
}

func (r *Room) snapshot() *SyncPayload {
	r.mu.Lock()
	defer r.mu.Unlock()
	return &SyncPayload{
		Design:  r.session.Design().Clone(),
		CanUndo: r.session.CanUndo(),
		CanRedo: r.session.CanRedo(),
	}
}

// LoadDesign fetches the persisted stitch document for a design id, used to
// seed a fresh room. A nil loader starts rooms empty.
type LoadDesign func(ctx context.Context, designID string) (*design.Design, error)

// SaveDesign persists a room's stitch document, called when the last client
// leaves and on shutdown.
type SaveDesign func(ctx context.Context, designID string, d *design.Design) error

type Options struct {
	HistoryLimit int
	LoadDesign   LoadDesign
	SaveDesign   SaveDesign
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // designID -> room
	register   chan *Client
	unregister chan *Client
	opts       Options
}

func NewHub(opts Options) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		opts:       opts,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) newRoom(designID string) *Room {
	room := &Room{
		designID: designID,
		clients:  make(map[string]*Client),
		presence: NewPresenceManager(),
		session:  session.New(slog.Default(), session.Options{HistoryLimit: h.opts.HistoryLimit}),
	}
	if designID == playgroundDesignID {
		sample := design.NewSample(typeid.NewLayerID(), typeid.NewStitchID)
		room.session.Import(sample.Stitches)
		return room
	}
	if h.opts.LoadDesign != nil {
		d, err := h.opts.LoadDesign(context.Background(), designID)
		if err != nil {
			slog.Warn("load design for room failed", "design", designID, "error", err)
		} else if d != nil {
			room.session.Import(d.Stitches)
		}
	}
	return room
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DesignID]
	if !ok {
		room = h.newRoom(client.DesignID)
		h.rooms[client.DesignID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	// Welcome the client with its id and the current document.
	welcomePayload, _ := json.Marshal(WelcomePayload{
		ClientID: client.ClientID,
		Design:   room.snapshot().Design,
	})
	client.Send(&Message{Type: TypeWelcome, Payload: welcomePayload})

	if stateMsg := room.presence.StateMessage(); stateMsg != nil {
		client.Send(stateMsg)
	}

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	h.broadcastToRoom(client.DesignID, &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "design", client.DesignID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DesignID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.UserID)

	var emptied bool
	if len(room.clients) == 0 {
		delete(h.rooms, client.DesignID)
		emptied = true
	}
	h.mu.Unlock()

	if emptied {
		h.saveRoom(room)
	}

	leavePayload, _ := json.Marshal(PresenceLeavePayload{
		UserID: client.UserID,
	})
	h.broadcastToRoom(client.DesignID, &Message{
		Type:    TypePresenceLeave,
		UserID:  client.UserID,
		Payload: leavePayload,
	}, "")

	slog.Info("client left", "user", client.UserID, "design", client.DesignID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	if msg.Type == TypePresenceUpdate {
		h.handlePresenceUpdate(sender, msg)
		return
	}

	h.mu.RLock()
	room, ok := h.rooms[sender.DesignID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	mutated, err := room.apply(msg)
	if err != nil {
		payload, _ := json.Marshal(ErrorPayload{Reason: err.Error()})
		sender.Send(&Message{Type: TypeError, Payload: payload})
		return
	}
	if !mutated {
		return
	}

	syncPayload, _ := json.Marshal(room.snapshot())
	h.broadcastToRoom(sender.DesignID, &Message{
		Type:    TypeDesignSync,
		Payload: syncPayload,
	}, "")
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	h.mu.RLock()
	room, ok := h.rooms[sender.DesignID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	// Broadcast what was stored, not what arrived: Update drops a draft that
	// outlived its stroke.
	stored := room.presence.Update(sender.UserID, presence)

	outPayload, _ := json.Marshal(stored)
	h.broadcastToRoom(sender.DesignID, &Message{
		Type:    TypePresenceUpdate,
		UserID:  sender.UserID,
		Payload: outPayload,
	}, sender.ClientID)
}

// Stop persists every open room's document. Call it before server shutdown.
func (h *Hub) Stop() {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for _, room := range h.rooms {
		rooms = append(rooms, room)
	}
	h.rooms = make(map[string]*Room)
	h.mu.Unlock()

	for _, room := range rooms {
		h.saveRoom(room)
	}
}

func (h *Hub) saveRoom(room *Room) {
	if h.opts.SaveDesign == nil || room.designID == playgroundDesignID {
		return
	}
	snap := room.snapshot()
	if err := h.opts.SaveDesign(context.Background(), room.designID, snap.Design); err != nil {
		slog.Error("save design failed", "design", room.designID, "error", err)
		return
	}
	slog.Info("design saved", "design", room.designID, "stitches", len(snap.Design.Stitches))
}

func (h *Hub) broadcastToRoom(designID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[designID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}
