package live

import (
	"log/slog"
	"net/http"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/closset/closset/engine-go/internal/auth"
	"github.com/closset/closset/engine-go/internal/store"
)

// playgroundDesignID is the shared scratch surface: anonymous access, never
// persisted past the room's lifetime.
const playgroundDesignID = "dsgn_playground"

// Handler upgrades studio connections and hands them to the hub.
type Handler struct {
	hub            *Hub
	authSvc        *auth.Service
	store          *store.Store
	originPatterns []string
}

func NewHandler(hub *Hub, authSvc *auth.Service, st *store.Store, originPatterns []string) *Handler {
	return &Handler{
		hub:            hub,
		authSvc:        authSvc,
		store:          st,
		originPatterns: originPatterns,
	}
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	designID := mux.Vars(r)["designId"]

	var userID, displayName string
	if designID == playgroundDesignID {
		userID = "anon-" + uuid.New().String()[:8]
		displayName = "Anonymous"
	} else {
		// Browsers cannot set headers on WebSocket dials, so the token
		// rides a query parameter.
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		var err error
		userID, err = h.authSvc.ValidateToken(token)
		if err != nil {
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		if _, err := h.store.GetMember(r.Context(), designID, userID); err != nil {
			http.Error(w, "not a design member", http.StatusForbidden)
			return
		}

		user, err := h.authSvc.GetUser(r.Context(), userID)
		if err != nil {
			http.Error(w, "user not found", http.StatusInternalServerError)
			return
		}
		displayName = user.DisplayName
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		slog.Error("websocket accept", "error", err)
		return
	}

	client := NewClient(h.hub, conn, userID, displayName, designID, uuid.New().String())
	h.hub.Register(client)

	ctx := r.Context()
	go client.WritePump(ctx)
	client.ReadPump(ctx)
}
