package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
)

const (
	writeWait  = 10 * time.Second
	pingPeriod = 30 * time.Second
	maxMsgSize = 256 * 1024
	sendBuffer = 256

	// A client producing this many undecodable frames in a row is hung up
	// on rather than logged forever.
	maxBadFrames = 8
)

// Client is one websocket connection bound to a room. Inbound frames are
// decoded, stamped with the connection's identity and handed to the hub.
// Outbound messages drain a bounded queue; a consumer that falls behind
// sheds messages instead of stalling the room.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte
	log     *slog.Logger
	dropped atomic.Uint64

	UserID      string
	DisplayName string
	DesignID    string
	ClientID    string
}

func NewClient(hub *Hub, conn *websocket.Conn, userID, displayName, designID, clientID string) *Client {
	return &Client{
		hub:         hub,
		conn:        conn,
		send:        make(chan []byte, sendBuffer),
		log:         slog.With("user", userID, "design", designID),
		UserID:      userID,
		DisplayName: displayName,
		DesignID:    designID,
		ClientID:    clientID,
	}
}

// ReadPump consumes the connection until it closes, unregistering the client
// on the way out. Run it on the request goroutine.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	c.conn.SetReadLimit(maxMsgSize)

	badFrames := 0
	for {
		_, data, err := c.conn.Read(ctx)
		if err != nil {
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			default:
				c.log.Debug("read error", "error", err)
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			badFrames++
			c.log.Warn("undecodable frame", "error", err, "count", badFrames)
			if badFrames >= maxBadFrames {
				c.conn.Close(websocket.StatusPolicyViolation, "too many undecodable frames")
				return
			}
			continue
		}
		badFrames = 0

		msg.UserID = c.UserID
		msg.ClientID = c.ClientID
		msg.DesignID = c.DesignID
		c.hub.handleMessage(c, &msg)
	}
}

// WritePump drains the send queue onto the connection and keeps it alive
// with periodic pings. Run it on its own goroutine.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close(websocket.StatusNormalClosure, "")
	}()

	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return
			}
			if err := c.write(ctx, data); err != nil {
				c.log.Debug("write error", "error", err)
				return
			}

		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, writeWait)
			err := c.conn.Ping(pingCtx)
			cancel()
			if err != nil {
				return
			}

		case <-ctx.Done():
			return
		}
	}
}

func (c *Client) write(ctx context.Context, data []byte) error {
	writeCtx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return c.conn.Write(writeCtx, websocket.MessageText, data)
}

// Send queues msg for delivery, dropping it when the client's buffer is
// full. Drops are counted so the log shows how far behind a consumer fell.
func (c *Client) Send(msg *Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.log.Error("marshal message", "error", err)
		return
	}

	select {
	case c.send <- data:
	default:
		c.log.Warn("send buffer full, dropping message", "dropped", c.dropped.Add(1))
	}
}
