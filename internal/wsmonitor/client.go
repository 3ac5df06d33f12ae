package wsmonitor

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 64
)

// Client represents one authenticated WebSocket connection subscribed to
// some subset of the plan's dispatch events.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan *Event

	id     string
	userID string
	subs   map[uint16]bool
}

// NewClient wraps an accepted connection. Call ReadPump and WritePump each
// in their own goroutine.
func NewClient(id, userID string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		hub:    hub,
		conn:   conn,
		send:   make(chan *Event, sendBufferSize),
		id:     id,
		userID: userID,
		subs:   make(map[uint16]bool),
	}
}

// ReadPump pumps subscribe/unsubscribe commands from the connection to the
// hub until the connection closes.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			break
		}

		var cmd Command
		if err := json.Unmarshal(message, &cmd); err != nil {
			c.sendResponse(newErrorResponse("error", "invalid command format"))
			continue
		}
		c.handleCommand(&cmd)
	}
}

// WritePump pumps broadcast events from the hub to the connection, with a
// periodic ping, until the send channel closes.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(ev); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleCommand(cmd *Command) {
	switch cmd.Action {
	case CmdSubscribe:
		c.hub.Subscribe(c, cmd.ElementID)
		c.sendResponse(newSuccessResponse(CmdSubscribe, "subscribed"))
	case CmdUnsubscribe:
		c.hub.Unsubscribe(c, cmd.ElementID)
		c.sendResponse(newSuccessResponse(CmdUnsubscribe, "unsubscribed"))
	default:
		c.sendResponse(newErrorResponse("error", "unknown command: "+cmd.Action))
	}
}

func (c *Client) sendResponse(resp *Response) {
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	c.conn.WriteJSON(resp)
}
