package main

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/golang/geo/r2"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn manages a single WebSocket viewer session
type Conn struct {
	ID     string
	Name   string
	ws     *websocket.Conn
	mu     sync.Mutex // protects ws writes
	closed bool
}

// NewConn creates a new connection wrapper
func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ID: uuid.New().String(),
		ws: ws,
	}
}

// Send serializes msg to JSON and writes it to the WebSocket
func (c *Conn) Send(msg any) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return c.SendRaw(data)
}

// SendRaw writes an already encoded message
func (c *Conn) SendRaw(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

// Close marks connection closed
func (c *Conn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.ws.Close()
}

// ConnManager manages all active connections
type ConnManager struct {
	mu    sync.RWMutex
	conns map[string]*Conn
}

// NewConnManager creates an empty connection manager
func NewConnManager() *ConnManager {
	return &ConnManager{conns: make(map[string]*Conn)}
}

// Add registers a connection
func (m *ConnManager) Add(c *Conn) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conns[c.ID] = c
}

// Remove unregisters a connection
func (m *ConnManager) Remove(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conns, id)
}

// Count returns the number of active connections
func (m *ConnManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.conns)
}

// Snapshot returns a copy of all current connections
func (m *ConnManager) Snapshot() []*Conn {
	m.mu.RLock()
	defer m.mu.RUnlock()
	list := make([]*Conn, 0, len(m.conns))
	for _, c := range m.conns {
		list = append(list, c)
	}
	return list
}

// cleanName trims a viewer-chosen name, falling back to "Viewer"
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if r := []rune(name); len(r) > MaxNameLength {
		name = string(r[:MaxNameLength])
	}
	if name == "" {
		return "Viewer"
	}
	return name
}

// ReadLoop handles incoming messages for a connection until it disconnects.
//
//	"j" = spawn (or respawn) the viewer's snake
//	"g" = set the viewer's snake destination
//
// onJoin is called when a join message is received, onGoal for a goal.
// onDisconnect is called when the connection closes.
func (c *Conn) ReadLoop(
	onJoin func(conn *Conn, name string),
	onGoal func(conn *Conn, p r2.Point),
	onDisconnect func(conn *Conn),
) {
	defer func() {
		onDisconnect(c)
		c.Close()
	}()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				Logger.Warn().Err(err).Str("viewer", c.ID).Msg("ws read error")
			}
			return
		}

		var msg ClientMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			Logger.Warn().Err(err).Str("viewer", c.ID).Msg("bad message")
			continue
		}

		switch msg.Type {
		case MsgJoin:
			c.Name = cleanName(msg.Name)
			onJoin(c, c.Name)
		case MsgGoal:
			onGoal(c, r2.Point{X: msg.X, Y: msg.Y})
		default:
			Logger.Debug().Str("viewer", c.ID).Str("type", msg.Type).Msg("unknown message type")
		}
	}
}
