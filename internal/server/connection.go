package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/edgecount/edgecount/internal/session"
	"github.com/edgecount/edgecount/protocol"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection wraps one WebSocket client. Requests are handled on the read
// pump; responses queue through the send channel so the write pump is the
// only goroutine touching the socket for writes.
type Connection struct {
	conn      *websocket.Conn
	send      chan *protocol.Response
	manager   *session.Manager
	metrics   *Metrics
	log       zerolog.Logger
	closeOnce sync.Once
	done      chan struct{}
}

// NewConnection wraps an upgraded socket.
func NewConnection(conn *websocket.Conn, manager *session.Manager, metrics *Metrics, logger zerolog.Logger) *Connection {
	return &Connection{
		conn:    conn,
		send:    make(chan *protocol.Response, 64),
		manager: manager,
		metrics: metrics,
		log:     logger.With().Str("remote", conn.RemoteAddr().String()).Logger(),
		done:    make(chan struct{}),
	}
}

// Start runs the pumps. Returns when the connection dies.
func (c *Connection) Start() {
	go c.writePump()
	c.readPump()
}

// Close tears the connection down once.
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)
		err = c.conn.Close()
	})
	return err
}

func (c *Connection) enqueue(resp *protocol.Response) {
	select {
	case c.send <- resp:
	case <-c.done:
	default:
		c.log.Warn().Msg("send buffer full, dropping connection")
		_ = c.Close()
	}
}

func (c *Connection) readPump() {
	defer func() { _ = c.Close() }()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Debug().Err(err).Msg("websocket read failed")
			}
			return
		}

		var req protocol.Request
		if err := json.Unmarshal(data, &req); err != nil {
			// A malformed frame is the client's problem, not the connection's
			c.enqueue(&protocol.Response{
				Error: &protocol.ErrorInfo{Code: protocol.ErrBadInput.Code, Message: "malformed request: " + err.Error()},
			})
			continue
		}

		resp := c.manager.Handle(&req)
		c.record(&req, resp)
		c.enqueue(resp)
	}
}

func (c *Connection) record(req *protocol.Request, resp *protocol.Response) {
	code := okCode
	if resp.Error != nil {
		code = resp.Error.Code
	}
	c.metrics.Requests.WithLabelValues(string(req.Op), code).Inc()

	if !resp.OK {
		return
	}
	switch req.Op {
	case protocol.OpDeal:
		c.metrics.HandsDealt.Inc()
	case protocol.OpAction, protocol.OpQueryDecision:
		c.metrics.DecisionsServed.Inc()
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.Close()
	}()

	for {
		select {
		case resp := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(resp); err != nil {
				c.log.Debug().Err(err).Msg("websocket write failed")
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.done:
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		}
	}
}
