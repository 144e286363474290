package notification

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/AizaAsim/CampusConnect/internal/metrics"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
	sendBuffer     = 256
)

var clientIDCounter atomic.Uint64

// Handler 处理一条上行控制消息，在该连接的读协程内串行调用
type Handler func(c *Client, in Inbound)

// Client 一条 websocket 连接；写协程独占 conn 的写端
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	log  *zap.Logger

	mu     sync.Mutex
	send   chan Message
	closed bool
}

func NewClient(hub *Hub, conn *websocket.Conn, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	id := clientIDCounter.Add(1)
	return &Client{
		hub:  hub,
		conn: conn,
		log:  log.With(zap.Uint64("client_id", id)),
		send: make(chan Message, sendBuffer),
	}
}

// Send 非阻塞入队；缓冲区满或连接已关闭时丢弃并返回 false
func (c *Client) Send(m Message) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- m:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// Start 启动读写协程；handle 处理所有上行消息
func (c *Client) Start(handle Handler) {
	c.hub.attach(c)
	metrics.WSConnections.Inc()
	go c.writePump()
	go c.readPump(handle)
}

func (c *Client) readPump(handle Handler) {
	defer func() {
		c.hub.Unregister(c)
		c.closeSend()
		_ = c.conn.Close()
		metrics.WSConnections.Dec()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		c.log.Error("set read deadline", zap.Error(err))
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure, websocket.CloseNormalClosure) {
				c.log.Warn("unexpected websocket close", zap.Error(err))
			}
			return
		}
		var in Inbound
		if err := json.Unmarshal(raw, &in); err != nil {
			c.Send(ErrorMessage("malformed message"))
			continue
		}
		handle(c, in)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				c.log.Error("set write deadline", zap.Error(err))
				return
			}
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(msg); err != nil {
				c.log.Warn("write websocket message", zap.Error(err))
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
