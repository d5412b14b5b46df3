package api

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/shridharbhandiwad/RSCU-Animation/internal/views"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"
)

// WebSocket message types
const (
	// Client -> Server messages
	MsgTypePing        = "ping"
	MsgTypeSubscribe   = "subscribe"
	MsgTypeSystemStart = "system:start"
	MsgTypeSystemStop  = "system:stop"
	MsgTypeViewSet     = "view:set"

	// Server -> Client messages
	MsgTypeConnected = "connected"
	MsgTypePong      = "pong"
	MsgTypeAck       = "ack"
	MsgTypeError     = "error"
)

// Broadcast topics
const (
	TopicReadouts = "readouts"
	TopicFrame2D  = "frame2d"
	TopicFrame3D  = "frame3d"
	TopicState    = "state"
)

// AllTopics is what a new client receives until it subscribes.
var AllTopics = []string{TopicReadouts, TopicFrame2D, TopicFrame3D, TopicState}

const (
	formatJSON    = "json"
	formatMsgpack = "msgpack"

	clientSendBuffer = 64
	writeWait        = 5 * time.Second
	pingPeriod       = 30 * time.Second
)

// WebSocket message structure
type WSMessage struct {
	Type      string          `json:"type"`
	ID        string          `json:"id,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp int64           `json:"timestamp"`
}

// binaryMessage is the msgpack form of WSMessage.
type binaryMessage struct {
	Type      string      `msgpack:"type"`
	ID        string      `msgpack:"id,omitempty"`
	Payload   interface{} `msgpack:"payload,omitempty"`
	Timestamp int64       `msgpack:"timestamp"`
}

// Subscribe payload
type SubscribePayload struct {
	Topics []string `json:"topics"`
}

// View payload
type ViewPayload struct {
	Mode string `json:"mode"`
}

// WebSocket error response
type WSErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// ClientObserver is told when clients come and go (metrics.Metrics).
type ClientObserver interface {
	ClientConnected()
	ClientDisconnected()
}

type wsClient struct {
	id     string
	format string
	send   chan []byte

	mu     sync.Mutex
	topics map[string]bool
	closed bool
}

func (cl *wsClient) wants(topic string) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.topics[topic]
}

func (cl *wsClient) setTopics(topics []string) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.topics = make(map[string]bool, len(topics))
	for _, t := range topics {
		cl.topics[t] = true
	}
}

// offer queues data without blocking; a full buffer drops the message.
func (cl *wsClient) offer(data []byte) bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.closed {
		return false
	}
	select {
	case cl.send <- data:
		return true
	default:
		return false
	}
}

func (cl *wsClient) close() {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if !cl.closed {
		cl.closed = true
		close(cl.send)
	}
}

// Hub fans broadcasts out to connected clients. Slow clients miss
// messages instead of stalling the animation clocks.
type Hub struct {
	mu       sync.RWMutex
	clients  map[string]*wsClient
	observer ClientObserver
	logger   *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger, observer ClientObserver) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:  make(map[string]*wsClient),
		observer: observer,
		logger:   logger.Named("ws"),
	}
}

func (h *Hub) register(format string) *wsClient {
	cl := &wsClient{
		id:     uuid.New().String(),
		format: format,
		send:   make(chan []byte, clientSendBuffer),
	}
	cl.setTopics(AllTopics)

	h.mu.Lock()
	h.clients[cl.id] = cl
	n := len(h.clients)
	h.mu.Unlock()

	if h.observer != nil {
		h.observer.ClientConnected()
	}
	h.logger.Info("client connected", zap.String("client", cl.id), zap.String("format", format), zap.Int("clients", n))
	return cl
}

func (h *Hub) unregister(cl *wsClient) {
	h.mu.Lock()
	_, ok := h.clients[cl.id]
	delete(h.clients, cl.id)
	h.mu.Unlock()
	if !ok {
		return
	}
	cl.close()
	if h.observer != nil {
		h.observer.ClientDisconnected()
	}
	h.logger.Info("client disconnected", zap.String("client", cl.id))
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast sends v under topic to every subscribed client and reports how
// many accepted it.
func (h *Hub) Broadcast(topic string, v interface{}) int {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()

	encoded := make(map[string][]byte, 2)
	delivered := 0
	for _, cl := range clients {
		if !cl.wants(topic) {
			continue
		}
		data, ok := encoded[cl.format]
		if !ok {
			var err error
			data, err = encode(cl.format, topic, "", v)
			if err != nil {
				h.logger.Warn("encode broadcast", zap.String("topic", topic), zap.Error(err))
				return delivered
			}
			encoded[cl.format] = data
		}
		if cl.offer(data) {
			delivered++
		} else {
			h.logger.Debug("message dropped", zap.String("client", cl.id), zap.String("topic", topic))
		}
	}
	return delivered
}

// Close disconnects every client.
func (h *Hub) Close() {
	h.mu.RLock()
	clients := make([]*wsClient, 0, len(h.clients))
	for _, cl := range h.clients {
		clients = append(clients, cl)
	}
	h.mu.RUnlock()
	for _, cl := range clients {
		h.unregister(cl)
	}
}

func encode(format, msgType, id string, v interface{}) ([]byte, error) {
	now := time.Now().UnixMilli()
	if format == formatMsgpack {
		return msgpack.Marshal(binaryMessage{Type: msgType, ID: id, Payload: v, Timestamp: now})
	}
	msg := WSMessage{Type: msgType, ID: id, Timestamp: now}
	if v != nil {
		msg.Payload = mustJSON(v)
	}
	return json.Marshal(msg)
}

// StreamHandlerImpl implements the StreamHandler interface
type StreamHandlerImpl struct {
	hub       *Hub
	views     ViewController
	upgrader  websocket.Upgrader
	readLimit int64
	logger    *zap.Logger
}

// NewStreamHandler creates a new WebSocket stream handler. Client frames
// larger than readLimit bytes close the connection; readLimit <= 0 means
// no limit.
func NewStreamHandler(hub *Hub, vc ViewController, readLimit int64, logger *zap.Logger) StreamHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamHandlerImpl{
		hub:       hub,
		views:     vc,
		readLimit: readLimit,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Allow connections from dev server
				return true
			},
			ReadBufferSize:  64 * 1024,
			WriteBufferSize: 64 * 1024,
		},
		logger: logger.Named("ws"),
	}
}

// HandleWebSocket upgrades the connection and streams broadcasts until the
// client goes away. ?format=msgpack switches to binary frames.
func (sh *StreamHandlerImpl) HandleWebSocket(c echo.Context) error {
	format := formatJSON
	if c.QueryParam("format") == formatMsgpack {
		format = formatMsgpack
	}

	ws, err := sh.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer ws.Close()
	if sh.readLimit > 0 {
		ws.SetReadLimit(sh.readLimit)
	}

	cl := sh.hub.register(format)
	defer sh.hub.unregister(cl)

	done := make(chan struct{})
	go sh.writeLoop(ws, cl, done)
	defer func() { <-done }()

	sh.reply(cl, MsgTypeConnected, "", map[string]interface{}{
		"clientId": cl.id,
		"topics":   AllTopics,
	})

	// Main message loop
	for {
		var msg WSMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sh.logger.Warn("connection error", zap.String("client", cl.id), zap.Error(err))
			}
			break
		}
		sh.handleMessage(cl, msg)
	}

	sh.hub.unregister(cl)
	return nil
}

func (sh *StreamHandlerImpl) handleMessage(cl *wsClient, msg WSMessage) {
	switch msg.Type {
	case MsgTypePing:
		sh.reply(cl, MsgTypePong, msg.ID, nil)
	case MsgTypeSubscribe:
		var p SubscribePayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			sh.sendError(cl, msg.ID, "Invalid subscribe payload: "+err.Error(), "INVALID_PAYLOAD")
			return
		}
		cl.setTopics(p.Topics)
		sh.reply(cl, MsgTypeAck, msg.ID, p)
	case MsgTypeSystemStart:
		sh.views.Start()
		sh.reply(cl, MsgTypeAck, msg.ID, sh.views.Status())
	case MsgTypeSystemStop:
		sh.views.Stop()
		sh.reply(cl, MsgTypeAck, msg.ID, sh.views.Status())
	case MsgTypeViewSet:
		var p ViewPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			sh.sendError(cl, msg.ID, "Invalid view payload: "+err.Error(), "INVALID_PAYLOAD")
			return
		}
		mode, err := views.ParseMode(p.Mode)
		if err == nil {
			err = sh.views.SwitchTo(mode)
		}
		if err != nil {
			sh.sendError(cl, msg.ID, err.Error(), "INVALID_MODE")
			return
		}
		sh.reply(cl, MsgTypeAck, msg.ID, sh.views.Status())
	default:
		sh.sendError(cl, msg.ID, "Unknown message type: "+msg.Type, "INVALID_TYPE")
	}
}

// writeLoop is the only writer of ws.
func (sh *StreamHandlerImpl) writeLoop(ws *websocket.Conn, cl *wsClient, done chan struct{}) {
	defer close(done)
	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	msgType := websocket.TextMessage
	if cl.format == formatMsgpack {
		msgType = websocket.BinaryMessage
	}

	for {
		select {
		case data, ok := <-cl.send:
			if !ok {
				ws.WriteControl(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
				return
			}
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(msgType, data); err != nil {
				sh.logger.Debug("write failed", zap.String("client", cl.id), zap.Error(err))
				ws.Close()
				return
			}
		case <-ping.C:
			if err := ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				ws.Close()
				return
			}
		}
	}
}

func (sh *StreamHandlerImpl) reply(cl *wsClient, msgType, id string, v interface{}) {
	data, err := encode(cl.format, msgType, id, v)
	if err != nil {
		sh.logger.Warn("failed to encode reply", zap.Error(err))
		return
	}
	cl.offer(data)
}

func (sh *StreamHandlerImpl) sendError(cl *wsClient, id, message, code string) {
	sh.reply(cl, MsgTypeError, id, WSErrorResponse{Message: message, Code: code})
}

func mustJSON(v interface{}) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return []byte("{}")
	}
	return data
}
