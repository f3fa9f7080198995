// Package realtime maintains the single push connection to the platform's
// order hub. The hub speaks the SignalR JSON protocol over a raw WebSocket:
// 0x1e-terminated JSON records, invocation messages carrying the event name
// and arguments, and ping records in both directions.
package realtime

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Hub event names delivered by the platform.
const (
	EventNewOrder             = "NewOrder"
	EventOrderStatusUpdated   = "OrderStatusUpdated"
	EventCashPaymentRequested = "CashPaymentRequested"

	joinAdminGroup = "JoinAdminGroup"
)

const (
	recordSeparator = 0x1e

	msgTypeInvocation = 1
	msgTypePing       = 6
	msgTypeClose      = 7
)

const (
	initialBackoff = time.Second
	maxBackoff     = 30 * time.Second
	pingInterval   = 15 * time.Second
	writeWait      = 10 * time.Second
)

// Handler receives the raw JSON arguments of one hub invocation.
type Handler func(arguments []json.RawMessage)

// Hub is the realtime channel adapter. One Hub owns one logical connection
// for its whole lifetime; transport drops are retried with capped backoff and
// never surfaced to subscribers. Handlers are registered once on the adapter,
// so a reconnect cannot double-register them.
type Hub struct {
	url    string
	dialer *websocket.Dialer

	mu        sync.Mutex
	conn      *websocket.Conn
	handlers  map[string]map[int]Handler
	onConnect []func()
	nextID    int
	closed    bool
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewHub creates an adapter for the given ws:// or wss:// hub URL.
func NewHub(url string) *Hub {
	return &Hub{
		url:      url,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		handlers: make(map[string]map[int]Handler),
		done:     make(chan struct{}),
	}
}

// On registers a handler for a named hub event and returns its unsubscribe
// function. Registration is independent of connection state.
func (h *Hub) On(target string, fn Handler) func() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.handlers[target] == nil {
		h.handlers[target] = make(map[int]Handler)
	}
	id := h.nextID
	h.nextID++
	h.handlers[target][id] = fn
	return func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.handlers[target], id)
	}
}

// OnConnect registers a callback fired after every successful connect,
// after the admin group has been joined.
func (h *Hub) OnConnect(fn func()) {
	h.mu.Lock()
	h.onConnect = append(h.onConnect, fn)
	h.mu.Unlock()
}

// Start launches the connection loop.
func (h *Hub) Start() {
	h.wg.Add(1)
	go h.run()
}

// Close tears the connection down. No events are delivered after Close
// returns; in-flight reads are abandoned, not awaited.
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.done)
	conn := h.conn
	h.conn = nil
	h.mu.Unlock()

	if conn != nil {
		conn.Close()
	}
	h.wg.Wait()
}

func (h *Hub) isClosed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.closed
}

func (h *Hub) run() {
	defer h.wg.Done()

	backoff := initialBackoff
	for {
		if h.isClosed() {
			return
		}

		conn, err := h.connect()
		if err != nil {
			log.Printf("realtime: connect: %v", err)
			select {
			case <-h.done:
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = initialBackoff

		// Joining the admin group is idempotent; it is re-issued after
		// every reconnect.
		if err := h.invoke(conn, joinAdminGroup); err != nil {
			log.Printf("realtime: join admin group: %v", err)
		}

		h.mu.Lock()
		callbacks := append([]func(){}, h.onConnect...)
		h.mu.Unlock()
		for _, fn := range callbacks {
			fn()
		}

		stopPing := make(chan struct{})
		go h.pingLoop(conn, stopPing)
		h.readLoop(conn)
		close(stopPing)
		conn.Close()

		if h.isClosed() {
			return
		}
		log.Println("realtime: connection lost, reconnecting")
	}
}

// connect dials the hub and completes the protocol handshake. A previous
// connection, if any, is closed first so two connections never overlap.
func (h *Hub) connect() (*websocket.Conn, error) {
	h.mu.Lock()
	if prev := h.conn; prev != nil {
		prev.Close()
		h.conn = nil
	}
	h.mu.Unlock()

	conn, _, err := h.dialer.Dial(h.url, nil)
	if err != nil {
		return nil, err
	}

	handshake := append([]byte(`{"protocol":"json","version":1}`), recordSeparator)
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	if err := conn.WriteMessage(websocket.TextMessage, handshake); err != nil {
		conn.Close()
		return nil, err
	}

	// The server answers with a single record; an "error" field means the
	// protocol was rejected.
	conn.SetReadDeadline(time.Now().Add(writeWait))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		conn.Close()
		return nil, err
	}
	var resp struct {
		Error string `json:"error"`
	}
	if rec := trimRecord(raw); len(rec) > 0 {
		if err := json.Unmarshal(rec, &resp); err == nil && resp.Error != "" {
			conn.Close()
			return nil, &websocket.CloseError{Code: websocket.ClosePolicyViolation, Text: resp.Error}
		}
	}
	conn.SetReadDeadline(time.Time{})

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		conn.Close()
		return nil, websocket.ErrCloseSent
	}
	h.conn = conn
	h.mu.Unlock()
	return conn, nil
}

func (h *Hub) readLoop(conn *websocket.Conn) {
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && !h.isClosed() {
				log.Printf("realtime: read: %v", err)
			}
			return
		}
		for _, record := range splitRecords(raw) {
			if h.dispatch(conn, record) {
				return
			}
		}
	}
}

// dispatch handles one protocol record; it reports true when the server
// asked to close.
func (h *Hub) dispatch(conn *websocket.Conn, record []byte) (closed bool) {
	var envelope struct {
		Type      int               `json:"type"`
		Target    string            `json:"target"`
		Arguments []json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal(record, &envelope); err != nil {
		log.Printf("realtime: malformed record dropped: %v", err)
		return false
	}

	switch envelope.Type {
	case msgTypeInvocation:
		h.mu.Lock()
		if h.closed {
			h.mu.Unlock()
			return true
		}
		var handlers []Handler
		for _, fn := range h.handlers[envelope.Target] {
			handlers = append(handlers, fn)
		}
		h.mu.Unlock()
		for _, fn := range handlers {
			fn(envelope.Arguments)
		}
	case msgTypePing:
		// Server keepalive; our own ping loop covers the reverse direction.
	case msgTypeClose:
		return true
	}
	return false
}

func (h *Hub) pingLoop(conn *websocket.Conn, stop chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := h.writeRecord(conn, []byte(`{"type":6}`)); err != nil {
				return
			}
		case <-stop:
			return
		case <-h.done:
			return
		}
	}
}

// invoke sends a non-blocking hub invocation with no arguments.
func (h *Hub) invoke(conn *websocket.Conn, target string) error {
	msg, err := json.Marshal(map[string]interface{}{
		"type":      msgTypeInvocation,
		"target":    target,
		"arguments": []interface{}{},
	})
	if err != nil {
		return err
	}
	return h.writeRecord(conn, msg)
}

func (h *Hub) writeRecord(conn *websocket.Conn, record []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(websocket.TextMessage, append(record, recordSeparator))
}

func splitRecords(raw []byte) [][]byte {
	var records [][]byte
	start := 0
	for i, b := range raw {
		if b == recordSeparator {
			if i > start {
				records = append(records, raw[start:i])
			}
			start = i + 1
		}
	}
	if start < len(raw) {
		records = append(records, raw[start:])
	}
	return records
}

func trimRecord(raw []byte) []byte {
	if n := len(raw); n > 0 && raw[n-1] == recordSeparator {
		return raw[:n-1]
	}
	return raw
}
