// Package bridge exposes the translation page's DOM over a WebSocket
// connection. A companion script running in the browser tab connects to the
// local agent and executes DOM commands on its behalf; the bridge sends
// JSON requests and matches replies by request id.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ErrNotConnected is returned while no browser tab is attached.
var ErrNotConnected = errors.New("no translation page connected")

// DefaultCommandTimeout bounds a single DOM command round trip.
const DefaultCommandTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // local agent, page connects from an arbitrary origin
	},
}

type request struct {
	ID   string `json:"id"`
	Op   string `json:"op"`
	Text string `json:"text,omitempty"`
}

type response struct {
	ID      string `json:"id"`
	Text    string `json:"text"`
	Present bool   `json:"present"`
	Error   string `json:"error,omitempty"`
}

// Bridge implements page.DOM against whichever tab is currently attached.
// A newly connecting tab replaces the previous one.
type Bridge struct {
	timeout time.Duration

	mu      sync.Mutex
	conn    *websocket.Conn
	pending map[string]chan response
	nextID  uint64
}

func New(commandTimeout time.Duration) *Bridge {
	if commandTimeout <= 0 {
		commandTimeout = DefaultCommandTimeout
	}
	return &Bridge{
		timeout: commandTimeout,
		pending: make(map[string]chan response),
	}
}

// Connected reports whether a page is currently attached.
func (b *Bridge) Connected() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.conn != nil
}

// HandleWS upgrades an incoming companion-script connection and attaches it
// as the active page.
func (b *Bridge) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade bridge connection", "error", err)
		return
	}

	b.mu.Lock()
	if b.conn != nil {
		slog.Info("Replacing previously connected page")
		b.conn.Close()
	}
	b.conn = conn
	b.mu.Unlock()

	slog.Info("Translation page connected", "remote", conn.RemoteAddr().String())
	go b.readLoop(conn)
}

// SetInput implements page.DOM.
func (b *Bridge) SetInput(ctx context.Context, text string) error {
	_, err := b.roundTrip(ctx, request{Op: "set_input", Text: text})
	return err
}

// Activate implements page.DOM.
func (b *Bridge) Activate(ctx context.Context) error {
	_, err := b.roundTrip(ctx, request{Op: "activate"})
	return err
}

// ReadOutput implements page.DOM.
func (b *Bridge) ReadOutput(ctx context.Context) (string, bool, error) {
	resp, err := b.roundTrip(ctx, request{Op: "read_output"})
	if err != nil {
		return "", false, err
	}
	return resp.Text, resp.Present, nil
}

func (b *Bridge) roundTrip(ctx context.Context, req request) (response, error) {
	b.mu.Lock()
	conn := b.conn
	if conn == nil {
		b.mu.Unlock()
		return response{}, ErrNotConnected
	}
	b.nextID++
	req.ID = strconv.FormatUint(b.nextID, 10)
	ch := make(chan response, 1)
	b.pending[req.ID] = ch
	// The write happens under the lock: gorilla connections allow only one
	// concurrent writer.
	err := conn.WriteJSON(req)
	b.mu.Unlock()
	if err != nil {
		b.forget(req.ID)
		return response{}, fmt.Errorf("sending %s command: %w", req.Op, err)
	}

	timer := time.NewTimer(b.timeout)
	defer timer.Stop()
	select {
	case resp := <-ch:
		if resp.Error != "" {
			return response{}, fmt.Errorf("page rejected %s command: %s", req.Op, resp.Error)
		}
		return resp, nil
	case <-ctx.Done():
		b.forget(req.ID)
		return response{}, ctx.Err()
	case <-timer.C:
		b.forget(req.ID)
		return response{}, fmt.Errorf("%s command: no reply from page within %s", req.Op, b.timeout)
	}
}

func (b *Bridge) forget(id string) {
	b.mu.Lock()
	delete(b.pending, id)
	b.mu.Unlock()
}

func (b *Bridge) readLoop(conn *websocket.Conn) {
	for {
		var resp response
		if err := conn.ReadJSON(&resp); err != nil {
			b.detach(conn)
			slog.Info("Translation page disconnected", "reason", err)
			return
		}
		b.mu.Lock()
		ch := b.pending[resp.ID]
		delete(b.pending, resp.ID)
		b.mu.Unlock()
		if ch != nil {
			ch <- resp
		} else {
			slog.Debug("Dropping reply for unknown request", "id", resp.ID)
		}
	}
}

// detach clears the active connection if conn is still it. In-flight
// commands fail with their own timeouts rather than being cancelled here.
func (b *Bridge) detach(conn *websocket.Conn) {
	b.mu.Lock()
	if b.conn == conn {
		b.conn = nil
	}
	b.mu.Unlock()
	conn.Close()
}

// Close drops the active page connection.
func (b *Bridge) Close() {
	b.mu.Lock()
	if b.conn != nil {
		b.conn.Close()
		b.conn = nil
	}
	b.mu.Unlock()
}
