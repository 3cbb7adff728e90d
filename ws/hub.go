package ws

// Hub bertanggung jawab untuk:
// menyimpan koneksi client, menerima event dari API endpoint,
// dan melakukan broadcast event ke seluruh client yang terhubung.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrHubClosed = errors.New("websocket hub is not running")

// Client mewakili koneksi WebSocket
type Client struct {
	Conn *websocket.Conn
	Send chan []byte
}

// Hub mengelola semua koneksi client. Only Run touches Clients.
type Hub struct {
	Clients    map[*Client]bool
	Broadcast  chan []byte
	Register   chan *Client
	Unregister chan *Client

	count  chan chan int
	done   chan struct{}
	logger *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		Clients:    make(map[*Client]bool),
		Broadcast:  make(chan []byte, 64),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		count:      make(chan chan int),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run owns the client map until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.Clients {
			close(client.Send)
			delete(h.Clients, client)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			h.logger.Info("Websocket hub stopped", zap.Int("clients", len(h.Clients)))
			return
		case client := <-h.Register:
			h.Clients[client] = true
			h.logger.Debug("Client registered", zap.Int("clients", len(h.Clients)))
		case client := <-h.Unregister:
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
				h.logger.Debug("Client unregistered", zap.Int("clients", len(h.Clients)))
			}
		case reply := <-h.count:
			reply <- len(h.Clients)
		case message := <-h.Broadcast:
			h.logger.Debug("Broadcasting message", zap.Int("clients", len(h.Clients)), zap.Int("bytes", len(message)))
			for client := range h.Clients {
				select {
				case client.Send <- message:
				default:
					// Slow client; drop it rather than block the hub.
					close(client.Send)
					delete(h.Clients, client)
				}
			}
		}
	}
}

// Publish encodes v as JSON and queues it for every connected client.
func (h *Hub) Publish(v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode websocket event: %w", err)
	}
	select {
	case <-h.done:
		return ErrHubClosed
	default:
	}
	select {
	case h.Broadcast <- b:
		return nil
	case <-h.done:
		return ErrHubClosed
	}
}

// ClientCount returns the number of registered clients, or 0 once the hub
// has stopped.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	select {
	case h.count <- reply:
		return <-reply
	case <-h.done:
		return 0
	}
}
