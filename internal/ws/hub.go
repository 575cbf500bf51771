// Package ws implements WebSocket hub and client management.
package ws

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/metrics"
)

// Hub channel buffer sizes.
const (
	broadcastBuffer = 256
	registerBuffer  = 64
)

// maxClients caps concurrent connections.
const maxClients = 1000

// Hub manages active WebSocket clients and broadcasts record events.
// All client map mutations happen exclusively in the Run goroutine.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte
	shutdown   chan struct{} // signals Run to begin graceful drain
	done       chan struct{} // closed when Run has finished draining
	count      atomic.Int64
	seq        atomic.Uint64
	log        *logrus.Logger
}

// NewHub creates a new Hub instance.
func NewHub(log *logrus.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client, registerBuffer),
		unregister: make(chan *Client, registerBuffer),
		broadcast:  make(chan []byte, broadcastBuffer),
		shutdown:   make(chan struct{}),
		done:       make(chan struct{}),
		log:        log,
	}
}

// drainTimeout is how long the hub waits for clients to flush after shutdown.
const drainTimeout = 3 * time.Second

// Run starts the hub event loop. It should be run as a goroutine.
// It exits when Shutdown is called or the context is cancelled.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.drainClients()

			return
		case <-h.shutdown:
			h.drainClients()

			return

		case client := <-h.register:
			if len(h.clients) >= maxClients {
				h.log.Warn("connection limit reached, dropping client")
				client.closeSend()
				continue
			}
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client registered")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.closeSend()
			}
			h.count.Store(int64(len(h.clients)))
			metrics.WSConnections.Set(float64(len(h.clients)))
			h.log.WithField("total", len(h.clients)).Info("client unregistered")

		case msg := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					// Slow consumer; drop it rather than block the loop.
					client.closeSend()
					delete(h.clients, client)
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// maxBroadcastPayload is the maximum allowed notification payload size (4 KB).
const maxBroadcastPayload = 4096

// Broadcast sends a raw message to every connected client. Payloads
// exceeding 4 KB are dropped with a warning log. The actual send is
// performed by the Run goroutine via a channel.
func (h *Hub) Broadcast(msg []byte) {
	if len(msg) > maxBroadcastPayload {
		h.log.WithFields(logrus.Fields{
			"payload_size": len(msg),
			"max_size":     maxBroadcastPayload,
		}).Warn("dropping oversized broadcast payload")

		return
	}

	select {
	case h.broadcast <- msg:
	default:
		h.log.Warn("broadcast channel full, dropping message")
	}
}

// BroadcastEvent assigns a sequence ID and broadcasts a typed event to
// all connected clients. It satisfies the service layer's broadcaster
// interface.
func (h *Hub) BroadcastEvent(eventType string, data json.RawMessage) {
	evt := Event{
		Type: eventType,
		ID:   h.seq.Add(1),
		Data: data,
		Time: time.Now(),
	}

	msg, err := json.Marshal(evt)
	if err != nil {
		h.log.WithError(err).Error("failed to marshal event")

		return
	}

	h.Broadcast(msg)
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	default:
		h.log.Warn("register channel full, dropping client")
		c.closeSend()
	}
}

// Unregister removes a client from the hub.
func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	default:
		// Run loop already exited; client cleanup happened in Run shutdown.
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	return int(h.count.Load())
}

// Shutdown initiates a graceful drain: notifies every connected client,
// waits for write buffers to flush, then closes all connections. It
// blocks until the drain completes or times out.
func (h *Hub) Shutdown() {
	close(h.shutdown)
	<-h.done
}

// drainClients sends a shutdown notification to every client and waits
// for send buffers to empty.
func (h *Hub) drainClients() {
	if len(h.clients) == 0 {
		return
	}

	h.log.WithField("clients", len(h.clients)).Info("draining WebSocket clients")

	shutdownMsg := []byte(`{"type":"shutdown","message":"server shutting down"}`)
	for client := range h.clients {
		select {
		case client.send <- shutdownMsg:
		default:
		}
	}

	deadline := time.After(drainTimeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		allDrained := true

		for client := range h.clients {
			if len(client.send) > 0 {
				allDrained = false

				break
			}
		}

		if allDrained {
			break
		}

		select {
		case <-deadline:
			h.log.Warn("WebSocket drain timeout, closing remaining clients")

			goto closeAll
		case <-ticker.C:
		}
	}

closeAll:
	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}

	h.count.Store(0)
	metrics.WSConnections.Set(0)
}
