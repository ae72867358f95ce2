package sse

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/nextclass/nextclass-backend/internal/logger"
)

type Event string

const (
	EventJobStatusChanged Event = "JobStatusChanged"
)

type Message struct {
	Channel string `json:"channel"`
	Event   Event  `json:"event"`
	Data    any    `json:"data,omitempty"`
}

type Client struct {
	ID        uuid.UUID
	TeacherID uuid.UUID
	Outbound  chan Message
	done      chan struct{}
	closeOnce sync.Once
}

func (c *Client) Done() <-chan struct{} { return c.done }

func (c *Client) Close() {
	c.closeOnce.Do(func() { close(c.done) })
}

// Hub fans job-status events out to connected SSE clients. Each client is
// subscribed to its teacher channel ("jobs:<teacher_id>") on registration.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "SSEHub"),
		subscriptions: make(map[string]map[*Client]bool),
	}
}

func JobChannel(teacherID uuid.UUID) string {
	return "jobs:" + teacherID.String()
}

func (h *Hub) NewClient(teacherID uuid.UUID) *Client {
	client := &Client{
		ID:        uuid.New(),
		TeacherID: teacherID,
		Outbound:  make(chan Message, 16),
		done:      make(chan struct{}),
	}
	h.subscribe(client, JobChannel(teacherID))
	return client
}

func (h *Hub) subscribe(client *Client, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	clients, ok := h.subscriptions[channel]
	if !ok {
		clients = make(map[*Client]bool)
		h.subscriptions[channel] = clients
	}
	clients[client] = true
	h.log.Debug("SSE client subscribed", "client_id", client.ID, "channel", channel)
}

func (h *Hub) RemoveClient(client *Client) {
	if client == nil {
		return
	}
	h.mu.Lock()
	for channel, clients := range h.subscriptions {
		if clients[client] {
			delete(clients, client)
			if len(clients) == 0 {
				delete(h.subscriptions, channel)
			}
		}
	}
	h.mu.Unlock()
	client.Close()
}

// Publish delivers a message to every client on the channel. Slow clients
// are skipped rather than blocking the publisher.
func (h *Hub) Publish(msg Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.subscriptions[msg.Channel] {
		select {
		case client.Outbound <- msg:
		default:
			h.log.Warn("SSE client outbound full, dropping message", "client_id", client.ID, "channel", msg.Channel)
		}
	}
}

// ServeHTTP streams the client's outbound messages until the connection or
// the client is closed. Heartbeats keep intermediaries from reaping idle
// connections.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, client *Client) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	ctx := r.Context()

	heartbeat := time.NewTicker(15 * time.Second)
	defer heartbeat.Stop()

	for {
		select {
		case <-ctx.Done():
			h.log.Debug("SSE client disconnected", "client_id", client.ID)
			return
		case <-client.Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case msg := <-client.Outbound:
			raw, err := json.Marshal(msg)
			if err != nil {
				h.log.Warn("Failed to marshal SSE message", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", msg.Event, raw)
			flusher.Flush()
		}
	}
}
