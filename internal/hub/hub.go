package hub

import (
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"

	"tictacroom/internal/history"
	"tictacroom/internal/room"
)

var tracer = otel.Tracer("hub")

type inboundMessage struct {
	client *Client
	data   []byte
}

// Hub is the connection gateway: it owns every live client, maps room
// codes to their connected clients, and serializes all coordinator
// calls through a single Run goroutine. That single event loop is what
// makes room state single-writer; no room-level locking is needed
// beyond the registry's own map guard.
type Hub struct {
	coordinator *room.Coordinator
	registry    *room.Registry
	history     *history.Recorder

	clients     map[*Client]struct{}
	roomClients map[string]map[*Client]struct{}

	register   chan *Client
	unregister chan *Client
	inbound    chan *inboundMessage

	sweepEvery time.Duration
	logger     *slog.Logger
	done       chan struct{}
}

// NewHub creates a hub over the given coordinator, registry and history
// recorder.
func NewHub(coordinator *room.Coordinator, registry *room.Registry, recorder *history.Recorder, sweepEvery time.Duration, logger *slog.Logger) *Hub {
	return &Hub{
		coordinator: coordinator,
		registry:    registry,
		history:     recorder,
		clients:     make(map[*Client]struct{}),
		roomClients: make(map[string]map[*Client]struct{}),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		inbound:     make(chan *inboundMessage, 64),
		sweepEvery:  sweepEvery,
		logger:      logger,
		done:        make(chan struct{}),
	}
}

// Run processes registrations, disconnections, inbound events and the
// periodic empty-room sweep, one at a time.
func (h *Hub) Run() {
	sweep := time.NewTicker(h.sweepEvery)
	defer sweep.Stop()

	for {
		select {
		case c := <-h.register:
			h.clients[c] = struct{}{}
			h.logger.Info("client connected", "player.id", c.Username())

		case c := <-h.unregister:
			h.removeClient(c)

		case msg := <-h.inbound:
			h.handleMessage(msg.client, msg.data)

		case <-sweep.C:
			h.registry.SweepEmpty()

		case <-h.done:
			return
		}
	}
}

// Stop terminates the Run loop.
func (h *Hub) Stop() {
	close(h.done)
}

// Register returns the channel for registering new clients.
func (h *Hub) Register() chan<- *Client {
	return h.register
}

// removeClient drops a disconnected client, frees its seat and notifies
// the remaining player.
func (h *Hub) removeClient(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)

	h.leaveCurrentRoom(c)

	close(c.send)
	h.logger.Info("client disconnected", "player.id", c.Username())
}

// leaveCurrentRoom releases the client's seat and broadcast membership
// in whatever room it currently occupies. A client switching rooms must
// go through here first: a stale entry in roomClients would keep
// receiving broadcasts after its send channel is closed.
func (h *Hub) leaveCurrentRoom(c *Client) {
	code := c.roomCode
	if code == "" {
		return
	}

	h.detachFromRoom(c)
	if res, ok := h.coordinator.Leave(code, c.Username()); ok && len(res.Remaining) > 0 {
		h.broadcastToRoom(code, outboundOpponentLeft(c.Username(), res.Abandoned))
	}
}

func (h *Hub) attachToRoom(c *Client, code string) {
	members, ok := h.roomClients[code]
	if !ok {
		members = make(map[*Client]struct{})
		h.roomClients[code] = members
	}
	members[c] = struct{}{}
	c.roomCode = code
}

func (h *Hub) detachFromRoom(c *Client) {
	if members, ok := h.roomClients[c.roomCode]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.roomClients, c.roomCode)
		}
	}
	c.roomCode = ""
}
