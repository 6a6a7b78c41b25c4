package realtime

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
)

// Event names crossing the socket boundary.
const (
	EventMessageReceived      = "message_received"
	EventNotificationReceived = "notification_received"
	EventNotificationRead     = "notification_read"
	EventUserTyping           = "user_typing"
	EventUserStopTyping       = "user_stop_typing"
)

// Envelope is the frame written to every socket.
type Envelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

type roomPayload struct {
	room    string
	payload []byte
}

// Hub tracks connected clients by room. Rooms are named after participant
// identities, so a participant connected from several tabs shares one room.
// Delivery is best-effort over live connections only; missed events are
// recovered through the store's pull APIs.
type Hub struct {
	logger logrus.FieldLogger

	rooms      map[string]map[*Client]bool
	register   chan *Client
	unregister chan *Client
	emit       chan roomPayload
	mutex      sync.RWMutex
}

func NewHub(logger logrus.FieldLogger) *Hub {
	h := &Hub{
		logger:     logger,
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		emit:       make(chan roomPayload, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case client := <-h.register:
			h.mutex.Lock()
			if _, ok := h.rooms[client.room]; !ok {
				h.rooms[client.room] = make(map[*Client]bool)
			}
			h.rooms[client.room][client] = true
			h.mutex.Unlock()
			h.logger.WithField("room", client.room).Debug("client joined room")

		case client := <-h.unregister:
			h.mutex.Lock()
			if clients, ok := h.rooms[client.room]; ok {
				if _, exists := clients[client]; exists {
					delete(clients, client)
					close(client.send)
				}
				if len(clients) == 0 {
					delete(h.rooms, client.room)
				}
			}
			h.mutex.Unlock()
			h.logger.WithField("room", client.room).Debug("client left room")

		case p := <-h.emit:
			h.mutex.Lock()
			for client := range h.rooms[p.room] {
				select {
				case client.send <- p.payload:
				default:
					// Slow consumer: drop the connection, the client
					// resynchronizes through the pull APIs on reconnect.
					delete(h.rooms[p.room], client)
					close(client.send)
				}
			}
			if len(h.rooms[p.room]) == 0 {
				delete(h.rooms, p.room)
			}
			h.mutex.Unlock()
		}
	}
}

// Register adds a connection to its room.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Unregister removes a connection and closes its send channel.
func (h *Hub) Unregister(c *Client) {
	h.unregister <- c
}

// EmitToRoom delivers event to every connection in room. Best effort: with
// nobody connected the event is simply dropped.
func (h *Hub) EmitToRoom(room, event string, data interface{}) {
	payload, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.WithError(err).WithField("event", event).Error("marshal realtime event")
		return
	}
	h.emit <- roomPayload{room: room, payload: payload}
}

// RoomSize reports how many connections a room currently holds.
func (h *Hub) RoomSize(room string) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.rooms[room])
}
