package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"jobboard/internal/entity"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection bound to a participant's room.
type Client struct {
	hub         *Hub
	conn        *websocket.Conn
	send        chan []byte
	participant entity.Participant
	room        string
	logger      logrus.FieldLogger
}

// inboundFrame is what connected clients may send upward. Typing signals and
// read receipts are relayed peer to peer without touching storage.
type inboundFrame struct {
	Event        string          `json:"event"`
	ReceiverType string          `json:"receiverType"`
	ReceiverID   string          `json:"receiverId"`
	Data         json.RawMessage `json:"data"`
}

type typingRelay struct {
	SenderType   string `json:"senderType"`
	SenderID     string `json:"senderId"`
	ReceiverType string `json:"receiverType"`
	ReceiverID   string `json:"receiverId"`
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.WithError(err).WithField("room", c.room).Debug("websocket closed unexpectedly")
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.logger.WithError(err).Debug("discarding malformed websocket frame")
			continue
		}
		receiver := entity.Participant{Type: frame.ReceiverType, ID: frame.ReceiverID}
		if receiver.Validate() != nil {
			continue
		}

		switch frame.Event {
		case "typing":
			c.relayTyping(receiver, EventUserTyping)
		case "stop_typing":
			c.relayTyping(receiver, EventUserStopTyping)
		case "notification_read":
			c.hub.EmitToRoom(receiver.Room(), EventNotificationRead, frame.Data)
		default:
			c.logger.WithField("event", frame.Event).Debug("ignoring unknown websocket event")
		}
	}
}

func (c *Client) relayTyping(receiver entity.Participant, event string) {
	c.hub.EmitToRoom(receiver.Room(), event, typingRelay{
		SenderType:   c.participant.Type,
		SenderID:     c.participant.ID,
		ReceiverType: receiver.Type,
		ReceiverID:   receiver.ID,
	})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
