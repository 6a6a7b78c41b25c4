package entity

import "time"

// Message is a direct message between two participants. Rows never change
// after insert except for Seen, which only flips false to true.
type Message struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	SenderType   string    `gorm:"not null;index:idx_messages_sender" json:"senderType"`
	SenderID     string    `gorm:"not null;index:idx_messages_sender" json:"senderId"`
	ReceiverType string    `gorm:"not null;index:idx_messages_receiver" json:"receiverType"`
	ReceiverID   string    `gorm:"not null;index:idx_messages_receiver" json:"receiverId"`
	Text         string    `gorm:"not null" json:"text"`
	Timestamp    time.Time `gorm:"not null;index" json:"timestamp"`
	Seen         bool      `gorm:"not null;default:false" json:"seen"`
}

func (m *Message) Sender() Participant {
	return Participant{Type: m.SenderType, ID: m.SenderID}
}

func (m *Message) Receiver() Participant {
	return Participant{Type: m.ReceiverType, ID: m.ReceiverID}
}
