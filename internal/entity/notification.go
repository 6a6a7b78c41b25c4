package entity

import "time"

// Notification is a one-way event from sender to receiver, raised by domain
// actions such as a submitted application, a follow, a save or a status
// change. There is no conversation concept here.
type Notification struct {
	ID           string    `gorm:"primaryKey" json:"id"`
	ReceiverType string    `gorm:"not null;index:idx_notifications_receiver" json:"receiverType"`
	ReceiverID   string    `gorm:"not null;index:idx_notifications_receiver" json:"receiverId"`
	SenderType   string    `gorm:"not null" json:"senderType"`
	SenderID     string    `gorm:"not null" json:"senderId"`
	Message      string    `gorm:"not null" json:"message"`
	IsRead       bool      `gorm:"not null;default:false" json:"isRead"`
	CreatedAt    time.Time `gorm:"not null;index" json:"createdAt"`
}

func (n *Notification) Receiver() Participant {
	return Participant{Type: n.ReceiverType, ID: n.ReceiverID}
}

func (n *Notification) Sender() Participant {
	return Participant{Type: n.SenderType, ID: n.SenderID}
}
