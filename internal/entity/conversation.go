package entity

import "time"

// Conversation is the summary row for one participant pair. The primary key
// is the canonical conversation key, which makes the upsert on every send
// race-safe. Created lazily on the first message between a pair.
type Conversation struct {
	ID            string    `gorm:"primaryKey" json:"id"`
	User1Type     string    `gorm:"not null" json:"user1Type"`
	User1ID       string    `gorm:"not null" json:"user1Id"`
	User2Type     string    `gorm:"not null" json:"user2Type"`
	User2ID       string    `gorm:"not null" json:"user2Id"`
	LastMessage   string    `json:"lastMessage"`
	LastTimestamp time.Time `gorm:"index" json:"lastTimestamp"`
	UpdatedAt     time.Time `json:"-"`
}

// Other returns the participant on the opposite side from p.
func (c *Conversation) Other(p Participant) Participant {
	if c.User1Type == p.Type && c.User1ID == p.ID {
		return Participant{Type: c.User2Type, ID: c.User2ID}
	}
	return Participant{Type: c.User1Type, ID: c.User1ID}
}

// ConversationSummary is one row of a participant's inbox: the other party,
// the last message, and how many of that party's messages are still unread.
type ConversationSummary struct {
	OtherType     string    `json:"otherType"`
	OtherID       string    `json:"otherId"`
	LastMessage   string    `json:"lastMessage"`
	LastTimestamp time.Time `json:"lastTimestamp"`
	UnreadCount   int64     `json:"unreadCount"`
}
