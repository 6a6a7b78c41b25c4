package entity

import "time"

// UnreadCount caches how many unseen messages the owner has from one other
// participant. It is denormalized state: the messages table stays the
// source of truth, and the row is rewritten from a recount on mark-as-read.
type UnreadCount struct {
	UserType    string    `gorm:"primaryKey" json:"userType"`
	UserID      string    `gorm:"primaryKey" json:"userId"`
	OtherType   string    `gorm:"primaryKey" json:"otherType"`
	OtherID     string    `gorm:"primaryKey" json:"otherId"`
	UnreadCount int64     `gorm:"not null;default:0" json:"unreadCount"`
	UpdatedAt   time.Time `json:"-"`
}

// NotificationCount caches the receiver's number of unread notifications.
type NotificationCount struct {
	UserType    string    `gorm:"primaryKey" json:"userType"`
	UserID      string    `gorm:"primaryKey" json:"userId"`
	UnreadCount int64     `gorm:"not null;default:0" json:"unreadCount"`
	UpdatedAt   time.Time `json:"-"`
}
