package models

import "time"

// Message is a parent/staff message. Replies point at their original through ParentMessageID.
type Message struct {
	Model
	Sender          string    `json:"sender" gorm:"not null;index"`
	Content         string    `json:"content" gorm:"not null"`
	Timestamp       time.Time `json:"timestamp" gorm:"index"`
	IsRead          bool      `json:"isRead"`
	ParentMessageID *uint     `json:"parentMessageId" gorm:"index"`
}
