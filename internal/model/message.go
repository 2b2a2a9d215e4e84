package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Message roles. Role is immutable once a message is stored.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// SourceCitation is the provenance of one retrieved passage, embedded in an
// assistant message.
type SourceCitation struct {
	Source  string `json:"source"`
	Page    *int   `json:"page,omitempty"`
	Snippet string `json:"snippet,omitempty"`
}

// SourceList stores the citations of an assistant message as a JSON column.
type SourceList []SourceCitation

// Value implements driver.Valuer. An empty list is stored as NULL so user
// messages carry no sources column payload.
func (s SourceList) Value() (driver.Value, error) {
	if len(s) == 0 {
		return nil, nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *SourceList) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, s)
	case string:
		return json.Unmarshal([]byte(v), s)
	default:
		return fmt.Errorf("unsupported sources column type %T", value)
	}
}

// Message is one turn in a chat.
type Message struct {
	ID        uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	ChatID    string     `gorm:"type:char(36);index;not null" json:"chatId"`
	Role      string     `gorm:"type:varchar(16);not null" json:"role"`
	Content   string     `gorm:"type:text;not null" json:"content"`
	Sources   SourceList `gorm:"type:json" json:"sources,omitempty"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the database table for this model.
func (Message) TableName() string {
	return "messages"
}

// ChatMessage is a role+content pair handed to the answer generator as
// conversational history.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// FeedbackView is the per-message feedback as exposed to the client.
type FeedbackView struct {
	Rating string `json:"rating"`
}

// MessageDTO is one message as returned by the messages listing, with its
// optional feedback attached.
type MessageDTO struct {
	ID        uint          `json:"id"`
	Role      string        `json:"role"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	Sources   SourceList    `json:"sources,omitempty"`
	Feedback  *FeedbackView `json:"feedback"`
}
