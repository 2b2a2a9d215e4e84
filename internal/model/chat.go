package model

import "time"

// DefaultChatTitle is the placeholder a new chat starts with. The title is
// derived from the first user message exactly once, guarded by comparing
// against this placeholder.
const DefaultChatTitle = "Percakapan Baru"

// Chat is one conversation thread owned by a single user.
type Chat struct {
	ID        string    `gorm:"type:char(36);primaryKey" json:"id"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Title     string    `gorm:"type:varchar(100);not null" json:"title"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// TableName specifies the database table for this model.
func (Chat) TableName() string {
	return "chats"
}
