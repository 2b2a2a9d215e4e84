package model

import "time"

// Feedback ratings.
const (
	RatingLike    = "like"
	RatingDislike = "dislike"
)

// Feedback is a user's reaction to one assistant message. The unique index
// on MessageID enforces at most one feedback row per message; submitting
// again overwrites the rating.
type Feedback struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID uint      `gorm:"uniqueIndex;not null" json:"messageId"`
	UserID    uint      `gorm:"index;not null" json:"userId"`
	Rating    string    `gorm:"type:varchar(16);not null" json:"rating"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// TableName specifies the database table for this model.
func (Feedback) TableName() string {
	return "feedbacks"
}
