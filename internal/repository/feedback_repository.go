package repository

import (
	"konsul-pajak-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FeedbackRepository persists per-message ratings.
type FeedbackRepository interface {
	Upsert(fb *model.Feedback) (*model.Feedback, error)
	FindByMessageIDs(messageIDs []uint) ([]model.Feedback, error)
	DeleteByMessageID(messageID uint) error
	DeleteByChat(chatID string) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a FeedbackRepository backed by GORM.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

// Upsert inserts the feedback row or, when one already exists for the
// message, overwrites its rating in a single conflict-aware statement.
// Doing this atomically avoids races between concurrent submissions.
func (r *feedbackRepository) Upsert(fb *model.Feedback) (*model.Feedback, error) {
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "message_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"rating", "updated_at"}),
	}).Create(fb).Error
	if err != nil {
		return nil, err
	}

	var stored model.Feedback
	if err := r.db.Where("message_id = ?", fb.MessageID).First(&stored).Error; err != nil {
		return nil, err
	}
	return &stored, nil
}

// FindByMessageIDs returns the feedback rows for the given messages.
func (r *feedbackRepository) FindByMessageIDs(messageIDs []uint) ([]model.Feedback, error) {
	if len(messageIDs) == 0 {
		return nil, nil
	}
	var feedbacks []model.Feedback
	err := r.db.Where("message_id IN ?", messageIDs).Find(&feedbacks).Error
	return feedbacks, err
}

// DeleteByMessageID removes the feedback of a message if present.
// Deleting absent feedback is not an error.
func (r *feedbackRepository) DeleteByMessageID(messageID uint) error {
	return r.db.Delete(&model.Feedback{}, "message_id = ?", messageID).Error
}

// DeleteByChat removes all feedback attached to a chat's messages.
func (r *feedbackRepository) DeleteByChat(chatID string) error {
	return r.db.
		Where("message_id IN (?)", r.db.Model(&model.Message{}).Select("id").Where("chat_id = ?", chatID)).
		Delete(&model.Feedback{}).Error
}
