package repository

import (
	"konsul-pajak-go/internal/model"

	"gorm.io/gorm"
)

// MessageRepository persists conversation turns.
type MessageRepository interface {
	Create(msg *model.Message) error
	FindByChat(chatID string) ([]model.Message, error)
	FindFirstN(chatID string, limit int) ([]model.Message, error)
	FindByIDAndOwner(messageID, userID uint) (*model.Message, error)
	DeleteByChat(chatID string) error
}

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a MessageRepository backed by GORM.
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create inserts a new message row.
func (r *messageRepository) Create(msg *model.Message) error {
	return r.db.Create(msg).Error
}

// FindByChat returns every message of a chat in creation order.
func (r *messageRepository) FindByChat(chatID string) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("chat_id = ?", chatID).Order("created_at ASC, id ASC").Find(&messages).Error
	return messages, err
}

// FindFirstN returns the earliest limit messages of a chat in creation
// order. Used to bound the history window handed to the generator.
func (r *messageRepository) FindFirstN(chatID string, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("chat_id = ?", chatID).Order("created_at ASC, id ASC").Limit(limit).Find(&messages).Error
	return messages, err
}

// FindByIDAndOwner loads a message scoped through its parent chat's owner.
// A message in a foreign chat surfaces as gorm.ErrRecordNotFound.
func (r *messageRepository) FindByIDAndOwner(messageID, userID uint) (*model.Message, error) {
	var msg model.Message
	err := r.db.Joins("JOIN chats ON chats.id = messages.chat_id").
		Where("messages.id = ? AND chats.user_id = ?", messageID, userID).
		First(&msg).Error
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// DeleteByChat removes every message of a chat.
func (r *messageRepository) DeleteByChat(chatID string) error {
	return r.db.Delete(&model.Message{}, "chat_id = ?", chatID).Error
}
