package repository

import (
	"konsul-pajak-go/internal/model"

	"gorm.io/gorm"
)

// ChatRepository persists conversation threads. Every scoped lookup filters
// by owner, so a foreign chat surfaces as gorm.ErrRecordNotFound.
type ChatRepository interface {
	Create(chat *model.Chat) error
	FindByIDAndUser(chatID string, userID uint) (*model.Chat, error)
	FindByUser(userID uint) ([]model.Chat, error)
	UpdateTitle(chatID, title string) error
	Delete(chatID string) error
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a ChatRepository backed by GORM.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// Create inserts a new chat row.
func (r *chatRepository) Create(chat *model.Chat) error {
	return r.db.Create(chat).Error
}

// FindByIDAndUser loads a chat scoped by (id, owner). This is the single
// ownership gate applied before every chat-scoped operation.
func (r *chatRepository) FindByIDAndUser(chatID string, userID uint) (*model.Chat, error) {
	var chat model.Chat
	err := r.db.Where("id = ? AND user_id = ?", chatID, userID).First(&chat).Error
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

// FindByUser returns the user's chats, most recent first.
func (r *chatRepository) FindByUser(userID uint) ([]model.Chat, error) {
	var chats []model.Chat
	err := r.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&chats).Error
	return chats, err
}

// UpdateTitle sets the chat title.
func (r *chatRepository) UpdateTitle(chatID, title string) error {
	return r.db.Model(&model.Chat{}).Where("id = ?", chatID).Update("title", title).Error
}

// Delete removes the chat row itself. Cascading its messages and feedback
// is the caller's responsibility.
func (r *chatRepository) Delete(chatID string) error {
	return r.db.Delete(&model.Chat{}, "id = ?", chatID).Error
}
