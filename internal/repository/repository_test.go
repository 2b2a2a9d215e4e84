package repository

import (
	"testing"

	"konsul-pajak-go/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory SQLite database with the full schema.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Chat{}, &model.Message{}, &model.Feedback{}); err != nil {
		t.Fatalf("migrate schema: %v", err)
	}
	return db
}

func mustCreateChat(t *testing.T, db *gorm.DB, chatID string, userID uint) *model.Chat {
	t.Helper()
	chat := &model.Chat{ID: chatID, UserID: userID, Title: model.DefaultChatTitle}
	if err := NewChatRepository(db).Create(chat); err != nil {
		t.Fatalf("create chat: %v", err)
	}
	return chat
}

func mustCreateMessage(t *testing.T, db *gorm.DB, chatID, role, content string) *model.Message {
	t.Helper()
	msg := &model.Message{ChatID: chatID, Role: role, Content: content}
	if err := NewMessageRepository(db).Create(msg); err != nil {
		t.Fatalf("create message: %v", err)
	}
	return msg
}
