package repository

import (
	"errors"
	"testing"

	"gorm.io/gorm"
)

func TestChatRepositoryFindByIDAndUserScopesToOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	mustCreateChat(t, db, "chat-1", 1)

	chat, err := repo.FindByIDAndUser("chat-1", 1)
	if err != nil {
		t.Fatalf("find own chat: %v", err)
	}
	if chat.UserID != 1 {
		t.Fatalf("unexpected owner: %d", chat.UserID)
	}

	// Another user's lookup must be indistinguishable from a missing chat.
	if _, err := repo.FindByIDAndUser("chat-1", 2); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found for foreign owner, got: %v", err)
	}
	if _, err := repo.FindByIDAndUser("no-such-chat", 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found for missing chat, got: %v", err)
	}
}

func TestChatRepositoryFindByUserReturnsOnlyOwnChats(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	mustCreateChat(t, db, "chat-a", 1)
	mustCreateChat(t, db, "chat-b", 1)
	mustCreateChat(t, db, "chat-c", 2)

	chats, err := repo.FindByUser(1)
	if err != nil {
		t.Fatalf("list chats: %v", err)
	}
	if len(chats) != 2 {
		t.Fatalf("expected 2 chats, got %d", len(chats))
	}
	for _, c := range chats {
		if c.UserID != 1 {
			t.Fatalf("foreign chat leaked into listing: %s", c.ID)
		}
	}
}

func TestChatRepositoryUpdateTitle(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	mustCreateChat(t, db, "chat-1", 1)

	if err := repo.UpdateTitle("chat-1", "PPN atas jasa digital"); err != nil {
		t.Fatalf("update title: %v", err)
	}
	chat, err := repo.FindByIDAndUser("chat-1", 1)
	if err != nil {
		t.Fatalf("reload chat: %v", err)
	}
	if chat.Title != "PPN atas jasa digital" {
		t.Fatalf("unexpected title: %q", chat.Title)
	}
}

func TestChatRepositoryDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewChatRepository(db)
	mustCreateChat(t, db, "chat-1", 1)

	if err := repo.Delete("chat-1"); err != nil {
		t.Fatalf("delete chat: %v", err)
	}
	if _, err := repo.FindByIDAndUser("chat-1", 1); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected chat gone, got: %v", err)
	}
}
