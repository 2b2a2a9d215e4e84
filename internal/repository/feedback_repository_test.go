package repository

import (
	"testing"

	"konsul-pajak-go/internal/model"
)

func TestFeedbackRepositoryUpsertCreatesThenOverwrites(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedbackRepository(db)
	mustCreateChat(t, db, "chat-1", 1)
	msg := mustCreateMessage(t, db, "chat-1", model.RoleAssistant, "jawaban")

	first, err := repo.Upsert(&model.Feedback{MessageID: msg.ID, UserID: 1, Rating: model.RatingLike})
	if err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if first.Rating != model.RatingLike {
		t.Fatalf("unexpected rating: %q", first.Rating)
	}

	second, err := repo.Upsert(&model.Feedback{MessageID: msg.ID, UserID: 1, Rating: model.RatingDislike})
	if err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	if second.Rating != model.RatingDislike {
		t.Fatalf("rating not overwritten: %q", second.Rating)
	}
	if second.ID != first.ID {
		t.Fatalf("upsert created a second row: %d != %d", second.ID, first.ID)
	}

	all, err := repo.FindByMessageIDs([]uint{msg.ID})
	if err != nil {
		t.Fatalf("find by message ids: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected exactly one feedback row, got %d", len(all))
	}
}

func TestFeedbackRepositoryFindByMessageIDsEmptyInput(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedbackRepository(db)

	feedbacks, err := repo.FindByMessageIDs(nil)
	if err != nil {
		t.Fatalf("find with empty ids: %v", err)
	}
	if len(feedbacks) != 0 {
		t.Fatalf("expected no feedback, got %d", len(feedbacks))
	}
}

func TestFeedbackRepositoryDeleteByMessageIDIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedbackRepository(db)
	mustCreateChat(t, db, "chat-1", 1)
	msg := mustCreateMessage(t, db, "chat-1", model.RoleAssistant, "jawaban")

	if _, err := repo.Upsert(&model.Feedback{MessageID: msg.ID, UserID: 1, Rating: model.RatingLike}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := repo.DeleteByMessageID(msg.ID); err != nil {
		t.Fatalf("delete feedback: %v", err)
	}
	// A second delete of the same (now absent) feedback must succeed.
	if err := repo.DeleteByMessageID(msg.ID); err != nil {
		t.Fatalf("repeated delete: %v", err)
	}

	feedbacks, err := repo.FindByMessageIDs([]uint{msg.ID})
	if err != nil {
		t.Fatalf("find by message ids: %v", err)
	}
	if len(feedbacks) != 0 {
		t.Fatalf("expected feedback gone, got %d rows", len(feedbacks))
	}
}

func TestFeedbackRepositoryDeleteByChat(t *testing.T) {
	db := newTestDB(t)
	repo := NewFeedbackRepository(db)
	mustCreateChat(t, db, "chat-1", 1)
	mustCreateChat(t, db, "chat-2", 1)
	msg1 := mustCreateMessage(t, db, "chat-1", model.RoleAssistant, "a")
	msg2 := mustCreateMessage(t, db, "chat-2", model.RoleAssistant, "b")

	if _, err := repo.Upsert(&model.Feedback{MessageID: msg1.ID, UserID: 1, Rating: model.RatingLike}); err != nil {
		t.Fatalf("upsert chat-1 feedback: %v", err)
	}
	if _, err := repo.Upsert(&model.Feedback{MessageID: msg2.ID, UserID: 1, Rating: model.RatingLike}); err != nil {
		t.Fatalf("upsert chat-2 feedback: %v", err)
	}

	if err := repo.DeleteByChat("chat-1"); err != nil {
		t.Fatalf("delete by chat: %v", err)
	}

	feedbacks, err := repo.FindByMessageIDs([]uint{msg1.ID, msg2.ID})
	if err != nil {
		t.Fatalf("find by message ids: %v", err)
	}
	if len(feedbacks) != 1 || feedbacks[0].MessageID != msg2.ID {
		t.Fatalf("expected only chat-2 feedback to remain, got %+v", feedbacks)
	}
}
