package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"konsul-pajak-go/internal/model"
	"konsul-pajak-go/internal/repository"
	"konsul-pajak-go/pkg/log"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	// maxMessageLength bounds a single user message.
	maxMessageLength = 2000
	// maxTitleLength bounds an explicit chat title.
	maxTitleLength = 100
	// derivedTitleLength is how much of the first message becomes the title.
	derivedTitleLength = 60
	// historyWindow caps the conversational history handed to the
	// generator, bounding prompt growth for long chats.
	historyWindow = 10
)

// ChatService is the API surface for chat sessions: lifecycle, messages and
// feedback. Every chat- or message-scoped operation re-verifies ownership
// and fails with not-found on mismatch.
type ChatService interface {
	CreateChat(userID uint) (*model.Chat, error)
	ListHistory(userID uint) ([]model.Chat, error)
	ListMessages(chatID string, userID uint) ([]model.MessageDTO, error)
	SendMessage(ctx context.Context, chatID string, userID uint, text string) (*model.Message, *model.Message, error)
	SubmitFeedback(messageID, userID uint, rating string) (*model.Feedback, error)
	DeleteFeedback(messageID, userID uint) error
	RenameChat(chatID string, userID uint, title string) (*model.Chat, error)
	DeleteChat(chatID string, userID uint) error
}

type chatService struct {
	chatRepo     repository.ChatRepository
	messageRepo  repository.MessageRepository
	feedbackRepo repository.FeedbackRepository
	ragService   RAGService
}

// NewChatService creates a ChatService.
func NewChatService(
	chatRepo repository.ChatRepository,
	messageRepo repository.MessageRepository,
	feedbackRepo repository.FeedbackRepository,
	ragService RAGService,
) ChatService {
	return &chatService{
		chatRepo:     chatRepo,
		messageRepo:  messageRepo,
		feedbackRepo: feedbackRepo,
		ragService:   ragService,
	}
}

// CreateChat inserts a new chat owned by the caller with the placeholder
// title.
func (s *chatService) CreateChat(userID uint) (*model.Chat, error) {
	chat := &model.Chat{
		ID:     uuid.NewString(),
		UserID: userID,
		Title:  model.DefaultChatTitle,
	}
	if err := s.chatRepo.Create(chat); err != nil {
		return nil, err
	}
	return chat, nil
}

// ListHistory returns the caller's chats, most recent first.
func (s *chatService) ListHistory(userID uint) ([]model.Chat, error) {
	return s.chatRepo.FindByUser(userID)
}

// ListMessages returns all messages of an owned chat in creation order,
// each with its optional feedback attached.
func (s *chatService) ListMessages(chatID string, userID uint) ([]model.MessageDTO, error) {
	chat, err := s.loadOwnedChat(chatID, userID)
	if err != nil {
		return nil, err
	}

	messages, err := s.messageRepo.FindByChat(chat.ID)
	if err != nil {
		return nil, err
	}

	messageIDs := make([]uint, 0, len(messages))
	for _, m := range messages {
		messageIDs = append(messageIDs, m.ID)
	}
	feedbacks, err := s.feedbackRepo.FindByMessageIDs(messageIDs)
	if err != nil {
		return nil, err
	}
	feedbackByMessage := make(map[uint]*model.FeedbackView, len(feedbacks))
	for _, fb := range feedbacks {
		feedbackByMessage[fb.MessageID] = &model.FeedbackView{Rating: fb.Rating}
	}

	dtos := make([]model.MessageDTO, 0, len(messages))
	for _, m := range messages {
		dtos = append(dtos, model.MessageDTO{
			ID:        m.ID,
			Role:      m.Role,
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
			Sources:   m.Sources,
			Feedback:  feedbackByMessage[m.ID],
		})
	}
	return dtos, nil
}

// SendMessage runs one conversation turn: persist the user message, derive
// the title on the first message, generate the answer, persist the
// assistant message. The user message is durably stored before generation
// starts, so a crash mid-generation leaves a valid user-only turn.
func (s *chatService) SendMessage(ctx context.Context, chatID string, userID uint, text string) (*model.Message, *model.Message, error) {
	chat, err := s.loadOwnedChat(chatID, userID)
	if err != nil {
		return nil, nil, err
	}

	if utf8.RuneCountInString(text) > maxMessageLength {
		return nil, nil, ErrMessageTooLong
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, nil, ErrEmptyMessage
	}

	// History is read before the new user message is stored, so the
	// question itself is never part of its own history.
	prior, err := s.messageRepo.FindFirstN(chat.ID, historyWindow)
	if err != nil {
		return nil, nil, err
	}
	history := make([]model.ChatMessage, 0, len(prior))
	for _, m := range prior {
		history = append(history, model.ChatMessage{Role: m.Role, Content: m.Content})
	}

	userMsg := &model.Message{
		ChatID:  chat.ID,
		Role:    model.RoleUser,
		Content: trimmed,
	}
	if err := s.messageRepo.Create(userMsg); err != nil {
		return nil, nil, err
	}

	// One-way title transition, guarded by the placeholder comparison.
	if chat.Title == model.DefaultChatTitle {
		derived := truncateRunes(trimmed, derivedTitleLength)
		if err := s.chatRepo.UpdateTitle(chat.ID, derived); err != nil {
			log.Errorf("[ChatService] failed to derive chat title, chatId: %s, error: %v", chat.ID, err)
		}
	}

	answer, sources := s.ragService.Answer(ctx, trimmed, history)

	assistantMsg := &model.Message{
		ChatID:  chat.ID,
		Role:    model.RoleAssistant,
		Content: answer,
		Sources: sources,
	}
	if err := s.messageRepo.Create(assistantMsg); err != nil {
		return nil, nil, err
	}

	return userMsg, assistantMsg, nil
}

// SubmitFeedback upserts the caller's rating on an owned assistant
// message: created when absent, rating overwritten when present.
func (s *chatService) SubmitFeedback(messageID, userID uint, rating string) (*model.Feedback, error) {
	if rating != model.RatingLike && rating != model.RatingDislike {
		return nil, ErrInvalidRating
	}

	msg, err := s.loadOwnedMessage(messageID, userID)
	if err != nil {
		return nil, err
	}

	return s.feedbackRepo.Upsert(&model.Feedback{
		MessageID: msg.ID,
		UserID:    userID,
		Rating:    rating,
	})
}

// DeleteFeedback removes the feedback of an owned message. Deleting absent
// feedback succeeds.
func (s *chatService) DeleteFeedback(messageID, userID uint) error {
	msg, err := s.loadOwnedMessage(messageID, userID)
	if err != nil {
		return err
	}
	return s.feedbackRepo.DeleteByMessageID(msg.ID)
}

// RenameChat sets an explicit title on an owned chat.
func (s *chatService) RenameChat(chatID string, userID uint, title string) (*model.Chat, error) {
	chat, err := s.loadOwnedChat(chatID, userID)
	if err != nil {
		return nil, err
	}

	if utf8.RuneCountInString(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}
	trimmed := strings.TrimSpace(title)
	if trimmed == "" {
		return nil, ErrEmptyTitle
	}

	if err := s.chatRepo.UpdateTitle(chat.ID, trimmed); err != nil {
		return nil, err
	}
	chat.Title = trimmed
	return chat, nil
}

// DeleteChat removes an owned chat together with its messages and their
// feedback. Feedback goes first to keep referential integrity.
func (s *chatService) DeleteChat(chatID string, userID uint) error {
	chat, err := s.loadOwnedChat(chatID, userID)
	if err != nil {
		return err
	}

	if err := s.feedbackRepo.DeleteByChat(chat.ID); err != nil {
		return err
	}
	if err := s.messageRepo.DeleteByChat(chat.ID); err != nil {
		return err
	}
	return s.chatRepo.Delete(chat.ID)
}

// loadOwnedChat is the authorization gate for chat-scoped operations.
func (s *chatService) loadOwnedChat(chatID string, userID uint) (*model.Chat, error) {
	chat, err := s.chatRepo.FindByIDAndUser(chatID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return chat, nil
}

// loadOwnedMessage is the authorization gate for message-scoped operations,
// verified through the message → chat → user chain.
func (s *chatService) loadOwnedMessage(messageID, userID uint) (*model.Message, error) {
	msg, err := s.messageRepo.FindByIDAndOwner(messageID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMessageNotFound
		}
		return nil, err
	}
	return msg, nil
}
