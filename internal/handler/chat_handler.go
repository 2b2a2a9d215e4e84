package handler

import (
	"errors"
	"net/http"
	"strconv"

	"konsul-pajak-go/internal/model"
	"konsul-pajak-go/internal/service"
	"konsul-pajak-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// ChatHandler handles the chat session and feedback endpoints. All of them
// run behind AuthMiddleware.
type ChatHandler struct {
	chatService service.ChatService
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService service.ChatService) *ChatHandler {
	return &ChatHandler{chatService: chatService}
}

// currentUser pulls the authenticated user stored by AuthMiddleware.
func currentUser(c *gin.Context) (*model.User, bool) {
	v, exists := c.Get("user")
	if !exists {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Tidak dapat memuat informasi pengguna",
		})
		return nil, false
	}
	user, ok := v.(*model.User)
	if !ok {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Tipe data pengguna tidak valid",
		})
		return nil, false
	}
	return user, true
}

// respondError maps service errors to HTTP responses. Ownership and
// existence failures share the same not-found answer.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrChatNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Chat tidak ditemukan"})
	case errors.Is(err, service.ErrMessageNotFound):
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Pesan tidak ditemukan"})
	case errors.Is(err, service.ErrEmptyMessage),
		errors.Is(err, service.ErrMessageTooLong),
		errors.Is(err, service.ErrEmptyTitle),
		errors.Is(err, service.ErrTitleTooLong),
		errors.Is(err, service.ErrInvalidRating):
		c.JSON(http.StatusBadRequest, gin.H{"code": http.StatusBadRequest, "message": err.Error()})
	default:
		log.Errorf("chat request failed, path: %s, error: %v", c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"code":    http.StatusInternalServerError,
			"message": "Terjadi kesalahan internal",
		})
	}
}

// CreateChat starts a new empty chat session.
func (h *ChatHandler) CreateChat(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	chat, err := h.chatService.CreateChat(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Chat berhasil dibuat",
		"data":    chat,
	})
}

// ListChats returns the caller's chat sessions, newest first.
func (h *ChatHandler) ListChats(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	chats, err := h.chatService.ListHistory(user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "OK",
		"data":    chats,
	})
}

// ListMessages returns every message of a chat in creation order.
func (h *ChatHandler) ListMessages(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	messages, err := h.chatService.ListMessages(c.Param("chatId"), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "OK",
		"data":    messages,
	})
}

// SendMessageRequest is the request body for posting a message.
type SendMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// SendMessage posts a user message and returns it together with the
// generated assistant reply.
func (h *ChatHandler) SendMessage(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("SendMessage: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "Permintaan tidak valid: content wajib diisi",
		})
		return
	}

	userMsg, assistantMsg, err := h.chatService.SendMessage(c.Request.Context(), c.Param("chatId"), user.ID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "OK",
		"data": gin.H{
			"userMessage":      userMsg,
			"assistantMessage": assistantMsg,
		},
	})
}

// RenameChatRequest is the request body for renaming a chat.
type RenameChatRequest struct {
	Title string `json:"title" binding:"required"`
}

// RenameChat sets an explicit title on a chat.
func (h *ChatHandler) RenameChat(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	var req RenameChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("RenameChat: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "Permintaan tidak valid: title wajib diisi",
		})
		return
	}

	chat, err := h.chatService.RenameChat(c.Param("chatId"), user.ID, req.Title)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Judul berhasil diperbarui",
		"data":    chat,
	})
}

// DeleteChat removes a chat with all its messages and feedback.
func (h *ChatHandler) DeleteChat(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	if err := h.chatService.DeleteChat(c.Param("chatId"), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Chat berhasil dihapus",
	})
}

// FeedbackRequest is the request body for rating an assistant message.
type FeedbackRequest struct {
	Rating string `json:"rating" binding:"required"`
}

// SubmitFeedback creates or replaces the caller's rating on a message.
func (h *ChatHandler) SubmitFeedback(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	messageID, err := strconv.ParseUint(c.Param("messageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Pesan tidak ditemukan"})
		return
	}

	var req FeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("SubmitFeedback: Invalid request payload, error: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    http.StatusBadRequest,
			"message": "Permintaan tidak valid: rating wajib diisi",
		})
		return
	}

	feedback, err := h.chatService.SubmitFeedback(uint(messageID), user.ID, req.Rating)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Masukan tersimpan",
		"data":    feedback,
	})
}

// DeleteFeedback removes the caller's rating on a message. Removing a
// rating that does not exist still succeeds.
func (h *ChatHandler) DeleteFeedback(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		return
	}

	messageID, err := strconv.ParseUint(c.Param("messageId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"code": http.StatusNotFound, "message": "Pesan tidak ditemukan"})
		return
	}

	if err := h.chatService.DeleteFeedback(uint(messageID), user.ID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    http.StatusOK,
		"message": "Masukan dihapus",
	})
}
