package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	logger_lib "github.com/s21platform/logger-lib"

	"github.com/s21platform/messenger-service/internal/chat"
	"github.com/s21platform/messenger-service/internal/config"
	"github.com/s21platform/messenger-service/internal/model"
)

type Handler struct {
	service      ChatService
	validator    Validator
	jwtGenerator JWTGenerator
}

func New(service ChatService, validator Validator, jwtGenerator JWTGenerator) *Handler {
	return &Handler{
		service:      service,
		validator:    validator,
		jwtGenerator: jwtGenerator,
	}
}

func RegisterRoutes(router chi.Router, h *Handler) {
	router.Route("/api/messenger", func(r chi.Router) {
		r.Get("/conversations", h.GetConversations)
		r.Post("/conversations/direct", h.CreateDirectConversation)
		r.Post("/conversations/group", h.CreateGroupConversation)
		r.Patch("/conversations/{conversation_id}", h.UpdateConversation)
		r.Post("/conversations/{conversation_id}/leave", h.LeaveConversation)
		r.Post("/conversations/{conversation_id}/read", h.MarkConversationAsRead)
		r.Get("/conversations/{conversation_id}/messages", h.GetMessages)
		r.Post("/conversations/{conversation_id}/messages", h.SendMessage)
		r.Post("/conversations/{conversation_id}/typing", h.StartTyping)
		r.Delete("/conversations/{conversation_id}/typing", h.StopTyping)
		r.Get("/conversations/{conversation_id}/subscribe-token", h.GetSubscribeToken)
		r.Patch("/messages/{message_id}", h.EditMessage)
		r.Delete("/messages/{message_id}", h.DeleteMessage)
		r.Post("/messages/{message_id}/reactions", h.AddReaction)
		r.Delete("/messages/{message_id}/reactions", h.RemoveReaction)
		r.Post("/messages/{message_id}/read", h.MarkMessageAsRead)
		r.Get("/realtime/token", h.GetConnectToken)
	})
}

func (h *Handler) GetConversations(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetConversations")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	conversations, err := h.service.ListConversations(r.Context(), userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load conversations: %v", err))
		h.writeError(w, "failed to load conversations", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, GetConversationsResponse{Conversations: conversations}, http.StatusOK)
}

func (h *Handler) GetMessages(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetMessages")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	conversationID := chi.URLParam(r, "conversation_id")

	isMember, err := h.service.IsMember(r.Context(), conversationID, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check conversation membership: %v", err))
		h.writeError(w, "failed to check conversation membership", http.StatusInternalServerError)
		return
	}
	if !isMember {
		logger.Error("user is not a member of the conversation")
		h.writeError(w, "user is not a member of the conversation", http.StatusForbidden)
		return
	}

	messages, err := h.service.LoadMessages(r.Context(), conversationID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load messages: %v", err))
		h.writeError(w, "failed to load messages", http.StatusInternalServerError)
		return
	}

	typingUsers, err := h.service.ListTypingUsers(r.Context(), conversationID, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to load typing indicators: %v", err))
		h.writeError(w, "failed to load typing indicators", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, GetMessagesResponse{Messages: messages, TypingUsers: typingUsers}, http.StatusOK)
}

func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("SendMessage")

	var req SendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	senderID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get sender ID")
		h.writeError(w, "failed to get sender ID", http.StatusInternalServerError)
		return
	}

	if err := h.validator.ValidateSendMessage(&req); err != nil {
		logger.Error(fmt.Sprintf("message validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("message validation failed: %v", err), http.StatusBadRequest)
		return
	}

	conversationID := chi.URLParam(r, "conversation_id")

	var replyToID *uuid.UUID
	if req.ReplyToID != nil && *req.ReplyToID != "" {
		replyUUID, err := uuid.Parse(*req.ReplyToID)
		if err != nil {
			logger.Error(fmt.Sprintf("failed to parse reply_to_id: %v", err))
			h.writeError(w, "reply_to_id is not a valid uuid", http.StatusBadRequest)
			return
		}
		replyToID = &replyUUID
	}

	attachments := make([]model.MessageAttachment, 0, len(req.Attachments))
	for _, upload := range req.Attachments {
		attachments = append(attachments, model.MessageAttachment{
			FilePath:      upload.FilePath,
			FileName:      upload.FileName,
			FileType:      upload.FileType,
			FileSize:      upload.FileSize,
			ThumbnailPath: upload.ThumbnailPath,
			Duration:      upload.Duration,
			Width:         upload.Width,
			Height:        upload.Height,
		})
	}

	message, err := h.service.SendMessage(r.Context(), conversationID, senderID, req.Content, req.MessageType, replyToID, attachments)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to send message: %v", err))
		h.writeError(w, "failed to send message", h.statusForError(err))
		return
	}

	response := SendMessageResponse{
		MessageID: message.ID.String(),
		SentAt:    message.CreatedAt.Format(time.RFC3339),
	}

	h.writeJSON(w, response, http.StatusOK)
}

func (h *Handler) EditMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("EditMessage")

	var req EditMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	messageID := chi.URLParam(r, "message_id")

	if err := h.service.EditMessage(r.Context(), messageID, userID, req.Content); err != nil {
		logger.Error(fmt.Sprintf("failed to edit message: %v", err))
		h.writeError(w, fmt.Sprintf("failed to edit message: %v", err), h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) DeleteMessage(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("DeleteMessage")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	messageID := chi.URLParam(r, "message_id")

	if err := h.service.DeleteMessage(r.Context(), messageID, userID); err != nil {
		logger.Error(fmt.Sprintf("failed to delete message: %v", err))
		h.writeError(w, fmt.Sprintf("failed to delete message: %v", err), h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) AddReaction(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("AddReaction")

	var req ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	if err := h.validator.ValidateReaction(&req); err != nil {
		logger.Error(fmt.Sprintf("reaction validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("reaction validation failed: %v", err), http.StatusBadRequest)
		return
	}

	messageID := chi.URLParam(r, "message_id")

	if err := h.service.AddReaction(r.Context(), messageID, userID, req.Emoji); err != nil {
		logger.Error(fmt.Sprintf("failed to add reaction: %v", err))
		h.writeError(w, fmt.Sprintf("failed to add reaction: %v", err), h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) RemoveReaction(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("RemoveReaction")

	var req ReactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	if err := h.validator.ValidateReaction(&req); err != nil {
		logger.Error(fmt.Sprintf("reaction validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("reaction validation failed: %v", err), http.StatusBadRequest)
		return
	}

	messageID := chi.URLParam(r, "message_id")

	if err := h.service.RemoveReaction(r.Context(), messageID, userID, req.Emoji); err != nil {
		logger.Error(fmt.Sprintf("failed to remove reaction: %v", err))
		h.writeError(w, "failed to remove reaction", h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkMessageAsRead(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("MarkMessageAsRead")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	messageID := chi.URLParam(r, "message_id")

	if err := h.service.MarkMessageAsRead(r.Context(), messageID, userID); err != nil {
		logger.Error(fmt.Sprintf("failed to mark message as read: %v", err))
		h.writeError(w, "failed to mark message as read", h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) MarkConversationAsRead(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("MarkConversationAsRead")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	conversationID := chi.URLParam(r, "conversation_id")

	if err := h.service.MarkConversationAsRead(r.Context(), conversationID, userID); err != nil {
		logger.Error(fmt.Sprintf("failed to mark conversation as read: %v", err))
		h.writeError(w, "failed to mark conversation as read", h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CreateDirectConversation(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CreateDirectConversation")

	var req CreateDirectConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	creatorID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get creator ID")
		h.writeError(w, "failed to get creator ID", http.StatusInternalServerError)
		return
	}

	if err := h.validator.ValidateCreateDirect(&req, creatorID); err != nil {
		logger.Error(fmt.Sprintf("conversation validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("conversation validation failed: %v", err), http.StatusBadRequest)
		return
	}

	conversationID, err := h.service.CreateDirectConversation(r.Context(), creatorID, req.UserID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create direct conversation: %v", err))
		h.writeError(w, "failed to create direct conversation", h.statusForError(err))
		return
	}

	h.writeJSON(w, CreateConversationResponse{ID: conversationID}, http.StatusOK)
}

func (h *Handler) CreateGroupConversation(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("CreateGroupConversation")

	var req CreateGroupConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	creatorID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get creator ID")
		h.writeError(w, "failed to get creator ID", http.StatusInternalServerError)
		return
	}

	if err := h.validator.ValidateCreateGroup(&req, creatorID); err != nil {
		logger.Error(fmt.Sprintf("conversation validation failed: %v", err))
		h.writeError(w, fmt.Sprintf("conversation validation failed: %v", err), http.StatusBadRequest)
		return
	}

	conversationID, err := h.service.CreateGroupConversation(r.Context(), creatorID, req.Name, req.Description, req.MemberIDs)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to create group conversation: %v", err))
		h.writeError(w, "failed to create group conversation", h.statusForError(err))
		return
	}

	h.writeJSON(w, CreateConversationResponse{ID: conversationID}, http.StatusOK)
}

func (h *Handler) UpdateConversation(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("UpdateConversation")

	var req model.ConversationUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Error(fmt.Sprintf("failed to decode request: %v", err))
		h.writeError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	conversationID := chi.URLParam(r, "conversation_id")

	if err := h.service.UpdateConversation(r.Context(), conversationID, userID, req); err != nil {
		logger.Error(fmt.Sprintf("failed to update conversation: %v", err))
		h.writeError(w, "failed to update conversation", h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) LeaveConversation(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("LeaveConversation")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	conversationID := chi.URLParam(r, "conversation_id")

	if err := h.service.LeaveConversation(r.Context(), conversationID, userID); err != nil {
		logger.Error(fmt.Sprintf("failed to leave conversation: %v", err))
		h.writeError(w, "failed to leave conversation", h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) StartTyping(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("StartTyping")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	conversationID := chi.URLParam(r, "conversation_id")

	if err := h.service.StartTyping(r.Context(), conversationID, userID); err != nil {
		logger.Error(fmt.Sprintf("failed to start typing: %v", err))
		h.writeError(w, "failed to start typing", h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) StopTyping(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("StopTyping")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	conversationID := chi.URLParam(r, "conversation_id")

	if err := h.service.StopTyping(r.Context(), conversationID, userID); err != nil {
		logger.Error(fmt.Sprintf("failed to stop typing: %v", err))
		h.writeError(w, "failed to stop typing", h.statusForError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetConnectToken(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetConnectToken")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	token, expiresAt, err := h.jwtGenerator.GenerateConnectToken(userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate access token: %v", err))
		h.writeError(w, "failed to generate access token", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, GetConnectTokenResponse{Token: token, ExpiresAt: expiresAt}, http.StatusOK)
}

func (h *Handler) GetSubscribeToken(w http.ResponseWriter, r *http.Request) {
	logger := logger_lib.FromContext(r.Context(), config.KeyLogger)
	logger.AddFuncName("GetSubscribeToken")

	userID, ok := r.Context().Value(config.KeyUUID).(string)
	if !ok {
		logger.Error("failed to get user ID")
		h.writeError(w, "failed to get user ID", http.StatusInternalServerError)
		return
	}

	conversationID := chi.URLParam(r, "conversation_id")

	isMember, err := h.service.IsMember(r.Context(), conversationID, userID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to check conversation membership: %v", err))
		h.writeError(w, "failed to check conversation membership", http.StatusInternalServerError)
		return
	}
	if !isMember {
		logger.Error("user is not a member of the conversation")
		h.writeError(w, "user is not a member of the conversation", http.StatusForbidden)
		return
	}

	token, expiresAt, err := h.jwtGenerator.GenerateSubscribeToken(userID, conversationID)
	if err != nil {
		logger.Error(fmt.Sprintf("failed to generate subscribe token: %v", err))
		h.writeError(w, "failed to generate subscribe token", http.StatusInternalServerError)
		return
	}

	response := GetSubscribeTokenResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Channel:   conversationID,
	}

	h.writeJSON(w, response, http.StatusOK)
}

func (h *Handler) statusForError(err error) int {
	switch {
	case errors.Is(err, chat.ErrNotMember), errors.Is(err, chat.ErrNotSender):
		return http.StatusForbidden
	case errors.Is(err, chat.ErrMessageNotFound):
		return http.StatusNotFound
	case errors.Is(err, chat.ErrMessageDeleted), errors.Is(err, chat.ErrSelfConversation):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(Error{Error: message})
}
