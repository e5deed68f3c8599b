package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/models"
	"github.com/justai-labs/justai-engine/pkg/services"
)

// CreateConversationRequest is the request body for creating a conversation.
type CreateConversationRequest struct {
	AgentName string           `json:"agent_name"`
	Messages  []models.Message `json:"messages"`
	Tags      []string         `json:"tags"`
}

// ModifyMessagesRequest is the request body for replacing a conversation's
// messages. A nil Tags keeps the stored tags.
type ModifyMessagesRequest struct {
	Messages []models.Message `json:"messages"`
	Tags     []string         `json:"tags"`
}

// OverwriteConversationRequest is the request body for full-replace-by-id.
type OverwriteConversationRequest struct {
	Conversation *models.Conversation `json:"conversation"`
	Label        string               `json:"label"`
}

// GenerateConversationRequest is the request body for synthesizing a
// conversation from a stored dataset generation prompt.
type GenerateConversationRequest struct {
	AgentName   string `json:"agent_name"`
	PromptLabel string `json:"prompt_label"`
	UserName    string `json:"user_name"`
}

// ConversationsHandler handles conversation-related HTTP requests.
type ConversationsHandler struct {
	conversationService services.ConversationService
	generatorService    services.DatasetGeneratorService
	logger              *zap.Logger
}

// NewConversationsHandler creates a new conversations handler.
func NewConversationsHandler(
	conversationService services.ConversationService,
	generatorService services.DatasetGeneratorService,
	logger *zap.Logger,
) *ConversationsHandler {
	return &ConversationsHandler{
		conversationService: conversationService,
		generatorService:    generatorService,
		logger:              logger,
	}
}

// RegisterRoutes registers the conversations handler's routes on the given mux.
func (h *ConversationsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/conversations", h.List)
	mux.HandleFunc("POST /api/conversations", h.Create)
	mux.HandleFunc("POST /api/conversations/generate", h.Generate)
	mux.HandleFunc("DELETE /api/conversations/{id}", h.Delete)
	mux.HandleFunc("PUT /api/conversations/{id}", h.Overwrite)
	mux.HandleFunc("PUT /api/conversations/{id}/messages", h.ModifyMessages)
	mux.HandleFunc("POST /api/conversations/{id}/recover", h.Recover)
}

// List handles GET /api/conversations
// Optional query parameters: agent filters by agent name, tag filters by
// exact tag match.
func (h *ConversationsHandler) List(w http.ResponseWriter, r *http.Request) {
	var conversations []*models.Conversation
	var err error

	if agent := r.URL.Query().Get("agent"); agent != "" {
		conversations, err = h.conversationService.GetByAgentName(r.Context(), agent)
	} else {
		conversations, err = h.conversationService.GetAll(r.Context())
	}
	if err != nil {
		respondServiceError(w, h.logger, err, "list_failed", "Failed to list conversations")
		return
	}

	if tag := r.URL.Query().Get("tag"); tag != "" {
		conversations = h.conversationService.SearchByTag(conversations, tag)
	}

	if err := WriteJSON(w, http.StatusOK, conversations); err != nil {
		h.logger.Error("Failed to encode conversations response", zap.Error(err))
	}
}

// Create handles POST /api/conversations
func (h *ConversationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.AgentName == "" {
		respondError(w, h.logger, http.StatusBadRequest, "missing_agent_name", "Agent name is required")
		return
	}

	conv, err := h.conversationService.Create(r.Context(), req.AgentName, req.Messages, req.Tags)
	if err != nil {
		respondServiceError(w, h.logger, err, "create_failed", "Failed to create conversation")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, conv); err != nil {
		h.logger.Error("Failed to encode conversation response", zap.Error(err))
	}
}

// Generate handles POST /api/conversations/generate
// Synthesizes a conversation with the configured LLM and stores it.
func (h *ConversationsHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.AgentName == "" || req.PromptLabel == "" || req.UserName == "" {
		respondError(w, h.logger, http.StatusBadRequest, "missing_fields", "agent_name, prompt_label and user_name are required")
		return
	}

	conv, err := h.generatorService.Generate(r.Context(), req.AgentName, req.PromptLabel, req.UserName)
	if err != nil {
		respondServiceError(w, h.logger, err, "generate_failed", "Failed to generate conversation")
		return
	}

	if err := WriteJSON(w, http.StatusCreated, conv); err != nil {
		h.logger.Error("Failed to encode conversation response", zap.Error(err))
	}
}

// Delete handles DELETE /api/conversations/{id}
// Backs the conversation up before removal and returns the removed record.
func (h *ConversationsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_id", "Invalid conversation ID format")
		return
	}

	conv, err := h.conversationService.DeleteByID(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "delete_failed", "Failed to delete conversation")
		return
	}

	if err := WriteJSON(w, http.StatusOK, conv); err != nil {
		h.logger.Error("Failed to encode conversation response", zap.Error(err))
	}
}

// Overwrite handles PUT /api/conversations/{id}
// Replaces the stored record wholesale with the submitted one, rewriting
// its label tag.
func (h *ConversationsHandler) Overwrite(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_id", "Invalid conversation ID format")
		return
	}

	var req OverwriteConversationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Conversation == nil {
		respondError(w, h.logger, http.StatusBadRequest, "missing_conversation", "Conversation is required")
		return
	}
	req.Conversation.ID = id

	if err := h.conversationService.Overwrite(r.Context(), req.Conversation, req.Label); err != nil {
		respondServiceError(w, h.logger, err, "overwrite_failed", "Failed to overwrite conversation")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// ModifyMessages handles PUT /api/conversations/{id}/messages
func (h *ConversationsHandler) ModifyMessages(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_id", "Invalid conversation ID format")
		return
	}

	var req ModifyMessagesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.conversationService.ModifyMessages(r.Context(), id, req.Messages, req.Tags); err != nil {
		respondServiceError(w, h.logger, err, "modify_failed", "Failed to modify conversation")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Recover handles POST /api/conversations/{id}/recover
// Moves a backed-up conversation back into the primary store.
func (h *ConversationsHandler) Recover(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_id", "Invalid conversation ID format")
		return
	}

	if err := h.conversationService.Recover(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "recover_failed", "Failed to recover conversation")
		return
	}

	w.WriteHeader(http.StatusOK)
}
