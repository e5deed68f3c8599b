package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/models"
	"github.com/justai-labs/justai-engine/pkg/services"
)

// CreateFeedbackRequest is the request body for submitting feedback.
type CreateFeedbackRequest struct {
	Label     string               `json:"label"`
	UserName  string               `json:"user_name"`
	Content   string               `json:"content"`
	Tags      []models.FeedbackTag `json:"tags"`
	Rating    int                  `json:"rating"`
	CreatedAt time.Time            `json:"created_at"`
}

// EditFeedbackRequest is the request body for editing feedback. The author
// and creation timestamp of the stored entry are preserved.
type EditFeedbackRequest struct {
	Label   string               `json:"label"`
	Content string               `json:"content"`
	Tags    []models.FeedbackTag `json:"tags"`
	Rating  int                  `json:"rating"`
}

// FeedbackHandler handles feedback-related HTTP requests.
type FeedbackHandler struct {
	feedbackService services.FeedbackService
	logger          *zap.Logger
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(feedbackService services.FeedbackService, logger *zap.Logger) *FeedbackHandler {
	return &FeedbackHandler{
		feedbackService: feedbackService,
		logger:          logger,
	}
}

// RegisterRoutes registers the feedback handler's routes on the given mux.
func (h *FeedbackHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/feedback", h.List)
	mux.HandleFunc("POST /api/feedback", h.Create)
	mux.HandleFunc("GET /api/feedback/{id}", h.Get)
	mux.HandleFunc("PUT /api/feedback/{id}", h.Edit)
	mux.HandleFunc("DELETE /api/feedback/{id}", h.Delete)
}

// List handles GET /api/feedback
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.feedbackService.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list_failed", "Failed to list feedback")
		return
	}

	if err := WriteJSON(w, http.StatusOK, entries); err != nil {
		h.logger.Error("Failed to encode feedback response", zap.Error(err))
	}
}

// Create handles POST /api/feedback
func (h *FeedbackHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.UserName == "" {
		respondError(w, h.logger, http.StatusBadRequest, "missing_user_name", "User name is required")
		return
	}

	fb, err := h.feedbackService.Create(r.Context(), req.Label, req.UserName, req.Content, req.Tags, req.Rating, req.CreatedAt)
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_feedback", err.Error())
		return
	}

	if err := WriteJSON(w, http.StatusCreated, fb); err != nil {
		h.logger.Error("Failed to encode feedback response", zap.Error(err))
	}
}

// Get handles GET /api/feedback/{id}
func (h *FeedbackHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_id", "Invalid feedback ID format")
		return
	}

	fb, err := h.feedbackService.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, h.logger, err, "get_failed", "Failed to get feedback")
		return
	}

	if err := WriteJSON(w, http.StatusOK, fb); err != nil {
		h.logger.Error("Failed to encode feedback response", zap.Error(err))
	}
}

// Edit handles PUT /api/feedback/{id}
func (h *FeedbackHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_id", "Invalid feedback ID format")
		return
	}

	var req EditFeedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.feedbackService.Edit(r.Context(), id, req.Label, req.Content, req.Tags, req.Rating); err != nil {
		respondServiceError(w, h.logger, err, "edit_failed", "Failed to edit feedback")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /api/feedback/{id}
func (h *FeedbackHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_id", "Invalid feedback ID format")
		return
	}

	if err := h.feedbackService.Delete(r.Context(), id); err != nil {
		respondServiceError(w, h.logger, err, "delete_failed", "Failed to delete feedback")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
