package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/justai-labs/justai-engine/pkg/services"
)

// CreateAgentRequest is the request body for creating an agent.
type CreateAgentRequest struct {
	Name         string `json:"name"`
	SystemPrompt string `json:"system_prompt"`
}

// EditAgentRequest is the request body for editing an agent. An empty
// NewName keeps the current name.
type EditAgentRequest struct {
	NewName      string `json:"new_name"`
	SystemPrompt string `json:"system_prompt"`
}

// RecoverAgentRequest is the request body for recovering a deleted agent.
type RecoverAgentRequest struct {
	SystemPrompt string `json:"system_prompt"`
}

// SetPromptRequest is the request body for storing a dataset generation
// prompt under a label.
type SetPromptRequest struct {
	Prompt string `json:"prompt"`
}

// AgentsHandler handles agent-related HTTP requests.
type AgentsHandler struct {
	agentService services.AgentService
	logger       *zap.Logger
}

// NewAgentsHandler creates a new agents handler.
func NewAgentsHandler(agentService services.AgentService, logger *zap.Logger) *AgentsHandler {
	return &AgentsHandler{
		agentService: agentService,
		logger:       logger,
	}
}

// RegisterRoutes registers the agents handler's routes on the given mux.
func (h *AgentsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/agents", h.List)
	mux.HandleFunc("POST /api/agents", h.Create)
	mux.HandleFunc("GET /api/agents/{name}", h.Get)
	mux.HandleFunc("PUT /api/agents/{name}", h.Edit)
	mux.HandleFunc("DELETE /api/agents/{name}", h.Delete)
	mux.HandleFunc("POST /api/agents/{name}/recover", h.Recover)
	mux.HandleFunc("PUT /api/agents/{name}/prompts/{label}", h.SetPrompt)
	mux.HandleFunc("DELETE /api/agents/{name}/prompts/{label}", h.DeletePrompt)
}

// List handles GET /api/agents
func (h *AgentsHandler) List(w http.ResponseWriter, r *http.Request) {
	agents, err := h.agentService.GetAll(r.Context())
	if err != nil {
		respondServiceError(w, h.logger, err, "list_failed", "Failed to list agents")
		return
	}

	if err := WriteJSON(w, http.StatusOK, agents); err != nil {
		h.logger.Error("Failed to encode agents response", zap.Error(err))
	}
}

// Create handles POST /api/agents
func (h *AgentsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Name == "" {
		respondError(w, h.logger, http.StatusBadRequest, "missing_name", "Agent name is required")
		return
	}

	if err := h.agentService.Create(r.Context(), req.Name, req.SystemPrompt); err != nil {
		respondServiceError(w, h.logger, err, "create_failed", "Failed to create agent")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// Get handles GET /api/agents/{name}
func (h *AgentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	agent, err := h.agentService.GetOne(r.Context(), r.PathValue("name"))
	if err != nil {
		respondServiceError(w, h.logger, err, "get_failed", "Failed to get agent")
		return
	}

	if err := WriteJSON(w, http.StatusOK, agent); err != nil {
		h.logger.Error("Failed to encode agent response", zap.Error(err))
	}
}

// Edit handles PUT /api/agents/{name}
// Renames the agent and/or replaces its system prompt; both changes
// propagate into linked conversations.
func (h *AgentsHandler) Edit(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")

	var req EditAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	newName := req.NewName
	if newName == "" {
		newName = name
	}

	if err := h.agentService.Edit(r.Context(), name, newName, req.SystemPrompt); err != nil {
		respondServiceError(w, h.logger, err, "edit_failed", "Failed to edit agent")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Delete handles DELETE /api/agents/{name}
// Linked conversations are staged in the backup store before removal.
func (h *AgentsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.agentService.Delete(r.Context(), r.PathValue("name")); err != nil {
		respondServiceError(w, h.logger, err, "delete_failed", "Failed to delete agent")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Recover handles POST /api/agents/{name}/recover
// Recreates a deleted agent and restores its backed-up conversations.
func (h *AgentsHandler) Recover(w http.ResponseWriter, r *http.Request) {
	var req RecoverAgentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if err := h.agentService.Recover(r.Context(), r.PathValue("name"), req.SystemPrompt); err != nil {
		respondServiceError(w, h.logger, err, "recover_failed", "Failed to recover agent")
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// SetPrompt handles PUT /api/agents/{name}/prompts/{label}
// Stores a dataset generation prompt, overwriting any existing prompt under
// the same label.
func (h *AgentsHandler) SetPrompt(w http.ResponseWriter, r *http.Request) {
	var req SetPromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, h.logger, http.StatusBadRequest, "invalid_request", "Invalid request body")
		return
	}

	if req.Prompt == "" {
		respondError(w, h.logger, http.StatusBadRequest, "missing_prompt", "Prompt is required")
		return
	}

	err := h.agentService.AddDatasetGenerationPrompt(r.Context(), r.PathValue("name"), r.PathValue("label"), req.Prompt)
	if err != nil {
		respondServiceError(w, h.logger, err, "set_prompt_failed", "Failed to store prompt")
		return
	}

	w.WriteHeader(http.StatusOK)
}

// DeletePrompt handles DELETE /api/agents/{name}/prompts/{label}
func (h *AgentsHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	err := h.agentService.DeleteDatasetGenerationPrompt(r.Context(), r.PathValue("name"), r.PathValue("label"))
	if err != nil {
		respondServiceError(w, h.logger, err, "delete_prompt_failed", "Failed to delete prompt")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
