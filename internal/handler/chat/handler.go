// Package chat exposes the conversation endpoints of the dev backend.
package chat

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	chatService "github.com/auralab/companion/internal/service/chat"
	"github.com/auralab/companion/pkg/utils"
)

// Handler serves the chat, end-chat, and reset routes.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the chat handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the conversation routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
	r.Post("/end-chat", h.handleEndChat)
	r.Post("/reset", h.handleReset)
}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Message   string `json:"message"`
		SessionID string `json:"sessionId"`
		UserID    string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.chatSvc.Chat(r.Context(), payload.UserID, payload.SessionID, payload.Message)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chatService.ErrMessageRequired) {
			status = http.StatusBadRequest
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"response":  result.Reply,
		"sessionId": result.SessionID,
		"emotions":  result.Emotions,
	})
}

func (h *Handler) handleEndChat(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		SessionID  string         `json:"sessionId"`
		UserID     string         `json:"userId"`
		SurveyData map[string]any `json:"surveyData"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	result, err := h.chatSvc.EndChat(payload.SessionID, payload.UserID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, chatService.ErrSessionNotFound) {
			status = http.StatusNotFound
		}
		utils.RespondError(w, status, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"memory_saved":   result.MemorySaved,
		"tracking_saved": result.TrackingSaved,
		"updated_memory": result.UpdatedMemory,
	})
}

func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emotionsDeleted, memoryDeleted, err := h.chatSvc.Reset(payload.UserID)
	if err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"success":          true,
		"message":          "conversation state cleared",
		"emotions_deleted": emotionsDeleted,
		"memory_deleted":   memoryDeleted,
		"userId":           payload.UserID,
	})
}
