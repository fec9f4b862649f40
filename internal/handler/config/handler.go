// Package config exposes the per-user emotion and memory configuration
// endpoints of the dev backend.
package config

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/auralab/companion/internal/model/emotion"
	chatService "github.com/auralab/companion/internal/service/chat"
	"github.com/auralab/companion/pkg/utils"
)

// Handler serves the /config routes.
type Handler struct {
	chatSvc *chatService.Service
}

// New creates the config handler.
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes mounts the config routes.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/config/emotions", h.handleGetEmotions)
	r.Put("/config/emotions", h.handlePutEmotions)
	r.Get("/config/base-emotions", h.handleGetBaseEmotions)
	r.Put("/config/base-emotions", h.handlePutBaseEmotions)
	r.Get("/config/all", h.handleGetAll)
}

func (h *Handler) handleGetEmotions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"emotions": h.chatSvc.Emotions(userID),
	})
}

func (h *Handler) handlePutEmotions(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID   string         `json:"userId"`
		Emotions emotion.Vector `json:"emotions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	h.chatSvc.SetEmotions(payload.UserID, payload.Emotions)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"emotions": h.chatSvc.Emotions(payload.UserID),
	})
}

func (h *Handler) handleGetBaseEmotions(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"baseEmotions": h.chatSvc.BaseEmotions(userID),
	})
}

func (h *Handler) handlePutBaseEmotions(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		UserID       string         `json:"userId"`
		BaseEmotions emotion.Vector `json:"baseEmotions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if payload.UserID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	if err := h.chatSvc.SetBaseEmotions(payload.UserID, payload.BaseEmotions); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"baseEmotions": h.chatSvc.BaseEmotions(payload.UserID),
	})
}

func (h *Handler) handleGetAll(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUser(w, r)
	if !ok {
		return
	}
	memory, mood, base := h.chatSvc.ConfigAll(userID)
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"memory":       memory,
		"emotions":     mood,
		"baseEmotions": base,
	})
}

func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		utils.RespondError(w, http.StatusBadRequest, "userId query parameter is required")
		return "", false
	}
	return userID, true
}
