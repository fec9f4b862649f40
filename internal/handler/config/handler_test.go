package config

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/auralab/companion/internal/model/persona"
	chatservice "github.com/auralab/companion/internal/service/chat"
)

func setupRouter() *chi.Mux {
	chatSvc := chatservice.NewService(nil, persona.NewCatalog(persona.Seed()))
	handler := New(chatSvc)

	r := chi.NewRouter()
	handler.RegisterRoutes(r)
	return r
}

func TestGetEmotionsRequiresUser(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/config/emotions", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestPutThenGetEmotions(t *testing.T) {
	r := setupRouter()

	payload, _ := json.Marshal(map[string]any{
		"userId":   "user-1",
		"emotions": map[string]int{"Joy": 40, "Calm": -10},
	})
	put := httptest.NewRequest(http.MethodPut, "/config/emotions", bytes.NewReader(payload))
	put.Header.Set("Content-Type", "application/json")
	putResp := httptest.NewRecorder()
	r.ServeHTTP(putResp, put)
	if putResp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", putResp.Code, putResp.Body.String())
	}

	get := httptest.NewRequest(http.MethodGet, "/config/emotions?userId=user-1", nil)
	getResp := httptest.NewRecorder()
	r.ServeHTTP(getResp, get)

	var body struct {
		Emotions map[string]int `json:"emotions"`
	}
	if err := json.Unmarshal(getResp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Emotions["Joy"] != 40 || body.Emotions["Calm"] != -10 {
		t.Fatalf("unexpected emotions: %v", body.Emotions)
	}
}

func TestPutBaseEmotionsRejectsUnnormalized(t *testing.T) {
	r := setupRouter()

	payload, _ := json.Marshal(map[string]any{
		"userId":       "user-1",
		"baseEmotions": map[string]int{"Joy": 10},
	})
	req := httptest.NewRequest(http.MethodPut, "/config/base-emotions", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error == "" {
		t.Fatal("expected an error message")
	}
}

func TestGetAllShape(t *testing.T) {
	r := setupRouter()

	req := httptest.NewRequest(http.MethodGet, "/config/all?userId=user-1", nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var body struct {
		Memory       string         `json:"memory"`
		Emotions     map[string]int `json:"emotions"`
		BaseEmotions map[string]int `json:"baseEmotions"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Emotions == nil || body.BaseEmotions == nil {
		t.Fatalf("expected emotion maps in payload: %s", resp.Body.String())
	}
}
