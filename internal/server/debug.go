package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/tos-kamiya/zombie-escape-sub001/internal/engine"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/blueprint"
	"github.com/tos-kamiya/zombie-escape-sub001/pkg/utils"
)

// DebugHandler предоставляет доступ к внутреннему состоянию движка
type DebugHandler struct {
	Service *engine.GameService
}

func NewDebugHandler(s *engine.GameService) *DebugHandler {
	return &DebugHandler{Service: s}
}

// RegisterRoutes регистрирует debug-эндпоинты
func (h *DebugHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/debug/sessions", h.handleSessions)
	mux.HandleFunc("/debug/history", h.handleHistory)
	mux.HandleFunc("/debug/blueprint", h.handleBlueprint)
}

// /debug/sessions — живые сессии со статусом и числом зрителей.
func (h *DebugHandler) handleSessions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.Service.Sessions())
}

// /debug/history?limit=20 — последние записи каталога.
func (h *DebugHandler) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	records, err := h.Service.RecentSessions(limit)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, records)
}

// /debug/blueprint?stage=stage1&seed=abc — ASCII-дамп сгенерированного
// уровня без запуска сессии. Удобно для подбора сидов.
func (h *DebugHandler) handleBlueprint(w http.ResponseWriter, r *http.Request) {
	stageID := r.URL.Query().Get("stage")
	stage, ok := engine.StageByID(h.Service.Stages, stageID)
	if !ok {
		http.Error(w, "unknown stage", http.StatusNotFound)
		return
	}

	seed := utils.StringToSeed(r.URL.Query().Get("seed"))
	bp, err := blueprint.GenerateValid(seed, stage.BlueprintOptions())
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(bp.Grid.String()))
}

func writeJSON(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

	w.Header().Set("Content-Type", "application/json")

	if data == nil {
		w.Write([]byte("[]"))
		return
	}

	json.NewEncoder(w).Encode(data)
}
