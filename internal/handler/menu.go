package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tbessiere/foyer/internal/model"
	"github.com/tbessiere/foyer/internal/rotation"
	"github.com/tbessiere/foyer/internal/store"
	"github.com/tbessiere/foyer/internal/websocket"
)

type MenuHandler struct {
	menuStore     *store.MenuStore
	memberStore   *store.FamilyMemberStore
	settingsStore *store.SettingsStore
	hub           *websocket.Hub
	now           func() time.Time
}

func NewMenuHandler(ms *store.MenuStore, fs *store.FamilyMemberStore, ss *store.SettingsStore, hub *websocket.Hub) *MenuHandler {
	return &MenuHandler{
		menuStore:     ms,
		memberStore:   fs,
		settingsStore: ss,
		hub:           hub,
		now:           time.Now,
	}
}

func (h *MenuHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// weekParam mirrors the rotation board: the menu grid is keyed by the same
// reset weekday so both views talk about the same week.
func (h *MenuHandler) weekParam(r *http.Request) (time.Time, error) {
	resetDay := rotation.ResetDay(h.settingsStore.GetOrDefault("rotation_reset_day", "1"))
	raw := r.URL.Query().Get("week")
	if raw == "" {
		return rotation.WeekStart(h.now(), resetDay), nil
	}
	d, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("week must be YYYY-MM-DD")
	}
	return rotation.WeekStart(d, resetDay), nil
}

func (h *MenuHandler) ListWeek(w http.ResponseWriter, r *http.Request) {
	weekStart, err := h.weekParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	entries, err := h.menuStore.ListWeek(weekStart)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list menu"})
		return
	}
	if entries == nil {
		entries = []model.MenuEntry{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"week_start": weekStart.Format("2006-01-02"),
		"entries":    entries,
	})
}

func (h *MenuHandler) UpsertEntry(w http.ResponseWriter, r *http.Request) {
	weekStart, err := h.weekParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Weekday int    `json:"weekday"`
		Slot    string `json:"slot"`
		Dish    string `json:"dish"`
		CookID  *int64 `json:"cook_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if req.Weekday < 0 || req.Weekday > 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "weekday must be 0-6"})
		return
	}
	if !model.ValidSlot(req.Slot) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "slot must be breakfast, lunch, or dinner"})
		return
	}
	req.Dish = strings.TrimSpace(req.Dish)
	if req.Dish == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "dish is required"})
		return
	}

	if req.CookID != nil {
		member, err := h.memberStore.GetByID(*req.CookID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check family member"})
			return
		}
		if member == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "family member not found"})
			return
		}
	}

	entry, err := h.menuStore.UpsertEntry(weekStart, req.Weekday, req.Slot, req.Dish, req.CookID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save menu entry"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityMenuEntry, websocket.ActionUpdated, entry.ID, nil))

	writeJSON(w, http.StatusOK, entry)
}

func (h *MenuHandler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	weekStart, err := h.weekParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Weekday int    `json:"weekday"`
		Slot    string `json:"slot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if !model.ValidSlot(req.Slot) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "slot must be breakfast, lunch, or dinner"})
		return
	}

	if err := h.menuStore.DeleteEntry(weekStart, req.Weekday, req.Slot); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete menu entry"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityMenuEntry, websocket.ActionDeleted, 0, nil))

	w.WriteHeader(http.StatusNoContent)
}
