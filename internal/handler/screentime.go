package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/tbessiere/foyer/internal/allowance"
	"github.com/tbessiere/foyer/internal/model"
	"github.com/tbessiere/foyer/internal/store"
	"github.com/tbessiere/foyer/internal/websocket"
)

type ScreenTimeHandler struct {
	screenStore   *store.ScreenTimeStore
	memberStore   *store.FamilyMemberStore
	settingsStore *store.SettingsStore
	hub           *websocket.Hub
	now           func() time.Time
}

func NewScreenTimeHandler(ss *store.ScreenTimeStore, ms *store.FamilyMemberStore, sets *store.SettingsStore, hub *websocket.Hub) *ScreenTimeHandler {
	return &ScreenTimeHandler{
		screenStore:   ss,
		memberStore:   ms,
		settingsStore: sets,
		hub:           hub,
		now:           time.Now,
	}
}

func (h *ScreenTimeHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *ScreenTimeHandler) defaultDaily() int {
	n, err := strconv.Atoi(h.settingsStore.GetOrDefault("screen_time_default_daily_minutes", "60"))
	if err != nil || n <= 0 {
		return 60
	}
	return n
}

func (h *ScreenTimeHandler) memberOr404(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return 0, false
	}
	member, err := h.memberStore.GetByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get family member"})
		return 0, false
	}
	if member == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "family member not found"})
		return 0, false
	}
	return id, true
}

// GetSummary returns the hearts display for one member's current week.
func (h *ScreenTimeHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberOr404(w, r)
	if !ok {
		return
	}

	cfg, err := h.screenStore.GetOrCreateConfig(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get config"})
		return
	}

	now := h.now()
	start, end := allowance.WeekWindow(now, time.Weekday(cfg.ResetDay))
	used, err := h.screenStore.SumUsageBetween(id, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to sum usage"})
		return
	}

	writeJSON(w, http.StatusOK, allowance.Summarize(*cfg, used, h.defaultDaily(), now))
}

func (h *ScreenTimeHandler) GetConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberOr404(w, r)
	if !ok {
		return
	}

	cfg, err := h.screenStore.GetOrCreateConfig(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get config"})
		return
	}
	writeJSON(w, http.StatusOK, cfg)
}

func (h *ScreenTimeHandler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberOr404(w, r)
	if !ok {
		return
	}

	var req struct {
		WeeklyMinutes int  `json:"weekly_minutes"`
		HeartsTotal   int  `json:"hearts_total"`
		ResetDay      int  `json:"reset_day"`
		LivesEnabled  bool `json:"lives_enabled"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := allowance.ValidateConfig(req.WeeklyMinutes, req.HeartsTotal); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	if req.ResetDay < 0 || req.ResetDay > 6 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reset_day must be 0-6 (Sunday-Saturday)"})
		return
	}

	if _, err := h.screenStore.GetOrCreateConfig(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get config"})
		return
	}
	cfg, err := h.screenStore.UpdateConfig(id, req.WeeklyMinutes, req.HeartsTotal, req.ResetDay, req.LivesEnabled)
	if err != nil {
		log.Printf("failed to update screen time config: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update config"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityScreenTime, websocket.ActionConfigUpdated, id, nil))

	writeJSON(w, http.StatusOK, cfg)
}

// AddUsage appends minutes to the member's usage log. The log is the source
// of truth; nothing is decremented anywhere else.
func (h *ScreenTimeHandler) AddUsage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberOr404(w, r)
	if !ok {
		return
	}

	var req struct {
		Minutes    int        `json:"minutes"`
		OccurredAt *time.Time `json:"occurred_at"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := allowance.ValidateUsage(req.Minutes); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	occurredAt := h.now()
	if req.OccurredAt != nil {
		occurredAt = *req.OccurredAt
	}

	event, err := h.screenStore.AddUsage(id, req.Minutes, occurredAt)
	if err != nil {
		log.Printf("failed to add usage: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to add usage"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityScreenTime, websocket.ActionUsageAdded, id, nil))

	writeJSON(w, http.StatusCreated, event)
}

// ListUsage returns the current week's usage events, newest first.
func (h *ScreenTimeHandler) ListUsage(w http.ResponseWriter, r *http.Request) {
	id, ok := h.memberOr404(w, r)
	if !ok {
		return
	}

	cfg, err := h.screenStore.GetOrCreateConfig(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get config"})
		return
	}

	start, end := allowance.WeekWindow(h.now(), time.Weekday(cfg.ResetDay))
	events, err := h.screenStore.ListUsageBetween(id, start, end)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list usage"})
		return
	}
	if events == nil {
		events = []model.UsageEvent{}
	}
	writeJSON(w, http.StatusOK, events)
}
