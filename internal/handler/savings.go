package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/tbessiere/foyer/internal/model"
	"github.com/tbessiere/foyer/internal/store"
	"github.com/tbessiere/foyer/internal/websocket"
)

type SavingsHandler struct {
	savingsStore *store.SavingsStore
	memberStore  *store.FamilyMemberStore
	hub          *websocket.Hub
}

func NewSavingsHandler(ss *store.SavingsStore, ms *store.FamilyMemberStore, hub *websocket.Hub) *SavingsHandler {
	return &SavingsHandler{savingsStore: ss, memberStore: ms, hub: hub}
}

func (h *SavingsHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

type savingsGoalRequest struct {
	MemberID    int64  `json:"member_id"`
	Title       string `json:"title"`
	TargetCents int    `json:"target_cents"`
	Emoji       string `json:"emoji"`
	Active      *bool  `json:"active"`
}

// ListByMember returns a member's goals with their saved totals.
func (h *SavingsHandler) ListByMember(w http.ResponseWriter, r *http.Request) {
	memberIDStr := r.PathValue("id")
	memberID, err := strconv.ParseInt(memberIDStr, 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	progress, err := h.savingsStore.ListProgressByMember(memberID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list goals"})
		return
	}
	if progress == nil {
		progress = []model.SavingsProgress{}
	}
	writeJSON(w, http.StatusOK, progress)
}

func (h *SavingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req savingsGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.TargetCents <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_cents must be positive"})
		return
	}

	member, err := h.memberStore.GetByID(req.MemberID)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check family member"})
		return
	}
	if member == nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "family member not found"})
		return
	}

	goal, err := h.savingsStore.CreateGoal(req.MemberID, req.Title, req.TargetCents, req.Emoji)
	if err != nil {
		log.Printf("failed to create savings goal: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create goal"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntitySavingsGoal, websocket.ActionCreated, goal.ID, nil))

	writeJSON(w, http.StatusCreated, goal)
}

func (h *SavingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.savingsStore.GetGoalByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get goal"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	var req savingsGoalRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "title is required"})
		return
	}
	if req.TargetCents <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "target_cents must be positive"})
		return
	}

	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}

	goal, err := h.savingsStore.UpdateGoal(id, req.Title, req.TargetCents, req.Emoji, active)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update goal"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntitySavingsGoal, websocket.ActionUpdated, id, nil))

	writeJSON(w, http.StatusOK, goal)
}

func (h *SavingsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.savingsStore.GetGoalByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get goal"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	if err := h.savingsStore.DeleteGoal(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete goal"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntitySavingsGoal, websocket.ActionDeleted, id, nil))

	w.WriteHeader(http.StatusNoContent)
}

func (h *SavingsHandler) Deposit(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.savingsStore.GetGoalByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get goal"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}

	var req struct {
		AmountCents int    `json:"amount_cents"`
		Note        string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if req.AmountCents <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "amount_cents must be positive"})
		return
	}

	deposit, err := h.savingsStore.Deposit(id, req.AmountCents, req.Note)
	if err != nil {
		log.Printf("failed to deposit: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to deposit"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntitySavingsGoal, websocket.ActionDeposit, id, nil))

	writeJSON(w, http.StatusCreated, deposit)
}

// GetProgress returns one goal with its saved total and percent.
func (h *SavingsHandler) GetProgress(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	progress, err := h.savingsStore.GetProgress(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get progress"})
		return
	}
	if progress == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "goal not found"})
		return
	}
	writeJSON(w, http.StatusOK, progress)
}
