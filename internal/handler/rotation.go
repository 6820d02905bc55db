package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/tbessiere/foyer/internal/model"
	"github.com/tbessiere/foyer/internal/rotation"
	"github.com/tbessiere/foyer/internal/store"
	"github.com/tbessiere/foyer/internal/websocket"
)

type RotationHandler struct {
	rotationStore *store.RotationStore
	memberStore   *store.FamilyMemberStore
	settingsStore *store.SettingsStore
	hub           *websocket.Hub
	now           func() time.Time
}

func NewRotationHandler(rs *store.RotationStore, ms *store.FamilyMemberStore, ss *store.SettingsStore, hub *websocket.Hub) *RotationHandler {
	return &RotationHandler{
		rotationStore: rs,
		memberStore:   ms,
		settingsStore: ss,
		hub:           hub,
		now:           time.Now,
	}
}

func (h *RotationHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *RotationHandler) resetDay() time.Weekday {
	return rotation.ResetDay(h.settingsStore.GetOrDefault("rotation_reset_day", "1"))
}

// weekParam resolves the requested week key. No parameter means the current
// week; an explicit ?week=YYYY-MM-DD is normalized onto the reset weekday so
// any date inside a week addresses that week.
func (h *RotationHandler) weekParam(r *http.Request) (time.Time, error) {
	resetDay := h.resetDay()
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

// --- Task endpoints ---

type rotationTaskRequest struct {
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Active    *bool  `json:"active"`
	SortOrder int    `json:"sort_order"`
}

func (h *RotationHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.rotationStore.ListTasks()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}
	if tasks == nil {
		tasks = []model.RotationTask{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (h *RotationHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req rotationTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	task, err := h.rotationStore.CreateTask(req.Name, req.Icon, active, req.SortOrder)
	if err != nil {
		log.Printf("failed to create rotation task: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create task"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityRotationTask, websocket.ActionCreated, task.ID, nil))

	writeJSON(w, http.StatusCreated, task)
}

func (h *RotationHandler) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.rotationStore.GetTaskByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	var req rotationTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "name is required"})
		return
	}

	active := existing.Active
	if req.Active != nil {
		active = *req.Active
	}

	task, err := h.rotationStore.UpdateTask(id, req.Name, req.Icon, active, req.SortOrder)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to update task"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityRotationTask, websocket.ActionUpdated, id, nil))

	writeJSON(w, http.StatusOK, task)
}

func (h *RotationHandler) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid id"})
		return
	}

	existing, err := h.rotationStore.GetTaskByID(id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get task"})
		return
	}
	if existing == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "task not found"})
		return
	}

	if err := h.rotationStore.DeleteTask(id); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to delete task"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityRotationTask, websocket.ActionDeleted, id, nil))

	w.WriteHeader(http.StatusNoContent)
}

// --- Board endpoints ---

type boardResponse struct {
	WeekStart    string                `json:"week_start"`
	AttemptsUsed int                   `json:"attempts_used"`
	AttemptsLeft int                   `json:"attempts_left"`
	Adjusted     bool                  `json:"adjusted"`
	Note         string                `json:"note"`
	CanRotate    bool                  `json:"can_rotate"`
	Reason       string                `json:"reason,omitempty"`
	Assignments  []model.AssignmentRow `json:"assignments"`
}

// rotateReason turns the engine's sentinel errors into the inline message the
// board shows instead of the re-roll button.
func (h *RotationHandler) rotateReason(err error) string {
	switch {
	case errors.Is(err, rotation.ErrWrongDay):
		return fmt.Sprintf("rotation is available on %s", h.resetDay())
	case errors.Is(err, rotation.ErrAttemptsExhausted):
		return fmt.Sprintf("all %d re-rolls already used this week", rotation.MaxAttempts)
	case err == nil:
		return ""
	default:
		return err.Error()
	}
}

func (h *RotationHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	weekStart, err := h.weekParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	week, err := h.rotationStore.GetWeek(weekStart)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get week"})
		return
	}

	rows, err := h.rotationStore.ListAssignments(weekStart)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list assignments"})
		return
	}
	rows = rotation.Dedupe(rows)
	if rows == nil {
		rows = []model.AssignmentRow{}
	}

	resp := boardResponse{
		WeekStart:    weekStart.Format("2006-01-02"),
		AttemptsLeft: rotation.MaxAttempts,
		Assignments:  rows,
	}
	if week != nil {
		resp.AttemptsUsed = week.AttemptsUsed
		resp.AttemptsLeft = rotation.MaxAttempts - week.AttemptsUsed
		if resp.AttemptsLeft < 0 {
			resp.AttemptsLeft = 0
		}
		resp.Adjusted = week.Adjusted
		resp.Note = week.Note
	}

	rotateErr := rotation.CanRotate(week, h.resetDay(), h.now())
	resp.CanRotate = rotateErr == nil
	resp.Reason = h.rotateReason(rotateErr)

	writeJSON(w, http.StatusOK, resp)
}

// Rotate rolls a fresh assignment set for the current week. Allowed only on
// the reset day and at most MaxAttempts times per week.
func (h *RotationHandler) Rotate(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	resetDay := h.resetDay()
	weekStart := rotation.WeekStart(now, resetDay)

	week, err := h.rotationStore.GetWeek(weekStart)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get week"})
		return
	}

	if err := rotation.CanRotate(week, resetDay, now); err != nil {
		writeJSON(w, http.StatusConflict, map[string]string{"error": h.rotateReason(err)})
		return
	}

	tasks, err := h.rotationStore.ListActiveTasks()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list tasks"})
		return
	}
	members, err := h.memberStore.List()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to list family members"})
		return
	}

	assignments, err := rotation.Generate(tasks, members)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	if _, err := h.rotationStore.GetOrCreateWeek(weekStart); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create week"})
		return
	}
	if err := h.rotationStore.ReplaceAssignments(weekStart, assignments); err != nil {
		log.Printf("failed to replace assignments: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save assignments"})
		return
	}
	if err := h.rotationStore.IncrementAttempts(weekStart); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to record attempt"})
		return
	}

	h.broadcast(websocket.NewMessage(websocket.EntityRotation, websocket.ActionGenerated, 0, map[string]any{
		"week_start": weekStart.Format("2006-01-02"),
	}))

	h.GetBoard(w, r)
}

// EditAssignments replaces the week's assignment set by hand (swaps, absence
// cover). The week is marked adjusted so the board can say so.
func (h *RotationHandler) EditAssignments(w http.ResponseWriter, r *http.Request) {
	weekStart, err := h.weekParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	var req struct {
		Assignments []struct {
			TaskID   int64 `json:"task_id"`
			MemberID int64 `json:"member_id"`
		} `json:"assignments"`
		Note string `json:"note"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}
	if len(req.Assignments) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "assignments are required"})
		return
	}

	seen := make(map[int64]bool, len(req.Assignments))
	assignments := make([]rotation.Assignment, 0, len(req.Assignments))
	for i, a := range req.Assignments {
		if seen[a.TaskID] {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "each task may appear only once"})
			return
		}
		seen[a.TaskID] = true

		task, err := h.rotationStore.GetTaskByID(a.TaskID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check task"})
			return
		}
		if task == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "task not found"})
			return
		}

		member, err := h.memberStore.GetByID(a.MemberID)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to check family member"})
			return
		}
		if member == nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "family member not found"})
			return
		}

		assignments = append(assignments, rotation.Assignment{
			TaskID:    a.TaskID,
			MemberID:  a.MemberID,
			SortOrder: i,
		})
	}

	if _, err := h.rotationStore.GetOrCreateWeek(weekStart); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to create week"})
		return
	}
	if err := h.rotationStore.ReplaceAssignments(weekStart, assignments); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save assignments"})
		return
	}
	if err := h.rotationStore.MarkAdjusted(weekStart); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to mark week adjusted"})
		return
	}
	if req.Note != "" {
		if err := h.rotationStore.SetNote(weekStart, req.Note); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save note"})
			return
		}
	}

	h.broadcast(websocket.NewMessage(websocket.EntityRotation, websocket.ActionAdjusted, 0, map[string]any{
		"week_start": weekStart.Format("2006-01-02"),
	}))

	h.GetBoard(w, r)
}
