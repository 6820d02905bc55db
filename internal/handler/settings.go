package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/tbessiere/foyer/internal/store"
	"github.com/tbessiere/foyer/internal/websocket"
)

type SettingsHandler struct {
	settingsStore *store.SettingsStore
	hub           *websocket.Hub
}

func NewSettingsHandler(ss *store.SettingsStore, hub *websocket.Hub) *SettingsHandler {
	return &SettingsHandler{settingsStore: ss, hub: hub}
}

func (h *SettingsHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *SettingsHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.GetAll()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) GetRotation(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.GetRotationSettings()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

// UpdateRotation saves the rotation settings group. Changing
// rotation_reset_day re-keys the current week: the board shows a fresh,
// empty week under the new day and rows stored under the old key stay
// reachable only via an explicit ?week= date.
func (h *SettingsHandler) UpdateRotation(w http.ResponseWriter, r *http.Request) {
	h.updateGroup(w, r, validateRotationSettings, h.settingsStore.GetRotationSettings)
}

func (h *SettingsHandler) GetScreenTime(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.GetScreenTimeSettings()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateScreenTime(w http.ResponseWriter, r *http.Request) {
	h.updateGroup(w, r, validateScreenTimeSettings, h.settingsStore.GetScreenTimeSettings)
}

func (h *SettingsHandler) GetDisplay(w http.ResponseWriter, r *http.Request) {
	settings, err := h.settingsStore.GetDisplaySettings()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (h *SettingsHandler) UpdateDisplay(w http.ResponseWriter, r *http.Request) {
	h.updateGroup(w, r, validateDisplaySettings, h.settingsStore.GetDisplaySettings)
}

func (h *SettingsHandler) updateGroup(w http.ResponseWriter, r *http.Request, validate func(map[string]string) error, reload func() (map[string]string, error)) {
	var req map[string]string
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return
	}

	if err := validate(req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	for key, value := range req {
		if err := h.settingsStore.Set(key, value); err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to save settings"})
			return
		}
	}

	h.broadcast(websocket.NewMessage(websocket.EntitySettings, websocket.ActionUpdated, 0, nil))

	settings, err := reload()
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "failed to get settings"})
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func validateRotationSettings(settings map[string]string) error {
	for key, value := range settings {
		switch key {
		case "rotation_reset_day":
			n, err := strconv.Atoi(value)
			if err != nil || n < 0 || n > 6 {
				return fmt.Errorf("rotation_reset_day must be 0-6 (Sunday-Saturday)")
			}
		default:
			return fmt.Errorf("unknown setting: %s", key)
		}
	}
	return nil
}

func validateScreenTimeSettings(settings map[string]string) error {
	for key, value := range settings {
		switch key {
		case "screen_time_default_daily_minutes":
			n, err := strconv.Atoi(value)
			if err != nil || n < 1 || n > 600 {
				return fmt.Errorf("screen_time_default_daily_minutes must be 1-600")
			}
		default:
			return fmt.Errorf("unknown setting: %s", key)
		}
	}
	return nil
}

func validateDisplaySettings(settings map[string]string) error {
	for key, value := range settings {
		switch key {
		case "display_name":
			// free-form
		case "display_show_menu", "display_show_savings":
			if value != "true" && value != "false" {
				return fmt.Errorf("%s must be \"true\" or \"false\"", key)
			}
		default:
			return fmt.Errorf("unknown setting: %s", key)
		}
	}
	return nil
}
