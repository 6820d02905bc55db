package server

import (
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/tbessiere/foyer/internal/handler"
	"github.com/tbessiere/foyer/internal/middleware"
	"github.com/tbessiere/foyer/internal/store"
	ws "github.com/tbessiere/foyer/internal/websocket"
)

type Server struct {
	db            *sql.DB
	hub           *ws.Hub
	familyMemberH *handler.FamilyMemberHandler
	rotationH     *handler.RotationHandler
	screenTimeH   *handler.ScreenTimeHandler
	savingsH      *handler.SavingsHandler
	menuH         *handler.MenuHandler
	settingsH     *handler.SettingsHandler
	rateLimiter   *middleware.RateLimiter
	logger        *slog.Logger
}

func New(db *sql.DB, logger *slog.Logger) *Server {
	hub := ws.NewHub(logger.With("component", "websocket"))

	familyMemberStore := store.NewFamilyMemberStore(db)
	rotationStore := store.NewRotationStore(db)
	screenTimeStore := store.NewScreenTimeStore(db)
	savingsStore := store.NewSavingsStore(db)
	menuStore := store.NewMenuStore(db)
	settingsStore := store.NewSettingsStore(db)

	return &Server{
		db:            db,
		hub:           hub,
		familyMemberH: handler.NewFamilyMemberHandler(familyMemberStore, hub),
		rotationH:     handler.NewRotationHandler(rotationStore, familyMemberStore, settingsStore, hub),
		screenTimeH:   handler.NewScreenTimeHandler(screenTimeStore, familyMemberStore, settingsStore, hub),
		savingsH:      handler.NewSavingsHandler(savingsStore, familyMemberStore, hub),
		menuH:         handler.NewMenuHandler(menuStore, familyMemberStore, settingsStore, hub),
		settingsH:     handler.NewSettingsHandler(settingsStore, hub),
		rateLimiter:   middleware.NewRateLimiter(),
		logger:        logger,
	}
}

// RateLimiter returns the rate limiter for cleanup tasks.
func (s *Server) RateLimiter() *middleware.RateLimiter {
	return s.rateLimiter
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Family member API routes
	mux.HandleFunc("GET /api/family-members", s.familyMemberH.List)
	mux.HandleFunc("POST /api/family-members", s.familyMemberH.Create)
	mux.HandleFunc("PUT /api/family-members/{id}", s.familyMemberH.Update)
	mux.HandleFunc("DELETE /api/family-members/{id}", s.familyMemberH.Delete)
	mux.HandleFunc("PUT /api/family-members/sort", s.familyMemberH.UpdateSortOrder)

	// PIN routes; verify is rate limited to slow down guessing
	mux.HandleFunc("POST /api/family-members/{id}/pin", s.familyMemberH.SetPIN)
	mux.HandleFunc("DELETE /api/family-members/{id}/pin", s.familyMemberH.ClearPIN)
	mux.HandleFunc("POST /api/family-members/{id}/pin/verify", s.rateLimitedHandler(s.familyMemberH.VerifyPIN))

	// Rotation API routes
	mux.HandleFunc("GET /api/rotation/tasks", s.rotationH.ListTasks)
	mux.HandleFunc("POST /api/rotation/tasks", s.rotationH.CreateTask)
	mux.HandleFunc("PUT /api/rotation/tasks/{id}", s.rotationH.UpdateTask)
	mux.HandleFunc("DELETE /api/rotation/tasks/{id}", s.rotationH.DeleteTask)
	mux.HandleFunc("GET /api/rotation/board", s.rotationH.GetBoard)
	mux.HandleFunc("POST /api/rotation/rotate", s.rotationH.Rotate)
	mux.HandleFunc("PUT /api/rotation/assignments", s.rotationH.EditAssignments)

	// Screen time API routes
	mux.HandleFunc("GET /api/family-members/{id}/screen-time", s.screenTimeH.GetSummary)
	mux.HandleFunc("GET /api/family-members/{id}/screen-time/config", s.screenTimeH.GetConfig)
	mux.HandleFunc("PUT /api/family-members/{id}/screen-time/config", s.screenTimeH.UpdateConfig)
	mux.HandleFunc("POST /api/family-members/{id}/screen-time/usage", s.screenTimeH.AddUsage)
	mux.HandleFunc("GET /api/family-members/{id}/screen-time/usage", s.screenTimeH.ListUsage)

	// Savings API routes
	mux.HandleFunc("GET /api/family-members/{id}/savings", s.savingsH.ListByMember)
	mux.HandleFunc("POST /api/savings", s.savingsH.Create)
	mux.HandleFunc("GET /api/savings/{id}", s.savingsH.GetProgress)
	mux.HandleFunc("PUT /api/savings/{id}", s.savingsH.Update)
	mux.HandleFunc("DELETE /api/savings/{id}", s.savingsH.Delete)
	mux.HandleFunc("POST /api/savings/{id}/deposits", s.savingsH.Deposit)

	// Menu API routes
	mux.HandleFunc("GET /api/menu", s.menuH.ListWeek)
	mux.HandleFunc("PUT /api/menu", s.menuH.UpsertEntry)
	mux.HandleFunc("DELETE /api/menu", s.menuH.DeleteEntry)

	// Settings API routes
	mux.HandleFunc("GET /api/settings", s.settingsH.GetAll)
	mux.HandleFunc("GET /api/settings/rotation", s.settingsH.GetRotation)
	mux.HandleFunc("PUT /api/settings/rotation", s.settingsH.UpdateRotation)
	mux.HandleFunc("GET /api/settings/screen-time", s.settingsH.GetScreenTime)
	mux.HandleFunc("PUT /api/settings/screen-time", s.settingsH.UpdateScreenTime)
	mux.HandleFunc("GET /api/settings/display", s.settingsH.GetDisplay)
	mux.HandleFunc("PUT /api/settings/display", s.settingsH.UpdateDisplay)

	// WebSocket
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return middleware.RealIP(r)
	}
	rl := middleware.RateLimit(s.rateLimiter, keyFunc, 10, time.Minute)
	return func(w http.ResponseWriter, r *http.Request) {
		rl(http.HandlerFunc(h)).ServeHTTP(w, r)
	}
}
