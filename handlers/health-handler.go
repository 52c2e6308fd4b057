package handlers

import (
	"context"
	"net/http"

	"github.com/lohszeying/api-task-assignment/logging"
)

// DatabaseClock reports the database server time.
type DatabaseClock func(ctx context.Context) (string, error)

type HealthHandler struct {
	dbNow DatabaseClock
}

func NewHealthHandler(dbNow DatabaseClock) *HealthHandler {
	return &HealthHandler{dbNow: dbNow}
}

func (h *HealthHandler) GetAPIStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("API is running!"))
}

func (h *HealthHandler) CheckDatabaseHealth(w http.ResponseWriter, r *http.Request) {
	timestamp, err := h.dbNow(r.Context())
	if err != nil {
		logging.Logger.Errorf("Event ID: DB_HEALTH_FAILED, Description: Database connectivity check failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"status": "error", "message": "Database connection failed"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "timestamp": timestamp})
}
