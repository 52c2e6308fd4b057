package handlers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

type Handlers struct {
	Tasks      *TaskHandler
	Developers *DeveloperHandler
	Directory  *DirectoryHandler
	Health     *HealthHandler
	Activity   *ActivityHandler
}

func NewRouter(h Handlers) *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/", h.Health.GetAPIStatus).Methods(http.MethodGet)
	r.HandleFunc("/db-health", h.Health.CheckDatabaseHealth).Methods(http.MethodGet)

	r.HandleFunc("/tasks", h.Tasks.GetTasks).Methods(http.MethodGet)
	r.HandleFunc("/tasks", h.Tasks.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{taskId}", h.Tasks.GetTask).Methods(http.MethodGet)
	r.HandleFunc("/tasks/{taskId}", h.Tasks.CreateTask).Methods(http.MethodPost)
	r.HandleFunc("/tasks/{taskId}/developer", h.Tasks.AssignDeveloper).Methods(http.MethodPatch)
	r.HandleFunc("/tasks/{taskId}/developer", h.Tasks.UnassignDeveloper).Methods(http.MethodDelete)
	r.HandleFunc("/tasks/{taskId}/status", h.Tasks.UpdateStatus).Methods(http.MethodPatch)
	r.HandleFunc("/tasks/{taskId}/activity", h.Activity.GetTaskActivity).Methods(http.MethodGet)

	r.HandleFunc("/developers", h.Developers.GetDevelopers).Methods(http.MethodGet)
	r.HandleFunc("/developers/{developerId}/notifications", h.Activity.GetDeveloperNotifications).Methods(http.MethodGet)
	r.HandleFunc("/skills", h.Directory.GetSkills).Methods(http.MethodGet)
	r.HandleFunc("/statuses", h.Directory.GetStatuses).Methods(http.MethodGet)

	return r
}

// EnableCORS allows the configured origins; an empty list disables cross-origin access.
func EnableCORS(origins string, next http.Handler) http.Handler {
	allowed := make(map[string]bool)
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			allowed[o] = true
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); origin != "" && (allowed[origin] || allowed["*"]) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			w.Header().Add("Vary", "Origin")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
