package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/services/queries"
)

const defaultActivityLimit = 50

// ActivityHandler serves what the event sinks recorded. Either source may be nil when its sink is not configured.
type ActivityHandler struct {
	activity      interfaces.ActivityQueryContext
	notifications interfaces.NotificationQueryContext
}

func NewActivityHandler(activity interfaces.ActivityQueryContext, notifications interfaces.NotificationQueryContext) *ActivityHandler {
	return &ActivityHandler{activity: activity, notifications: notifications}
}

func (h *ActivityHandler) GetTaskActivity(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.activity == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Activity log is not configured.")
		return
	}

	limit := int64(defaultActivityLimit)
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			writeMessage(w, http.StatusBadRequest, "Invalid limit query parameter")
			return
		}
		limit = n
	}

	query := &queries.ListTaskActivityQuery{TaskID: mux.Vars(r)["taskId"], Limit: limit, Svc: h.activity}
	serveQuery(w, r, query, "Failed to fetch task activity")
}

func (h *ActivityHandler) GetDeveloperNotifications(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.notifications == nil {
		writeMessage(w, http.StatusServiceUnavailable, "Notifications are not configured.")
		return
	}

	query := &queries.ListNotificationsQuery{DeveloperID: mux.Vars(r)["developerId"], Svc: h.notifications}
	serveQuery(w, r, query, "Failed to fetch notifications")
}
