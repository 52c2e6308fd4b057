package handlers

import (
	"net/http"

	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/services/queries"
)

type DirectoryHandler struct {
	svc interfaces.DirectoryQueryContext
}

func NewDirectoryHandler(svc interfaces.DirectoryQueryContext) *DirectoryHandler {
	return &DirectoryHandler{svc: svc}
}

func (h *DirectoryHandler) GetSkills(w http.ResponseWriter, r *http.Request) {
	serveQuery(w, r, &queries.ListSkillsQuery{Svc: h.svc}, "Failed to fetch skills")
}

func (h *DirectoryHandler) GetStatuses(w http.ResponseWriter, r *http.Request) {
	serveQuery(w, r, &queries.ListStatusesQuery{Svc: h.svc}, "Failed to fetch statuses")
}
