package handlers

import (
	"net/http"

	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/services"
	"github.com/lohszeying/api-task-assignment/services/queries"
)

type DeveloperHandler struct {
	svc interfaces.DeveloperQueryContext
}

func NewDeveloperHandler(svc interfaces.DeveloperQueryContext) *DeveloperHandler {
	return &DeveloperHandler{svc: svc}
}

func (h *DeveloperHandler) GetDevelopers(w http.ResponseWriter, r *http.Request) {
	skillIDs, err := services.ParseSkillFilter(r.URL.Query().Get("skill"))
	if err != nil {
		handleError(w, r, err, "Failed to fetch developers")
		return
	}

	serveQuery(w, r, &queries.ListDevelopersQuery{SkillIDs: skillIDs, Svc: h.svc}, "Failed to fetch developers")
}
