package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/services"
	"github.com/lohszeying/api-task-assignment/services/commands"
	"github.com/lohszeying/api-task-assignment/services/queries"
)

const msgBodyNotObject = "Request body must be an object."

type TaskHandler struct {
	create   *commands.CreateTaskHandler
	assign   *commands.AssignDeveloperHandler
	unassign *commands.UnassignDeveloperHandler
	status   *commands.UpdateStatusHandler
	queries  interfaces.TaskQueryContext
}

func NewTaskHandler(svc interfaces.TaskCommandContext, queryCtx interfaces.TaskQueryContext, events interfaces.EventPublisher) *TaskHandler {
	return &TaskHandler{
		create:   commands.NewCreateTaskHandler(svc, events),
		assign:   commands.NewAssignDeveloperHandler(svc, events),
		unassign: commands.NewUnassignDeveloperHandler(svc, events),
		status:   commands.NewUpdateStatusHandler(svc, events),
		queries:  queryCtx,
	}
}

func (h *TaskHandler) GetTasks(w http.ResponseWriter, r *http.Request) {
	serveQuery(w, r, &queries.ListTasksQuery{Svc: h.queries}, "Failed to fetch tasks")
}

func (h *TaskHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	serveQuery(w, r, &queries.GetTaskQuery{TaskID: mux.Vars(r)["taskId"], Svc: h.queries}, "Failed to fetch task")
}

// CreateTask serves POST /tasks and POST /tasks/{taskId}; the path id wins over a body parentTaskId.
func (h *TaskHandler) CreateTask(w http.ResponseWriter, r *http.Request) {
	body, ok := readObject(r)
	if !ok {
		writeMessage(w, http.StatusBadRequest, msgBodyNotObject)
		return
	}

	var payload models.TaskCreationPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		writeMessage(w, http.StatusBadRequest, msgBodyNotObject)
		return
	}

	parentTaskID := mux.Vars(r)["taskId"]
	if parentTaskID == "" {
		parentTaskID = payload.ParentTaskID
	}

	result, err := h.create.Handle(r.Context(), commands.CreateTaskCommand{Payload: payload, ParentTaskID: parentTaskID})
	if err != nil {
		handleError(w, r, err, "Failed to create task.")
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *TaskHandler) AssignDeveloper(w http.ResponseWriter, r *http.Request) {
	var req struct {
		DeveloperID json.RawMessage `json:"developerId"`
	}
	if body, ok := readObject(r); ok {
		_ = json.Unmarshal(body, &req)
	}

	var developerID string
	if err := json.Unmarshal(req.DeveloperID, &developerID); err != nil {
		writeMessage(w, http.StatusBadRequest, services.MsgDeveloperIDRequired)
		return
	}

	cmd := commands.AssignDeveloperCommand{TaskID: mux.Vars(r)["taskId"], DeveloperID: developerID}
	if err := h.assign.Handle(r.Context(), cmd); err != nil {
		handleError(w, r, err, "Failed to assign developer to task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) UnassignDeveloper(w http.ResponseWriter, r *http.Request) {
	cmd := commands.UnassignDeveloperCommand{TaskID: mux.Vars(r)["taskId"]}
	if err := h.unassign.Handle(r.Context(), cmd); err != nil {
		handleError(w, r, err, "Failed to unassign developer from task")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *TaskHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		StatusID json.RawMessage `json:"statusId"`
	}
	if body, ok := readObject(r); ok {
		_ = json.Unmarshal(body, &req)
	}

	statusID, err := services.ParseStatusID(req.StatusID)
	if err != nil {
		handleError(w, r, err, "Failed to update task status")
		return
	}

	cmd := commands.UpdateStatusCommand{TaskID: mux.Vars(r)["taskId"], StatusID: statusID}
	if err := h.status.Handle(r.Context(), cmd); err != nil {
		handleError(w, r, err, "Failed to update task status")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
