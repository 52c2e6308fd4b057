package commands

import (
	"context"

	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/models"
)

type AssignDeveloperCommand struct {
	TaskID      string
	DeveloperID string
}

type AssignDeveloperHandler struct {
	TaskService interfaces.TaskCommandContext
	Events      interfaces.EventPublisher
}

func NewAssignDeveloperHandler(svc interfaces.TaskCommandContext, events interfaces.EventPublisher) *AssignDeveloperHandler {
	return &AssignDeveloperHandler{TaskService: svc, Events: events}
}

func (h *AssignDeveloperHandler) Handle(ctx context.Context, cmd AssignDeveloperCommand) error {
	developerID, err := h.TaskService.Assign(ctx, cmd.TaskID, cmd.DeveloperID)
	if err != nil {
		return err
	}

	if h.Events != nil {
		h.Events.Publish(ctx, models.TaskEvent{
			Type:        models.EventDeveloperAssigned,
			TaskID:      cmd.TaskID,
			DeveloperID: &developerID,
		})
	}
	return nil
}
