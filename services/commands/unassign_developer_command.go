package commands

import (
	"context"

	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/models"
)

type UnassignDeveloperCommand struct {
	TaskID string
}

type UnassignDeveloperHandler struct {
	TaskService interfaces.TaskCommandContext
	Events      interfaces.EventPublisher
}

func NewUnassignDeveloperHandler(svc interfaces.TaskCommandContext, events interfaces.EventPublisher) *UnassignDeveloperHandler {
	return &UnassignDeveloperHandler{TaskService: svc, Events: events}
}

// Handle only publishes when a developer was actually removed.
func (h *UnassignDeveloperHandler) Handle(ctx context.Context, cmd UnassignDeveloperCommand) error {
	previous, err := h.TaskService.Unassign(ctx, cmd.TaskID)
	if err != nil {
		return err
	}

	if previous != nil && h.Events != nil {
		h.Events.Publish(ctx, models.TaskEvent{
			Type:        models.EventDeveloperUnassigned,
			TaskID:      cmd.TaskID,
			DeveloperID: previous,
		})
	}
	return nil
}
