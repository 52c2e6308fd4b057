package commands

import (
	"context"

	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/models"
)

type UpdateStatusCommand struct {
	TaskID   string
	StatusID int
}

type UpdateStatusHandler struct {
	TaskService interfaces.TaskCommandContext
	Events      interfaces.EventPublisher
}

func NewUpdateStatusHandler(svc interfaces.TaskCommandContext, events interfaces.EventPublisher) *UpdateStatusHandler {
	return &UpdateStatusHandler{TaskService: svc, Events: events}
}

func (h *UpdateStatusHandler) Handle(ctx context.Context, cmd UpdateStatusCommand) error {
	if err := h.TaskService.SetStatus(ctx, cmd.TaskID, cmd.StatusID); err != nil {
		return err
	}

	if h.Events != nil {
		h.Events.Publish(ctx, models.TaskEvent{
			Type:     models.EventTaskStatusChanged,
			TaskID:   cmd.TaskID,
			StatusID: cmd.StatusID,
		})
	}
	return nil
}
