package commands

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/lohszeying/api-task-assignment/interfaces"
	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/services"
)

type CreateTaskCommand struct {
	Payload      models.TaskCreationPayload
	ParentTaskID string
}

type CreateTaskHandler struct {
	TaskService interfaces.TaskCommandContext
	Events      interfaces.EventPublisher
}

func NewCreateTaskHandler(svc interfaces.TaskCommandContext, events interfaces.EventPublisher) *CreateTaskHandler {
	return &CreateTaskHandler{TaskService: svc, Events: events}
}

func (h *CreateTaskHandler) Handle(ctx context.Context, cmd CreateTaskCommand) (*models.CreatedTaskResult, error) {
	result, err := h.TaskService.CreateTaskTree(ctx, cmd.Payload, cmd.ParentTaskID)
	if err != nil {
		var compensated *services.CompensatedError
		if errors.As(err, &compensated) {
			logging.Logger.Warnf("Event ID: TASK_CREATION_COMPENSATED, Description: Removed %d tasks rooted at %s", len(compensated.TaskIDs), compensated.RootTaskID)
			h.publish(ctx, models.TaskEvent{
				Type:   models.EventTaskCreationCompensated,
				TaskID: compensated.RootTaskID,
			})
		}
		return nil, err
	}

	var parent *string
	if id := strings.TrimSpace(cmd.ParentTaskID); id != "" {
		parent = &id
	}
	h.publish(ctx, services.CreatedTaskEvents(result, parent)...)
	return result, nil
}

func (h *CreateTaskHandler) publish(ctx context.Context, events ...models.TaskEvent) {
	if h.Events != nil {
		h.Events.Publish(ctx, events...)
	}
}
