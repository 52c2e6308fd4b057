package interfaces

import (
	"context"

	"github.com/lohszeying/api-task-assignment/models"
)

type Query interface {
	Execute(ctx context.Context) (interface{}, error)
}

type TaskCommandContext interface {
	CreateTaskTree(ctx context.Context, payload models.TaskCreationPayload, parentTaskID string) (*models.CreatedTaskResult, error)
	Assign(ctx context.Context, taskID, developerID string) (string, error)
	Unassign(ctx context.Context, taskID string) (*string, error)
	SetStatus(ctx context.Context, taskID string, statusID int) error
}

type TaskQueryContext interface {
	ListTaskHierarchy(ctx context.Context) ([]*models.TaskSummary, error)
	GetTask(ctx context.Context, taskID string) (*models.TaskDetails, error)
}

type DirectoryQueryContext interface {
	ListSkills(ctx context.Context) ([]models.Skill, error)
	ListStatuses(ctx context.Context) ([]models.StatusListItem, error)
}

type DeveloperQueryContext interface {
	ListDevelopers(ctx context.Context, skillIDs []int) ([]models.DeveloperListItem, error)
}

// ActivityQueryContext reads the task activity log kept by the event sinks.
type ActivityQueryContext interface {
	ListByTask(ctx context.Context, taskID string, limit int64) ([]models.TaskActivity, error)
}

type NotificationQueryContext interface {
	ListByDeveloper(ctx context.Context, developerID string) ([]models.Notification, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, events ...models.TaskEvent)
}
