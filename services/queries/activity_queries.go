package queries

import (
	"context"

	"github.com/lohszeying/api-task-assignment/interfaces"
)

// ListTaskActivityQuery returns the newest Limit activities of a task; zero means all.
type ListTaskActivityQuery struct {
	TaskID string
	Limit  int64
	Svc    interfaces.ActivityQueryContext
}

func (q *ListTaskActivityQuery) Execute(ctx context.Context) (interface{}, error) {
	return q.Svc.ListByTask(ctx, q.TaskID, q.Limit)
}

type ListNotificationsQuery struct {
	DeveloperID string
	Svc         interfaces.NotificationQueryContext
}

func (q *ListNotificationsQuery) Execute(ctx context.Context) (interface{}, error) {
	return q.Svc.ListByDeveloper(ctx, q.DeveloperID)
}
