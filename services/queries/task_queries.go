package queries

import (
	"context"

	"github.com/lohszeying/api-task-assignment/interfaces"
)

type ListTasksQuery struct {
	Svc interfaces.TaskQueryContext
}

func (q *ListTasksQuery) Execute(ctx context.Context) (interface{}, error) {
	return q.Svc.ListTaskHierarchy(ctx)
}

type GetTaskQuery struct {
	TaskID string
	Svc    interfaces.TaskQueryContext
}

func (q *GetTaskQuery) Execute(ctx context.Context) (interface{}, error) {
	return q.Svc.GetTask(ctx, q.TaskID)
}
