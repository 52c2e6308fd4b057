package queries

import (
	"context"

	"github.com/lohszeying/api-task-assignment/interfaces"
)

type ListSkillsQuery struct {
	Svc interfaces.DirectoryQueryContext
}

func (q *ListSkillsQuery) Execute(ctx context.Context) (interface{}, error) {
	return q.Svc.ListSkills(ctx)
}

type ListStatusesQuery struct {
	Svc interfaces.DirectoryQueryContext
}

func (q *ListStatusesQuery) Execute(ctx context.Context) (interface{}, error) {
	return q.Svc.ListStatuses(ctx)
}

// ListDevelopersQuery filters by SkillIDs; nil lists every developer.
type ListDevelopersQuery struct {
	SkillIDs []int
	Svc      interfaces.DeveloperQueryContext
}

func (q *ListDevelopersQuery) Execute(ctx context.Context) (interface{}, error) {
	return q.Svc.ListDevelopers(ctx, q.SkillIDs)
}
