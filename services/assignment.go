package services

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/repositories"
)

type AssignmentService struct {
	tasks      *repositories.TaskRepo
	developers *repositories.DeveloperRepo
}

func NewAssignmentService(db *sqlx.DB, tasks *repositories.TaskRepo) *AssignmentService {
	return &AssignmentService{tasks: tasks, developers: repositories.NewDeveloperRepo(db)}
}

// Assign sets the task's developer once the developer is known to hold every skill the task requires.
// It returns the trimmed developer id that was stored.
func (s *AssignmentService) Assign(ctx context.Context, taskID, developerID string) (string, error) {
	developerID = strings.TrimSpace(developerID)
	if developerID == "" {
		return "", NewValidationError(MsgDeveloperIDRequired)
	}

	exists, err := s.tasks.TaskExists(ctx, taskID)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", NewNotFoundError(MsgTaskNotFound)
	}

	developer, err := s.developers.GetDeveloper(ctx, developerID)
	if err != nil {
		return "", err
	}
	if developer == nil {
		return "", NewNotFoundError(MsgDeveloperNotFound)
	}

	required, err := s.tasks.GetTaskSkillIDs(ctx, taskID)
	if err != nil {
		return "", err
	}
	if len(required) > 0 {
		held, err := s.developers.GetDeveloperSkillIDs(ctx, developerID)
		if err != nil {
			return "", err
		}
		if !containsAll(held, required) {
			return "", NewConflictError(MsgMissingSkills)
		}
	}

	matched, err := s.tasks.SetDeveloper(ctx, taskID, &developerID)
	if err != nil {
		return "", err
	}
	if !matched {
		return "", NewNotFoundError(MsgTaskNotFound)
	}

	logging.Logger.Infof("Event ID: DEVELOPER_ASSIGNED, Description: Developer %s assigned to task %s", developerID, taskID)
	return developerID, nil
}

// Unassign clears the task's developer and returns who was assigned before, if anyone.
// It succeeds for unassigned and unknown tasks alike.
func (s *AssignmentService) Unassign(ctx context.Context, taskID string) (*string, error) {
	task, err := s.tasks.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task == nil || task.DeveloperID == nil {
		return nil, nil
	}

	if _, err := s.tasks.SetDeveloper(ctx, taskID, nil); err != nil {
		return nil, err
	}

	logging.Logger.Infof("Event ID: DEVELOPER_UNASSIGNED, Description: Developer %s unassigned from task %s", *task.DeveloperID, taskID)
	return task.DeveloperID, nil
}

func containsAll(held, required []int) bool {
	set := make(map[int]bool, len(held))
	for _, id := range held {
		set[id] = true
	}
	for _, id := range required {
		if !set[id] {
			return false
		}
	}
	return true
}
