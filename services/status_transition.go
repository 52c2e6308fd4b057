package services

import (
	"context"
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/repositories"
)

type StatusTransitionService struct {
	tasks    *repositories.TaskRepo
	statuses *repositories.StatusRepo
}

func NewStatusTransitionService(db *sqlx.DB, tasks *repositories.TaskRepo) *StatusTransitionService {
	return &StatusTransitionService{tasks: tasks, statuses: repositories.NewStatusRepo(db)}
}

// ParseStatusID accepts a JSON integer or a string holding one. A nil raw value means the field was absent.
func ParseStatusID(raw json.RawMessage) (int, error) {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return 0, NewValidationError(MsgStatusIDRequired)
	}

	text := trimmed
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, NewValidationError(MsgStatusIDNotInteger)
		}
		text = strings.TrimSpace(s)
		if text == "" {
			return 0, NewValidationError(MsgStatusIDRequired)
		}
	}

	if id, err := strconv.Atoi(text); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, NewValidationError(MsgStatusIDNotInteger)
	}
	return int(f), nil
}

// SetStatus moves a task to statusID. Done is refused while any descendant, at any depth, is not Done.
func (s *StatusTransitionService) SetStatus(ctx context.Context, taskID string, statusID int) error {
	status, err := s.statuses.GetStatus(ctx, statusID)
	if err != nil {
		return err
	}
	if status == nil {
		return NewNotFoundError(MsgStatusNotFound)
	}

	exists, err := s.tasks.TaskExists(ctx, taskID)
	if err != nil {
		return err
	}
	if !exists {
		return NewNotFoundError(MsgTaskNotFound)
	}

	if statusID == int(models.StatusDone) {
		pending, err := s.tasks.CountPendingDescendants(ctx, taskID, int(models.StatusDone))
		if err != nil {
			return err
		}
		if pending > 0 {
			logging.Logger.Infof("Event ID: DONE_BLOCKED, Description: Task %s has %d subtasks not Done", taskID, pending)
			return NewConflictError(MsgSubtasksNotDone)
		}
	}

	matched, err := s.tasks.SetStatus(ctx, taskID, statusID)
	if err != nil {
		return err
	}
	if !matched {
		return NewNotFoundError(MsgTaskNotFound)
	}

	logging.Logger.Infof("Event ID: TASK_STATUS_CHANGED, Description: Task %s moved to %s", taskID, status.Name)
	return nil
}
