package services

import (
	"context"

	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/repositories"
)

type TaskQueryService struct {
	tasks *repositories.TaskRepo
}

func NewTaskQueryService(tasks *repositories.TaskRepo) *TaskQueryService {
	return &TaskQueryService{tasks: tasks}
}

// ListTaskHierarchy returns every root task with its subtasks nested below it, oldest first.
func (s *TaskQueryService) ListTaskHierarchy(ctx context.Context) ([]*models.TaskSummary, error) {
	rows, err := s.tasks.ListTaskRows(ctx)
	if err != nil {
		return nil, err
	}
	skillRows, err := s.tasks.ListTaskSkillRows(ctx)
	if err != nil {
		return nil, err
	}

	skillsByTask := make(map[string][]models.Skill)
	for _, sr := range skillRows {
		skillsByTask[sr.TaskID] = append(skillsByTask[sr.TaskID], models.Skill{ID: sr.SkillID, Name: sr.SkillName})
	}

	summaries := make(map[string]*models.TaskSummary, len(rows))
	for _, row := range rows {
		skills := skillsByTask[row.ID]
		if skills == nil {
			skills = []models.Skill{}
		}
		summary := &models.TaskSummary{
			TaskID: row.ID,
			Title:  row.Title,
			Skills: skills,
			Status: models.Status{ID: row.StatusID, Name: row.StatusName},
		}
		if row.DeveloperID != nil {
			summary.Developer = &models.TaskDeveloperSummary{ID: *row.DeveloperID, Name: deref(row.DeveloperName)}
		}
		summaries[row.ID] = summary
	}

	roots := []*models.TaskSummary{}
	for _, row := range rows {
		summary := summaries[row.ID]
		if row.ParentTaskID == nil {
			roots = append(roots, summary)
			continue
		}
		if parent, ok := summaries[*row.ParentTaskID]; ok {
			parent.Subtasks = append(parent.Subtasks, summary)
		}
	}
	return roots, nil
}

// GetTask returns one task with its parent and direct children.
func (s *TaskQueryService) GetTask(ctx context.Context, taskID string) (*models.TaskDetails, error) {
	row, err := s.tasks.GetTaskRow(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if row == nil {
		return nil, NewNotFoundError(MsgTaskNotFound)
	}

	skillRows, err := s.tasks.ListTaskSkillRows(ctx, taskID)
	if err != nil {
		return nil, err
	}
	skills := make([]string, 0, len(skillRows))
	for _, sr := range skillRows {
		skills = append(skills, sr.SkillName)
	}

	details := &models.TaskDetails{
		TaskID: row.ID,
		Title:  row.Title,
		Status: models.Status{ID: row.StatusID, Name: row.StatusName},
		Skills: skills,
	}
	if row.DeveloperID != nil {
		details.Developer = &models.TaskDeveloperSummary{ID: *row.DeveloperID, Name: deref(row.DeveloperName)}
	}

	if row.ParentTaskID != nil {
		parent, err := s.tasks.GetTaskRow(ctx, *row.ParentTaskID)
		if err != nil {
			return nil, err
		}
		if parent != nil {
			details.Parent = &models.TaskRelationSummary{
				TaskID: parent.ID,
				Title:  parent.Title,
				Status: models.Status{ID: parent.StatusID, Name: parent.StatusName},
			}
		}
	}

	children, err := s.tasks.ListChildRows(ctx, taskID)
	if err != nil {
		return nil, err
	}
	for _, child := range children {
		details.Children = append(details.Children, models.TaskRelationSummary{
			TaskID: child.ID,
			Title:  child.Title,
			Status: models.Status{ID: child.StatusID, Name: child.StatusName},
		})
	}
	return details, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
