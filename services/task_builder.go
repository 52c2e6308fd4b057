package services

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lohszeying/api-task-assignment/config"
	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/repositories"
)

// TaskBuilder creates whole task trees in one transaction.
type TaskBuilder struct {
	db         *sqlx.DB
	tasks      *repositories.TaskRepo
	inferencer *SkillInferencer
	mode       string
}

// NewTaskBuilder returns a builder; a nil inferencer leaves skill-less tasks without skills.
func NewTaskBuilder(db *sqlx.DB, tasks *repositories.TaskRepo, inferencer *SkillInferencer, mode string) *TaskBuilder {
	if mode != config.InferenceModePost {
		mode = config.InferenceModePre
	}
	return &TaskBuilder{db: db, tasks: tasks, inferencer: inferencer, mode: mode}
}

// CompensatedError reports that rows committed by a creation request were deleted again.
type CompensatedError struct {
	RootTaskID string
	TaskIDs    []string
	Err        error
}

func (e *CompensatedError) Error() string { return e.Err.Error() }

func (e *CompensatedError) Unwrap() error { return e.Err }

type plannedTask struct {
	tempID   string
	title    string
	depth    int
	parent   int
	skills   []models.Skill
	children []int
}

type planFrame struct {
	payload *models.TaskCreationPayload
	depth   int
	parent  int
}

// planTaskTree validates the payload and flattens it in pre-order. Depth is checked before
// a node's subtasks are visited, so over-deep payloads are rejected without walking them.
func planTaskTree(payload *models.TaskCreationPayload, rootDepth int, dir SkillDirectory) ([]plannedTask, error) {
	var planned []plannedTask
	stack := []planFrame{{payload: payload, depth: rootDepth, parent: -1}}

	for len(stack) > 0 {
		frame := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if frame.payload.Invalid {
			return nil, NewValidationError("Invalid task payload.")
		}
		if frame.depth > models.MaxTaskNestingDepth {
			return nil, NewValidationError(MsgDepthExceeded)
		}

		title := strings.TrimSpace(string(frame.payload.Title))
		if title == "" {
			return nil, NewValidationError(MsgTitleRequired)
		}

		skills, err := ResolveSkills(frame.payload.Skills, dir)
		if err != nil {
			return nil, err
		}

		idx := len(planned)
		planned = append(planned, plannedTask{
			tempID: TempTaskID(idx + 1),
			title:  title,
			depth:  frame.depth,
			parent: frame.parent,
			skills: skills,
		})
		if frame.parent >= 0 {
			planned[frame.parent].children = append(planned[frame.parent].children, idx)
		}

		subtasks := frame.payload.Subtasks
		if frame.payload.TooDeep || (len(subtasks) > 0 && frame.depth+1 > models.MaxTaskNestingDepth) {
			return nil, NewValidationError(MsgDepthExceeded)
		}
		for i := len(subtasks) - 1; i >= 0; i-- {
			stack = append(stack, planFrame{payload: &subtasks[i], depth: frame.depth + 1, parent: idx})
		}
	}
	return planned, nil
}

// inferenceBatch maps temp ids of skill-less tasks to their titles.
func inferenceBatch(planned []plannedTask) map[string]string {
	batch := make(map[string]string)
	for _, p := range planned {
		if len(p.skills) == 0 {
			batch[p.tempID] = p.title
		}
	}
	return batch
}

// CreateTaskTree creates payload, optionally beneath parentTaskID, and returns the created tree.
func (b *TaskBuilder) CreateTaskTree(ctx context.Context, payload models.TaskCreationPayload, parentTaskID string) (*models.CreatedTaskResult, error) {
	dir, err := loadSkillDirectory(ctx, b.db)
	if err != nil {
		return nil, err
	}

	var parent *string
	rootDepth := 0
	if parentTaskID = strings.TrimSpace(parentTaskID); parentTaskID != "" {
		parentDepth, err := b.tasks.TaskDepth(ctx, parentTaskID)
		if err != nil {
			return nil, err
		}
		if parentDepth < 0 {
			return nil, NewNotFoundError(MsgParentNotFound)
		}
		parent = &parentTaskID
		rootDepth = parentDepth + 1
	}

	planned, err := planTaskTree(&payload, rootDepth, dir)
	if err != nil {
		return nil, err
	}
	batch := inferenceBatch(planned)

	inferred := map[string][]models.Skill{}
	if b.mode == config.InferenceModePre && b.inferencer != nil {
		if inferred, err = b.inferencer.Infer(ctx, batch, dir); err != nil {
			return nil, err
		}
	}

	ids := make([]string, len(planned))
	err = repositories.RunInTx(ctx, b.db, func(tx *sqlx.Tx) error {
		repo := b.tasks.WithTx(tx)
		for i, p := range planned {
			parentID := parent
			if p.parent >= 0 {
				parentID = &ids[p.parent]
			}
			task, err := repo.CreateTask(ctx, p.title, parentID)
			if err != nil {
				return err
			}
			ids[i] = task.ID

			if err := repo.AddTaskSkills(ctx, task.ID, skillIDs(p.skills)); err != nil {
				return err
			}
			if extra := inferred[p.tempID]; len(extra) > 0 {
				if err := repo.AddTaskSkills(ctx, task.ID, skillIDs(extra)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create task tree")
	}

	logging.Logger.Infof("Event ID: TASK_TREE_CREATED, Description: Created %d tasks under root %s", len(ids), ids[0])

	if b.mode == config.InferenceModePost && b.inferencer != nil && len(batch) > 0 {
		if inferred, err = b.attachInferredSkills(ctx, planned, ids, batch, dir); err != nil {
			return nil, b.compensate(ctx, ids, err)
		}
	}

	return buildCreatedResult(planned, ids, inferred, 0), nil
}

// attachInferredSkills runs inference after commit and links the suggestions outside the tree transaction.
func (b *TaskBuilder) attachInferredSkills(ctx context.Context, planned []plannedTask, ids []string, batch map[string]string, dir SkillDirectory) (map[string][]models.Skill, error) {
	inferred, err := b.inferencer.Infer(ctx, batch, dir)
	if err != nil {
		return nil, err
	}
	err = repositories.RunInTx(ctx, b.db, func(tx *sqlx.Tx) error {
		repo := b.tasks.WithTx(tx)
		for i, p := range planned {
			if extra := inferred[p.tempID]; len(extra) > 0 {
				if err := repo.AddTaskSkills(ctx, ids[i], skillIDs(extra)); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, NewDependencyError(MsgInferenceFailed, err)
	}
	return inferred, nil
}

// compensate deletes the tasks created by the failed request. It is best effort: readers may
// observe the tree until the delete lands.
func (b *TaskBuilder) compensate(ctx context.Context, ids []string, cause error) error {
	deleted, err := b.tasks.DeleteTasks(context.WithoutCancel(ctx), ids)
	if err != nil {
		logging.Logger.Errorf("Event ID: TASK_COMPENSATION_FAILED, Description: Failed to delete tasks %s: %v", strings.Join(ids, ", "), err)
	} else {
		logging.Logger.Warnf("Event ID: TASK_COMPENSATED, Description: Deleted %d tasks rooted at %s after skill inference failed", deleted, ids[0])
	}

	if _, ok := AsServiceError(cause); !ok {
		cause = NewDependencyError(MsgInferenceFailed, cause)
	}
	return &CompensatedError{RootTaskID: ids[0], TaskIDs: ids, Err: cause}
}

func buildCreatedResult(planned []plannedTask, ids []string, inferred map[string][]models.Skill, idx int) *models.CreatedTaskResult {
	p := planned[idx]
	skills := append([]models.Skill{}, p.skills...)
	skills = append(skills, inferred[p.tempID]...)

	result := &models.CreatedTaskResult{
		TaskID:   ids[idx],
		Title:    p.title,
		StatusID: int(models.StatusBacklog),
		Skills:   skills,
	}
	for _, c := range p.children {
		result.Subtasks = append(result.Subtasks, *buildCreatedResult(planned, ids, inferred, c))
	}
	return result
}

func skillIDs(skills []models.Skill) []int {
	ids := make([]int, 0, len(skills))
	for _, s := range skills {
		ids = append(ids, s.ID)
	}
	return ids
}
