package repositories

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lohszeying/api-task-assignment/models"
)

type TaskRepo struct {
	db  sqlx.ExtContext
	now func() time.Time
}

func NewTaskRepo(db sqlx.ExtContext) *TaskRepo {
	return &TaskRepo{db: db, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock replaces the clock used for created_at.
func (r *TaskRepo) WithClock(now func() time.Time) *TaskRepo {
	return &TaskRepo{db: r.db, now: now}
}

// WithTx returns a repository bound to tx that shares this repository's clock.
func (r *TaskRepo) WithTx(tx *sqlx.Tx) *TaskRepo {
	return &TaskRepo{db: tx, now: r.now}
}

// CreateTask inserts a task in Backlog with no developer and returns it.
func (r *TaskRepo) CreateTask(ctx context.Context, title string, parentTaskID *string) (*models.Task, error) {
	task := &models.Task{
		ID:           uuid.New().String(),
		Title:        title,
		StatusID:     int(models.StatusBacklog),
		ParentTaskID: parentTaskID,
		CreatedAt:    r.now(),
	}

	query := r.db.Rebind(`
		INSERT INTO tasks (task_id, title, status_id, developer_id, parent_task_id, created_at)
		VALUES (?, ?, ?, NULL, ?, ?)`)
	if _, err := r.db.ExecContext(ctx, query, task.ID, task.Title, task.StatusID, task.ParentTaskID, task.CreatedAt); err != nil {
		return nil, errors.Wrap(err, "failed to create task")
	}
	return task, nil
}

// AddTaskSkills links skills to a task; existing links are left untouched.
func (r *TaskRepo) AddTaskSkills(ctx context.Context, taskID string, skillIDs []int) error {
	query := r.db.Rebind(`INSERT INTO task_skills (task_id, skill_id) VALUES (?, ?) ON CONFLICT DO NOTHING`)
	for _, skillID := range skillIDs {
		if _, err := r.db.ExecContext(ctx, query, taskID, skillID); err != nil {
			return errors.Wrapf(err, "failed to link skill %d to task %s", skillID, taskID)
		}
	}
	return nil
}

// GetTask returns nil when the task does not exist.
func (r *TaskRepo) GetTask(ctx context.Context, taskID string) (*models.Task, error) {
	var task models.Task
	query := r.db.Rebind(`
		SELECT task_id, title, status_id, developer_id, parent_task_id, created_at
		FROM tasks WHERE task_id = ?`)
	err := sqlx.GetContext(ctx, r.db, &task, query, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get task %s", taskID)
	}
	return &task, nil
}

func (r *TaskRepo) TaskExists(ctx context.Context, taskID string) (bool, error) {
	var count int
	query := r.db.Rebind(`SELECT COUNT(*) FROM tasks WHERE task_id = ?`)
	if err := sqlx.GetContext(ctx, r.db, &count, query, taskID); err != nil {
		return false, errors.Wrapf(err, "failed to check task %s", taskID)
	}
	return count > 0, nil
}

// TaskDepth returns the number of ancestors above the task, or -1 when it does not exist.
func (r *TaskRepo) TaskDepth(ctx context.Context, taskID string) (int, error) {
	var depth int
	query := r.db.Rebind(`
		WITH RECURSIVE ancestors AS (
			SELECT task_id, parent_task_id, 0 AS depth
			FROM tasks
			WHERE task_id = ?
			UNION ALL
			SELECT t.task_id, t.parent_task_id, a.depth + 1
			FROM tasks t
			INNER JOIN ancestors a ON t.task_id = a.parent_task_id
		)
		SELECT COALESCE(MAX(depth), -1) FROM ancestors`)
	if err := sqlx.GetContext(ctx, r.db, &depth, query, taskID); err != nil {
		return 0, errors.Wrapf(err, "failed to compute depth of task %s", taskID)
	}
	return depth, nil
}

func (r *TaskRepo) GetTaskSkillIDs(ctx context.Context, taskID string) ([]int, error) {
	ids := []int{}
	query := r.db.Rebind(`SELECT skill_id FROM task_skills WHERE task_id = ? ORDER BY skill_id`)
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, taskID); err != nil {
		return nil, errors.Wrapf(err, "failed to get skills of task %s", taskID)
	}
	return ids, nil
}

// SetDeveloper sets or clears (nil) the developer reference and reports whether a row matched.
func (r *TaskRepo) SetDeveloper(ctx context.Context, taskID string, developerID *string) (bool, error) {
	query := r.db.Rebind(`UPDATE tasks SET developer_id = ? WHERE task_id = ?`)
	res, err := r.db.ExecContext(ctx, query, developerID, taskID)
	if err != nil {
		return false, errors.Wrapf(err, "failed to update developer of task %s", taskID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}
	return n > 0, nil
}

func (r *TaskRepo) SetStatus(ctx context.Context, taskID string, statusID int) (bool, error) {
	query := r.db.Rebind(`UPDATE tasks SET status_id = ? WHERE task_id = ?`)
	res, err := r.db.ExecContext(ctx, query, statusID, taskID)
	if err != nil {
		return false, errors.Wrapf(err, "failed to update status of task %s", taskID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, errors.Wrap(err, "failed to read affected rows")
	}
	return n > 0, nil
}

// CountPendingDescendants counts strict descendants of the task whose status is not terminalStatusID.
func (r *TaskRepo) CountPendingDescendants(ctx context.Context, taskID string, terminalStatusID int) (int, error) {
	var pending int
	query := r.db.Rebind(`
		WITH RECURSIVE descendants AS (
			SELECT task_id, status_id
			FROM tasks
			WHERE task_id = ?
			UNION ALL
			SELECT t.task_id, t.status_id
			FROM tasks t
			INNER JOIN descendants d ON t.parent_task_id = d.task_id
		)
		SELECT COUNT(*)
		FROM descendants
		WHERE task_id <> ? AND status_id <> ?`)
	if err := sqlx.GetContext(ctx, r.db, &pending, query, taskID, taskID, terminalStatusID); err != nil {
		return 0, errors.Wrapf(err, "failed to count pending descendants of task %s", taskID)
	}
	return pending, nil
}

// DeleteTasks removes the given tasks; children and skill links cascade.
func (r *TaskRepo) DeleteTasks(ctx context.Context, taskIDs []string) (int64, error) {
	if len(taskIDs) == 0 {
		return 0, nil
	}
	query, args, err := sqlx.In(`DELETE FROM tasks WHERE task_id IN (?)`, taskIDs)
	if err != nil {
		return 0, errors.Wrap(err, "failed to build delete query")
	}
	res, err := r.db.ExecContext(ctx, r.db.Rebind(query), args...)
	if err != nil {
		return 0, errors.Wrap(err, "failed to delete tasks")
	}
	return res.RowsAffected()
}

const taskRowColumns = `
	t.task_id, t.title, t.parent_task_id, t.status_id, s.status_name,
	t.developer_id, d.developer_name`

const taskRowJoins = `
	FROM tasks t
	INNER JOIN statuses s ON s.status_id = t.status_id
	LEFT JOIN developers d ON d.developer_id = t.developer_id`

// ListTaskRows returns every task ordered by creation time.
func (r *TaskRepo) ListTaskRows(ctx context.Context) ([]models.TaskRow, error) {
	rows := []models.TaskRow{}
	query := `SELECT` + taskRowColumns + taskRowJoins + ` ORDER BY t.created_at, t.task_id`
	if err := sqlx.SelectContext(ctx, r.db, &rows, query); err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}
	return rows, nil
}

// GetTaskRow returns nil when the task does not exist.
func (r *TaskRepo) GetTaskRow(ctx context.Context, taskID string) (*models.TaskRow, error) {
	var row models.TaskRow
	query := r.db.Rebind(`SELECT` + taskRowColumns + taskRowJoins + ` WHERE t.task_id = ?`)
	err := sqlx.GetContext(ctx, r.db, &row, query, taskID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get task %s", taskID)
	}
	return &row, nil
}

func (r *TaskRepo) ListChildRows(ctx context.Context, parentTaskID string) ([]models.TaskRow, error) {
	rows := []models.TaskRow{}
	query := r.db.Rebind(`SELECT` + taskRowColumns + taskRowJoins + ` WHERE t.parent_task_id = ? ORDER BY t.created_at, t.task_id`)
	if err := sqlx.SelectContext(ctx, r.db, &rows, query, parentTaskID); err != nil {
		return nil, errors.Wrapf(err, "failed to list children of task %s", parentTaskID)
	}
	return rows, nil
}

// ListTaskSkillRows returns skill links with names, for all tasks when taskIDs is empty.
func (r *TaskRepo) ListTaskSkillRows(ctx context.Context, taskIDs ...string) ([]models.TaskSkillRow, error) {
	rows := []models.TaskSkillRow{}
	base := `
		SELECT ts.task_id, ts.skill_id, s.skill_name
		FROM task_skills ts
		INNER JOIN skills s ON s.skill_id = ts.skill_id`
	order := ` ORDER BY ts.task_id, ts.skill_id`

	query := base + order
	var args []interface{}
	if len(taskIDs) > 0 {
		q, a, err := sqlx.In(base+` WHERE ts.task_id IN (?)`+order, taskIDs)
		if err != nil {
			return nil, errors.Wrap(err, "failed to build task skills query")
		}
		query, args = r.db.Rebind(q), a
	}

	if err := sqlx.SelectContext(ctx, r.db, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list task skills")
	}
	return rows, nil
}
