package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/repositories"
	"github.com/lohszeying/api-task-assignment/testutil"
)

func newTaskRepo(t *testing.T) *repositories.TaskRepo {
	t.Helper()
	db := testutil.NewDB(t)
	return repositories.NewTaskRepo(db).WithClock(testutil.Clock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)))
}

func createTask(t *testing.T, repo *repositories.TaskRepo, title string, parent *models.Task) *models.Task {
	t.Helper()
	var parentID *string
	if parent != nil {
		parentID = &parent.ID
	}
	task, err := repo.CreateTask(context.Background(), title, parentID)
	require.NoError(t, err)
	return task
}

func TestTaskRepo_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)

	root := createTask(t, repo, "Root", nil)
	child := createTask(t, repo, "Child", root)

	got, err := repo.GetTask(ctx, child.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Child", got.Title)
	assert.Equal(t, int(models.StatusBacklog), got.StatusID)
	assert.Nil(t, got.DeveloperID)
	require.NotNil(t, got.ParentTaskID)
	assert.Equal(t, root.ID, *got.ParentTaskID)

	missing, err := repo.GetTask(ctx, "does-not-exist")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestTaskRepo_CreateWithMissingParentViolatesForeignKey(t *testing.T) {
	repo := newTaskRepo(t)
	parentID := "no-such-parent"

	_, err := repo.CreateTask(context.Background(), "Orphan", &parentID)
	assert.Error(t, err)
}

func TestTaskRepo_TaskDepth(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)

	root := createTask(t, repo, "Root", nil)
	child := createTask(t, repo, "Child", root)
	grandchild := createTask(t, repo, "Grandchild", child)

	for task, want := range map[*models.Task]int{root: 0, child: 1, grandchild: 2} {
		depth, err := repo.TaskDepth(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, want, depth, task.Title)
	}

	depth, err := repo.TaskDepth(ctx, "missing")
	require.NoError(t, err)
	assert.Equal(t, -1, depth)
}

func TestTaskRepo_CountPendingDescendants(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)
	done := int(models.StatusDone)

	root := createTask(t, repo, "Root", nil)
	child := createTask(t, repo, "Child", root)
	grandchild := createTask(t, repo, "Grandchild", child)

	pending, err := repo.CountPendingDescendants(ctx, root.ID, done)
	require.NoError(t, err)
	assert.Equal(t, 2, pending)

	_, err = repo.SetStatus(ctx, child.ID, done)
	require.NoError(t, err)
	pending, err = repo.CountPendingDescendants(ctx, root.ID, done)
	require.NoError(t, err)
	assert.Equal(t, 1, pending, "a Done child does not hide a pending grandchild")

	_, err = repo.SetStatus(ctx, grandchild.ID, done)
	require.NoError(t, err)
	pending, err = repo.CountPendingDescendants(ctx, root.ID, done)
	require.NoError(t, err)
	assert.Zero(t, pending)

	pending, err = repo.CountPendingDescendants(ctx, grandchild.ID, done)
	require.NoError(t, err)
	assert.Zero(t, pending, "the task itself is never counted")
}

func TestTaskRepo_SkillLinks(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)
	task := createTask(t, repo, "Task", nil)

	require.NoError(t, repo.AddTaskSkills(ctx, task.ID, []int{testutil.SkillBackend, testutil.SkillFrontend}))
	require.NoError(t, repo.AddTaskSkills(ctx, task.ID, []int{testutil.SkillBackend}))

	ids, err := repo.GetTaskSkillIDs(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, []int{testutil.SkillFrontend, testutil.SkillBackend}, ids)

	rows, err := repo.ListTaskSkillRows(ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Frontend", rows[0].SkillName)
	assert.Equal(t, "Backend", rows[1].SkillName)

	assert.Error(t, repo.AddTaskSkills(ctx, task.ID, []int{99}), "unknown skill ids violate the foreign key")
}

func TestTaskRepo_SetDeveloper(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)
	task := createTask(t, repo, "Task", nil)

	dev := testutil.BobID
	matched, err := repo.SetDeveloper(ctx, task.ID, &dev)
	require.NoError(t, err)
	assert.True(t, matched)

	row, err := repo.GetTaskRow(ctx, task.ID)
	require.NoError(t, err)
	require.NotNil(t, row.DeveloperName)
	assert.Equal(t, "Bob", *row.DeveloperName)
	assert.Equal(t, "Backlog", row.StatusName)

	matched, err = repo.SetDeveloper(ctx, task.ID, nil)
	require.NoError(t, err)
	assert.True(t, matched)

	matched, err = repo.SetDeveloper(ctx, "missing", nil)
	require.NoError(t, err)
	assert.False(t, matched)
}

func TestTaskRepo_ListRowsOrderedByCreation(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)

	first := createTask(t, repo, "First", nil)
	child := createTask(t, repo, "Child", first)
	second := createTask(t, repo, "Second", nil)

	rows, err := repo.ListTaskRows(ctx)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{first.ID, child.ID, second.ID}, []string{rows[0].ID, rows[1].ID, rows[2].ID})

	children, err := repo.ListChildRows(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, children, 1)
	assert.Equal(t, child.ID, children[0].ID)
}

func TestTaskRepo_DeleteTasksCascades(t *testing.T) {
	ctx := context.Background()
	repo := newTaskRepo(t)

	root := createTask(t, repo, "Root", nil)
	child := createTask(t, repo, "Child", root)
	require.NoError(t, repo.AddTaskSkills(ctx, child.ID, []int{testutil.SkillDatabase}))
	other := createTask(t, repo, "Other", nil)

	_, err := repo.DeleteTasks(ctx, []string{root.ID})
	require.NoError(t, err)

	exists, err := repo.TaskExists(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	rows, err := repo.ListTaskSkillRows(ctx)
	require.NoError(t, err)
	assert.Empty(t, rows)

	exists, err = repo.TaskExists(ctx, other.ID)
	require.NoError(t, err)
	assert.True(t, exists)

	n, err := repo.DeleteTasks(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRunInTx_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	repo := repositories.NewTaskRepo(db)

	var created *models.Task
	err := repositories.RunInTx(ctx, db, func(tx *sqlx.Tx) error {
		var err error
		created, err = repo.WithTx(tx).CreateTask(ctx, "Rolled back", nil)
		require.NoError(t, err)
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	exists, err := repo.TaskExists(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, exists)
}
