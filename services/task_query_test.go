package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/testutil"
)

func TestListTaskHierarchy_EmptyStore(t *testing.T) {
	env := newTestEnv(t)
	forest, err := NewTaskQueryService(env.tasks).ListTaskHierarchy(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, forest)
	assert.Empty(t, forest)
}

func TestListTaskHierarchy_NestsAndOrders(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	builder := NewTaskBuilder(env.db, env.tasks, nil, "")

	first, err := builder.CreateTaskTree(ctx, titled("First", titled("A"), titled("B")), "")
	require.NoError(t, err)
	second, err := builder.CreateTaskTree(ctx, titled("Second"), "")
	require.NoError(t, err)
	late, err := builder.CreateTaskTree(ctx, titled("Late child"), first.TaskID)
	require.NoError(t, err)

	_, err = NewAssignmentService(env.db, env.tasks).Assign(ctx, second.TaskID, testutil.CarolID)
	require.NoError(t, err)

	forest, err := NewTaskQueryService(env.tasks).ListTaskHierarchy(ctx)
	require.NoError(t, err)
	require.Len(t, forest, 2)

	assert.Equal(t, first.TaskID, forest[0].TaskID)
	require.Len(t, forest[0].Subtasks, 3)
	assert.Equal(t, "A", forest[0].Subtasks[0].Title)
	assert.Equal(t, "B", forest[0].Subtasks[1].Title)
	assert.Equal(t, late.TaskID, forest[0].Subtasks[2].TaskID)
	assert.Nil(t, forest[0].Developer)

	require.NotNil(t, forest[1].Developer)
	assert.Equal(t, "Carol", forest[1].Developer.Name)
	assert.Equal(t, models.Status{ID: 1, Name: "Backlog"}, forest[1].Status)
	assert.NotNil(t, forest[1].Skills)
}

func TestGetTask_Details(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	builder := NewTaskBuilder(env.db, env.tasks, nil, "")

	tree, err := builder.CreateTaskTree(ctx, titled("Root", withSkills(titled("Middle", titled("Leaf")), models.SkillRefByID(2), models.SkillRefByID(1))), "")
	require.NoError(t, err)
	middle := tree.Subtasks[0]

	details, err := NewTaskQueryService(env.tasks).GetTask(ctx, middle.TaskID)
	require.NoError(t, err)

	assert.Equal(t, "Middle", details.Title)
	assert.Equal(t, []string{"Frontend", "Backend"}, details.Skills)
	assert.Nil(t, details.Developer)
	require.NotNil(t, details.Parent)
	assert.Equal(t, tree.TaskID, details.Parent.TaskID)
	require.Len(t, details.Children, 1)
	assert.Equal(t, "Leaf", details.Children[0].Title)

	_, err = NewTaskQueryService(env.tasks).GetTask(ctx, "missing")
	requireServiceError(t, err, KindNotFound, MsgTaskNotFound)
}
