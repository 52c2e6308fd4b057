package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/testutil"
)

func createWithSkills(t *testing.T, env *testEnv, ids ...int) string {
	t.Helper()
	refs := make([]models.SkillRef, 0, len(ids))
	for _, id := range ids {
		refs = append(refs, models.SkillRefByID(id))
	}
	result, err := NewTaskBuilder(env.db, env.tasks, nil, "").CreateTaskTree(context.Background(), withSkills(titled("Task"), refs...), "")
	require.NoError(t, err)
	return result.TaskID
}

func assignedDeveloper(t *testing.T, env *testEnv, taskID string) *string {
	t.Helper()
	task, err := env.tasks.GetTask(context.Background(), taskID)
	require.NoError(t, err)
	require.NotNil(t, task)
	return task.DeveloperID
}

func TestAssign_RequiresSkillSuperset(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.db, env.tasks)
	ctx := context.Background()
	taskID := createWithSkills(t, env, testutil.SkillFrontend, testutil.SkillBackend)

	_, err := svc.Assign(ctx, taskID, testutil.AliceID)
	requireServiceError(t, err, KindConflict, MsgMissingSkills)
	assert.Nil(t, assignedDeveloper(t, env, taskID))

	stored, err := svc.Assign(ctx, taskID, "  "+testutil.DaveID+" ")
	require.NoError(t, err)
	assert.Equal(t, testutil.DaveID, stored)
	require.NotNil(t, assignedDeveloper(t, env, taskID))
	assert.Equal(t, testutil.DaveID, *assignedDeveloper(t, env, taskID))

	_, err = svc.Assign(ctx, taskID, testutil.CarolID)
	require.NoError(t, err, "an exact skill match is enough")
	assert.Equal(t, testutil.CarolID, *assignedDeveloper(t, env, taskID))
}

func TestAssign_TaskWithoutSkillsAcceptsAnyExistingDeveloper(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.db, env.tasks)
	taskID := createWithSkills(t, env)

	_, err := svc.Assign(context.Background(), taskID, testutil.BobID)
	require.NoError(t, err)

	_, err = svc.Assign(context.Background(), taskID, "ghost")
	requireServiceError(t, err, KindNotFound, MsgDeveloperNotFound)
}

func TestAssign_Validation(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.db, env.tasks)
	taskID := createWithSkills(t, env, testutil.SkillBackend)

	_, err := svc.Assign(context.Background(), taskID, "   ")
	requireServiceError(t, err, KindValidation, MsgDeveloperIDRequired)

	_, err = svc.Assign(context.Background(), "missing", testutil.BobID)
	requireServiceError(t, err, KindNotFound, MsgTaskNotFound)

	_, err = svc.Assign(context.Background(), taskID, "ghost")
	requireServiceError(t, err, KindNotFound, MsgDeveloperNotFound)
}

func TestAssign_LeavesStatusUntouched(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	taskID := createWithSkills(t, env)
	require.NoError(t, NewStatusTransitionService(env.db, env.tasks).SetStatus(ctx, taskID, int(models.StatusTesting)))

	_, err := NewAssignmentService(env.db, env.tasks).Assign(ctx, taskID, testutil.AliceID)
	require.NoError(t, err)

	task, err := env.tasks.GetTask(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, int(models.StatusTesting), task.StatusID)
}

func TestUnassign_IsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	svc := NewAssignmentService(env.db, env.tasks)
	ctx := context.Background()
	taskID := createWithSkills(t, env)

	_, err := svc.Assign(ctx, taskID, testutil.BobID)
	require.NoError(t, err)

	previous, err := svc.Unassign(ctx, taskID)
	require.NoError(t, err)
	require.NotNil(t, previous)
	assert.Equal(t, testutil.BobID, *previous)
	assert.Nil(t, assignedDeveloper(t, env, taskID))

	previous, err = svc.Unassign(ctx, taskID)
	require.NoError(t, err)
	assert.Nil(t, previous)

	previous, err = svc.Unassign(ctx, "missing")
	require.NoError(t, err)
	assert.Nil(t, previous)
}
