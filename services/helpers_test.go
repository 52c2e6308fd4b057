package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lohszeying/api-task-assignment/config"
	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/repositories"
	"github.com/lohszeying/api-task-assignment/testutil"
)

type fakeClassifier struct {
	mu     sync.Mutex
	calls  []models.ClassificationRequest
	result map[string]any
	err    error
	wait   bool
}

func (f *fakeClassifier) ClassifySkills(ctx context.Context, req models.ClassificationRequest) (map[string]any, error) {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	f.mu.Unlock()

	if f.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type testEnv struct {
	db         *sqlx.DB
	tasks      *repositories.TaskRepo
	classifier *fakeClassifier
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	return &testEnv{
		db:         db,
		tasks:      repositories.NewTaskRepo(db).WithClock(testutil.Clock(time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC))),
		classifier: &fakeClassifier{result: map[string]any{}},
	}
}

func (e *testEnv) builder(mode string) *TaskBuilder {
	return NewTaskBuilder(e.db, e.tasks, NewSkillInferencer(e.classifier, time.Second), mode)
}

func (e *testEnv) preBuilder() *TaskBuilder {
	return e.builder(config.InferenceModePre)
}

func (e *testEnv) taskCount(t *testing.T) int {
	t.Helper()
	var n int
	if err := e.db.Get(&n, "SELECT COUNT(*) FROM tasks"); err != nil {
		t.Fatalf("count tasks: %v", err)
	}
	return n
}

func seededDirectory() SkillDirectory {
	return NewSkillDirectory([]models.Skill{
		{ID: 1, Name: "Frontend"},
		{ID: 2, Name: "Backend"},
		{ID: 3, Name: "Database"},
		{ID: 4, Name: "DevOps"},
	})
}

func titled(title string, subtasks ...models.TaskCreationPayload) models.TaskCreationPayload {
	return models.TaskCreationPayload{Title: models.TaskTitle(title), Subtasks: subtasks}
}

func withSkills(p models.TaskCreationPayload, refs ...models.SkillRef) models.TaskCreationPayload {
	p.Skills = refs
	return p
}
