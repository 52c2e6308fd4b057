package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lohszeying/api-task-assignment/config"
	"github.com/lohszeying/api-task-assignment/handlers"
	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/services"
	"github.com/lohszeying/api-task-assignment/testutil"
)

func TestConnectSinks_NoneConfigured(t *testing.T) {
	cfg, err := config.FromEnv(func(key string) string {
		if key == "SKILL_INFERENCE_ENABLED" {
			return "false"
		}
		return ""
	})
	require.NoError(t, err)

	assert.Empty(t, connectSinks(context.Background(), cfg))
}

func TestBuildHandlers_ServesRoutesWithoutInference(t *testing.T) {
	db := testutil.NewDB(t)
	router := handlers.NewRouter(buildHandlers(db, nil, config.InferenceModePre, services.NewEventPublisher(), nil))

	for _, path := range []string{"/", "/db-health", "/tasks", "/skills", "/statuses", "/developers"} {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks/t1/activity", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

type plainSink struct{}

func (plainSink) Name() string { return "plain" }
func (plainSink) Record(context.Context, models.TaskEvent) error { return nil }
func (plainSink) Close(context.Context) error { return nil }

type activitySink struct{ plainSink }

func (activitySink) ListByTask(context.Context, string, int64) ([]models.TaskActivity, error) {
	return nil, nil
}

type notificationSink struct{ plainSink }

func (notificationSink) ListByDeveloper(context.Context, string) ([]models.Notification, error) {
	return nil, nil
}

func TestReadableSinks(t *testing.T) {
	activity, notifications := readableSinks(nil)
	assert.Nil(t, activity)
	assert.Nil(t, notifications)

	a, n := activitySink{}, notificationSink{}
	activity, notifications = readableSinks([]services.TaskEventSink{plainSink{}, n, a})
	assert.Equal(t, a, activity)
	assert.Equal(t, n, notifications)
}
