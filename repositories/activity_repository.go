package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/models"
)

// ActivityRepo keeps the task activity log in MongoDB.
type ActivityRepo struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewActivityRepo(ctx context.Context, uri, dbName, collectionName string) (*ActivityRepo, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to MongoDB")
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "failed to ping MongoDB")
	}

	collection := client.Database(dbName).Collection(collectionName)
	_, err = collection.Indexes().CreateOne(connectCtx, mongo.IndexModel{
		Keys: bson.D{{Key: "taskId", Value: 1}, {Key: "timestamp", Value: -1}},
	})
	if err != nil {
		logging.Logger.Warnf("Event ID: ACTIVITY_INDEX_FAILED, Description: Could not create activity index: %v", err)
	}

	logging.Logger.Infof("Event ID: DB_COLLECTION_SET, Description: Using MongoDB collection: %s/%s", dbName, collectionName)
	return &ActivityRepo{client: client, collection: collection}, nil
}

func (r *ActivityRepo) Name() string { return "mongo-activity" }

// Record stores one activity document per event.
func (r *ActivityRepo) Record(ctx context.Context, event models.TaskEvent) error {
	activity := models.TaskActivity{
		ActivityType: event.Type,
		TaskID:       event.TaskID,
		ParentTaskID: event.ParentTaskID,
		DeveloperID:  event.DeveloperID,
		StatusID:     event.StatusID,
		Timestamp:    event.OccurredAt,
		Details:      activityDetails(event),
	}
	if _, err := r.collection.InsertOne(ctx, activity); err != nil {
		return errors.Wrapf(err, "failed to record %s activity for task %s", event.Type, event.TaskID)
	}
	return nil
}

// ListByTask returns the newest activities of a task first.
func (r *ActivityRepo) ListByTask(ctx context.Context, taskID string, limit int64) ([]models.TaskActivity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cursor, err := r.collection.Find(ctx, bson.M{"taskId": taskID}, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to find activities for task %s", taskID)
	}
	defer cursor.Close(ctx)

	activities := []models.TaskActivity{}
	if err := cursor.All(ctx, &activities); err != nil {
		return nil, errors.Wrap(err, "failed to decode activities")
	}
	return activities, nil
}

func (r *ActivityRepo) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

func activityDetails(event models.TaskEvent) string {
	switch event.Type {
	case models.EventTaskCreated:
		return fmt.Sprintf("Task '%s' created", event.Title)
	case models.EventDeveloperAssigned:
		return fmt.Sprintf("Developer %s assigned", deref(event.DeveloperID))
	case models.EventDeveloperUnassigned:
		return "Developer unassigned"
	case models.EventTaskStatusChanged:
		return fmt.Sprintf("Status changed to %d", event.StatusID)
	case models.EventTaskCreationCompensated:
		return "Task removed after skill inference failed"
	default:
		return string(event.Type)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
