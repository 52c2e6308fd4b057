package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TaskEventType string

const (
	EventTaskCreated             TaskEventType = "TaskCreated"
	EventDeveloperAssigned       TaskEventType = "DeveloperAssigned"
	EventDeveloperUnassigned     TaskEventType = "DeveloperUnassigned"
	EventTaskStatusChanged       TaskEventType = "TaskStatusChanged"
	EventTaskCreationCompensated TaskEventType = "TaskCreationCompensated"
)

// TaskEvent is published after a task command has been applied.
type TaskEvent struct {
	Type         TaskEventType `json:"type"`
	TaskID       string        `json:"taskId"`
	ParentTaskID *string       `json:"parentTaskId,omitempty"`
	Title        string        `json:"title,omitempty"`
	DeveloperID  *string       `json:"developerId,omitempty"`
	StatusID     int           `json:"statusId,omitempty"`
	OccurredAt   time.Time     `json:"occurredAt"`
}

// TaskActivity is the activity log document stored in MongoDB.
type TaskActivity struct {
	ID           primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	ActivityType TaskEventType      `json:"activityType" bson:"activityType"`
	TaskID       string             `json:"taskId" bson:"taskId"`
	ParentTaskID *string            `json:"parentTaskId,omitempty" bson:"parentTaskId,omitempty"`
	DeveloperID  *string            `json:"developerId,omitempty" bson:"developerId,omitempty"`
	StatusID     int                `json:"statusId,omitempty" bson:"statusId,omitempty"`
	Timestamp    time.Time          `json:"timestamp" bson:"timestamp"`
	Details      string             `json:"details" bson:"details"`
}

type Notification struct {
	ID          string    `cassandra:"id" json:"id"`
	DeveloperID string    `cassandra:"developer_id" json:"developerId"`
	TaskID      string    `cassandra:"task_id" json:"taskId"`
	Message     string    `cassandra:"message" json:"message"`
	CreatedAt   time.Time `cassandra:"created_at" json:"createdAt"`
	IsRead      bool      `cassandra:"is_read" json:"isRead"`
}

// TaskNode is the Neo4j projection of a task.
type TaskNode struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	StatusID int    `json:"statusId"`
}
