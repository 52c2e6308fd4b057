package repositories

import (
	"context"
	"fmt"

	"github.com/gocql/gocql"
	"github.com/pkg/errors"

	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/models"
)

const notificationsKeyspace = "task_notifications"

// NotificationRepo stores developer notifications in Cassandra.
type NotificationRepo struct {
	session *gocql.Session
}

func NewNotificationRepo(host string) (*NotificationRepo, error) {
	cluster := gocql.NewCluster(host)
	cluster.Keyspace = "system"
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to Cassandra")
	}

	err = session.Query(
		`CREATE KEYSPACE IF NOT EXISTS ` + notificationsKeyspace + `
		 WITH replication = {
			 'class': 'SimpleStrategy',
			 'replication_factor': 1
		 }`).Exec()
	session.Close()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create notifications keyspace")
	}

	cluster.Keyspace = notificationsKeyspace
	cluster.Consistency = gocql.One
	session, err = cluster.CreateSession()
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to notifications keyspace")
	}

	repo := &NotificationRepo{session: session}
	if err := repo.createTable(); err != nil {
		session.Close()
		return nil, err
	}

	logging.Logger.Infof("Event ID: CASSANDRA_CONNECTED, Description: Connected to Cassandra keyspace %s", notificationsKeyspace)
	return repo, nil
}

func (r *NotificationRepo) createTable() error {
	err := r.session.Query(
		`CREATE TABLE IF NOT EXISTS notifications (
			id UUID,
			developer_id TEXT,
			task_id TEXT,
			message TEXT,
			created_at TIMESTAMP,
			is_read BOOLEAN,
			PRIMARY KEY ((developer_id), created_at, id)
		) WITH CLUSTERING ORDER BY (created_at DESC, id ASC)`).Exec()
	if err != nil {
		return errors.Wrap(err, "failed to create notifications table")
	}
	return nil
}

func (r *NotificationRepo) Name() string { return "cassandra-notifications" }

// Record notifies the developer affected by an assignment change; other events are ignored.
func (r *NotificationRepo) Record(ctx context.Context, event models.TaskEvent) error {
	notification, ok := notificationFor(event)
	if !ok {
		return nil
	}
	return r.CreateNotification(ctx, notification)
}

func (r *NotificationRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = gocql.TimeUUID().String()
	}
	id, err := gocql.ParseUUID(n.ID)
	if err != nil {
		return errors.Wrapf(err, "invalid notification id %s", n.ID)
	}

	err = r.session.Query(
		`INSERT INTO notifications (id, developer_id, task_id, message, created_at, is_read)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		id, n.DeveloperID, n.TaskID, n.Message, n.CreatedAt, n.IsRead,
	).WithContext(ctx).Exec()
	if err != nil {
		return errors.Wrapf(err, "failed to create notification for developer %s", n.DeveloperID)
	}
	return nil
}

func (r *NotificationRepo) ListByDeveloper(ctx context.Context, developerID string) ([]models.Notification, error) {
	iter := r.session.Query(
		`SELECT id, developer_id, task_id, message, created_at, is_read
		 FROM notifications WHERE developer_id = ?`, developerID,
	).WithContext(ctx).Iter()

	notifications := []models.Notification{}
	var (
		id gocql.UUID
		n  models.Notification
	)
	for iter.Scan(&id, &n.DeveloperID, &n.TaskID, &n.Message, &n.CreatedAt, &n.IsRead) {
		n.ID = id.String()
		notifications = append(notifications, n)
	}
	if err := iter.Close(); err != nil {
		return nil, errors.Wrapf(err, "failed to list notifications for developer %s", developerID)
	}
	return notifications, nil
}

func (r *NotificationRepo) Close(context.Context) error {
	r.session.Close()
	return nil
}

func notificationFor(event models.TaskEvent) (*models.Notification, bool) {
	if event.DeveloperID == nil || *event.DeveloperID == "" {
		return nil, false
	}

	var message string
	switch event.Type {
	case models.EventDeveloperAssigned:
		message = fmt.Sprintf("You have been assigned to task %s", event.TaskID)
	case models.EventDeveloperUnassigned:
		message = fmt.Sprintf("You have been unassigned from task %s", event.TaskID)
	default:
		return nil, false
	}

	return &models.Notification{
		DeveloperID: *event.DeveloperID,
		TaskID:      event.TaskID,
		Message:     message,
		CreatedAt:   event.OccurredAt,
	}, true
}
