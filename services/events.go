package services

import (
	"context"
	"time"

	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/models"
)

// TaskEventSink receives task events. Sinks are best effort.
type TaskEventSink interface {
	Name() string
	Record(ctx context.Context, event models.TaskEvent) error
	Close(ctx context.Context) error
}

// EventPublisher fans task events out to every configured sink.
type EventPublisher struct {
	sinks   []TaskEventSink
	timeout time.Duration
	now     func() time.Time
}

func NewEventPublisher(sinks ...TaskEventSink) *EventPublisher {
	return &EventPublisher{
		sinks:   sinks,
		timeout: 5 * time.Second,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Publish never fails; sink errors are logged and dropped.
func (p *EventPublisher) Publish(ctx context.Context, events ...models.TaskEvent) {
	if p == nil || len(p.sinks) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), p.timeout)
	defer cancel()

	for _, event := range events {
		if event.OccurredAt.IsZero() {
			event.OccurredAt = p.now()
		}
		for _, sink := range p.sinks {
			if err := sink.Record(ctx, event); err != nil {
				logging.Logger.Warnf("Event ID: EVENT_SINK_FAILED, Description: Sink %s could not record %s for task %s: %v", sink.Name(), event.Type, event.TaskID, err)
			}
		}
	}
}

func (p *EventPublisher) Close(ctx context.Context) {
	if p == nil {
		return
	}
	for _, sink := range p.sinks {
		if err := sink.Close(ctx); err != nil {
			logging.Logger.Warnf("Event ID: EVENT_SINK_CLOSE_FAILED, Description: Sink %s did not close cleanly: %v", sink.Name(), err)
		}
	}
}

// CreatedTaskEvents lists one TaskCreated event per node of a created tree, parents first.
func CreatedTaskEvents(result *models.CreatedTaskResult, parentTaskID *string) []models.TaskEvent {
	var events []models.TaskEvent
	var walk func(node *models.CreatedTaskResult, parent *string)
	walk = func(node *models.CreatedTaskResult, parent *string) {
		events = append(events, models.TaskEvent{
			Type:         models.EventTaskCreated,
			TaskID:       node.TaskID,
			ParentTaskID: parent,
			Title:        node.Title,
			StatusID:     node.StatusID,
		})
		id := node.TaskID
		for i := range node.Subtasks {
			walk(&node.Subtasks[i], &id)
		}
	}
	if result != nil {
		walk(result, parentTaskID)
	}
	return events
}
