package repositories

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"

	"github.com/lohszeying/api-task-assignment/models"
)

// GraphRepo projects the task hierarchy into Neo4j.
type GraphRepo struct {
	driver neo4j.DriverWithContext
}

func NewGraphRepo(ctx context.Context, uri, user, password string) (*GraphRepo, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Neo4j driver")
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, errors.Wrap(err, "failed to reach Neo4j")
	}
	return &GraphRepo{driver: driver}, nil
}

func (r *GraphRepo) Name() string { return "neo4j-graph" }

func (r *GraphRepo) Record(ctx context.Context, event models.TaskEvent) error {
	return projectEvent(ctx, r, event)
}

type graphProjector interface {
	EnsureTaskNode(ctx context.Context, task models.TaskNode, parentID *string) error
	UpdateStatus(ctx context.Context, taskID string, statusID int) error
	DeleteTaskNode(ctx context.Context, taskID string) error
}

// projectEvent applies the hierarchy-changing events; assignment events do not touch the graph.
func projectEvent(ctx context.Context, g graphProjector, event models.TaskEvent) error {
	switch event.Type {
	case models.EventTaskCreated:
		node := models.TaskNode{ID: event.TaskID, Title: event.Title, StatusID: event.StatusID}
		return g.EnsureTaskNode(ctx, node, event.ParentTaskID)
	case models.EventTaskStatusChanged:
		return g.UpdateStatus(ctx, event.TaskID, event.StatusID)
	case models.EventTaskCreationCompensated:
		return g.DeleteTaskNode(ctx, event.TaskID)
	}
	return nil
}

// EnsureTaskNode merges the task node and, when parentID is set, its SUBTASK_OF edge.
func (r *GraphRepo) EnsureTaskNode(ctx context.Context, task models.TaskNode, parentID *string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		query := `
			MERGE (t:Task {id: $id})
			ON CREATE SET t.title = $title, t.statusId = $statusId
		`
		params := map[string]any{
			"id":       task.ID,
			"title":    task.Title,
			"statusId": task.StatusID,
		}
		if _, err := tx.Run(ctx, query, params); err != nil {
			return nil, err
		}
		if parentID == nil {
			return nil, nil
		}

		_, err := tx.Run(ctx, `
			MERGE (p:Task {id: $parentId})
			WITH p
			MATCH (c:Task {id: $id})
			MERGE (c)-[:SUBTASK_OF]->(p)
		`, map[string]any{"id": task.ID, "parentId": *parentID})
		return nil, err
	})
	if err != nil {
		return errors.Wrapf(err, "failed to project task %s", task.ID)
	}
	return nil
}

func (r *GraphRepo) UpdateStatus(ctx context.Context, taskID string, statusID int) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `MATCH (t:Task {id: $id}) SET t.statusId = $statusId`,
			map[string]any{"id": taskID, "statusId": statusID})
		return nil, err
	})
	if err != nil {
		return errors.Wrapf(err, "failed to project status of task %s", taskID)
	}
	return nil
}

// DeleteTaskNode removes the node and every node below it.
func (r *GraphRepo) DeleteTaskNode(ctx context.Context, taskID string) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx, `
			MATCH (t:Task {id: $id})
			OPTIONAL MATCH (d:Task)-[:SUBTASK_OF*1..]->(t)
			DETACH DELETE d, t
		`, map[string]any{"id": taskID})
		return nil, err
	})
	if err != nil {
		return errors.Wrapf(err, "failed to remove task %s from graph", taskID)
	}
	return nil
}

func (r *GraphRepo) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}
