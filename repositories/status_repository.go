package repositories

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lohszeying/api-task-assignment/models"
)

type StatusRepo struct {
	db sqlx.ExtContext
}

func NewStatusRepo(db sqlx.ExtContext) *StatusRepo {
	return &StatusRepo{db: db}
}

func (r *StatusRepo) ListStatuses(ctx context.Context) ([]models.Status, error) {
	statuses := []models.Status{}
	query := `SELECT status_id, status_name FROM statuses ORDER BY status_id`
	if err := sqlx.SelectContext(ctx, r.db, &statuses, query); err != nil {
		return nil, errors.Wrap(err, "failed to list statuses")
	}
	return statuses, nil
}

// GetStatus returns nil when the status does not exist.
func (r *StatusRepo) GetStatus(ctx context.Context, statusID int) (*models.Status, error) {
	var status models.Status
	query := r.db.Rebind(`SELECT status_id, status_name FROM statuses WHERE status_id = ?`)
	err := sqlx.GetContext(ctx, r.db, &status, query, statusID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get status %d", statusID)
	}
	return &status, nil
}
