package repositories

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lohszeying/api-task-assignment/models"
)

type DeveloperRepo struct {
	db sqlx.ExtContext
}

func NewDeveloperRepo(db sqlx.ExtContext) *DeveloperRepo {
	return &DeveloperRepo{db: db}
}

// GetDeveloper returns nil when the developer does not exist.
func (r *DeveloperRepo) GetDeveloper(ctx context.Context, developerID string) (*models.Developer, error) {
	var dev models.Developer
	query := r.db.Rebind(`SELECT developer_id, developer_name FROM developers WHERE developer_id = ?`)
	err := sqlx.GetContext(ctx, r.db, &dev, query, developerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "failed to get developer %s", developerID)
	}
	return &dev, nil
}

func (r *DeveloperRepo) GetDeveloperSkillIDs(ctx context.Context, developerID string) ([]int, error) {
	ids := []int{}
	query := r.db.Rebind(`SELECT skill_id FROM developer_skills WHERE developer_id = ? ORDER BY skill_id`)
	if err := sqlx.SelectContext(ctx, r.db, &ids, query, developerID); err != nil {
		return nil, errors.Wrapf(err, "failed to get skills of developer %s", developerID)
	}
	return ids, nil
}

// ListDevelopers returns developers holding every skill in skillIDs, ordered by name.
// An empty skillIDs returns all developers.
func (r *DeveloperRepo) ListDevelopers(ctx context.Context, skillIDs []int) ([]models.Developer, error) {
	developers := []models.Developer{}

	var (
		query string
		args  []interface{}
		err   error
	)
	if len(skillIDs) == 0 {
		query = `SELECT developer_id, developer_name FROM developers ORDER BY developer_name, developer_id`
	} else {
		query, args, err = sqlx.In(`
			SELECT d.developer_id, d.developer_name
			FROM developers d
			WHERE d.developer_id IN (
				SELECT ds.developer_id
				FROM developer_skills ds
				WHERE ds.skill_id IN (?)
				GROUP BY ds.developer_id
				HAVING COUNT(DISTINCT ds.skill_id) = ?
			)
			ORDER BY d.developer_name, d.developer_id`, skillIDs, len(skillIDs))
		if err != nil {
			return nil, errors.Wrap(err, "failed to build developer filter")
		}
		query = r.db.Rebind(query)
	}

	if err := sqlx.SelectContext(ctx, r.db, &developers, query, args...); err != nil {
		return nil, errors.Wrap(err, "failed to list developers")
	}
	return developers, nil
}

// ListDeveloperSkills returns skill links for the given developers, ordered by skill id.
func (r *DeveloperRepo) ListDeveloperSkills(ctx context.Context, developerIDs []string) ([]models.DeveloperSkill, error) {
	rows := []models.DeveloperSkill{}
	if len(developerIDs) == 0 {
		return rows, nil
	}

	query, args, err := sqlx.In(`
		SELECT ds.developer_id, ds.skill_id, s.skill_name
		FROM developer_skills ds
		INNER JOIN skills s ON s.skill_id = ds.skill_id
		WHERE ds.developer_id IN (?)
		ORDER BY ds.developer_id, ds.skill_id`, developerIDs)
	if err != nil {
		return nil, errors.Wrap(err, "failed to build developer skills query")
	}

	if err := sqlx.SelectContext(ctx, r.db, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, errors.Wrap(err, "failed to list developer skills")
	}
	return rows, nil
}
