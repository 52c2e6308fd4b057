package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"

	"github.com/lohszeying/api-task-assignment/models"
)

type SkillRepo struct {
	db sqlx.ExtContext
}

func NewSkillRepo(db sqlx.ExtContext) *SkillRepo {
	return &SkillRepo{db: db}
}

func (r *SkillRepo) ListSkills(ctx context.Context) ([]models.Skill, error) {
	skills := []models.Skill{}
	query := `SELECT skill_id, skill_name FROM skills ORDER BY skill_id`
	if err := sqlx.SelectContext(ctx, r.db, &skills, query); err != nil {
		return nil, errors.Wrap(err, "failed to list skills")
	}
	return skills, nil
}
