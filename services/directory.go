package services

import (
	"context"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/repositories"
)

// SkillDirectory is a read-only snapshot of the skill table.
type SkillDirectory struct {
	skills []models.Skill
	byID   map[int]models.Skill
	byName map[string]models.Skill
}

func NewSkillDirectory(skills []models.Skill) SkillDirectory {
	dir := SkillDirectory{
		skills: append([]models.Skill(nil), skills...),
		byID:   make(map[int]models.Skill, len(skills)),
		byName: make(map[string]models.Skill, len(skills)),
	}
	for _, s := range skills {
		dir.byID[s.ID] = s
		dir.byName[normalizeSkillName(s.Name)] = s
	}
	return dir
}

func (d SkillDirectory) ByID(id int) (models.Skill, bool) {
	s, ok := d.byID[id]
	return s, ok
}

// ByName matches trimmed names case-insensitively.
func (d SkillDirectory) ByName(name string) (models.Skill, bool) {
	s, ok := d.byName[normalizeSkillName(name)]
	return s, ok
}

func (d SkillDirectory) Skills() []models.Skill {
	return append([]models.Skill(nil), d.skills...)
}

func (d SkillDirectory) Len() int { return len(d.skills) }

func normalizeSkillName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// DirectoryService serves skill and status reference data.
type DirectoryService struct {
	db *sqlx.DB
}

func NewDirectoryService(db *sqlx.DB) *DirectoryService {
	return &DirectoryService{db: db}
}

func (s *DirectoryService) ListSkills(ctx context.Context) ([]models.Skill, error) {
	return repositories.NewSkillRepo(s.db).ListSkills(ctx)
}

func (s *DirectoryService) ListStatuses(ctx context.Context) ([]models.StatusListItem, error) {
	statuses, err := repositories.NewStatusRepo(s.db).ListStatuses(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]models.StatusListItem, 0, len(statuses))
	for _, st := range statuses {
		items = append(items, models.StatusListItem{ID: st.ID, Name: st.Name})
	}
	return items, nil
}

func loadSkillDirectory(ctx context.Context, db sqlx.ExtContext) (SkillDirectory, error) {
	skills, err := repositories.NewSkillRepo(db).ListSkills(ctx)
	if err != nil {
		return SkillDirectory{}, err
	}
	return NewSkillDirectory(skills), nil
}
