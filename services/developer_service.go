package services

import (
	"context"
	"strconv"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/repositories"
)

type DeveloperService struct {
	developers *repositories.DeveloperRepo
}

func NewDeveloperService(db *sqlx.DB) *DeveloperService {
	return &DeveloperService{developers: repositories.NewDeveloperRepo(db)}
}

// ParseSkillFilter reads a comma separated list of skill ids. An empty parameter means no filter.
// Empty tokens are skipped, but a non-empty parameter with no ids at all is rejected, as is any
// token that is not an integer.
func ParseSkillFilter(param string) ([]int, error) {
	if param == "" {
		return nil, nil
	}
	var ids []int
	seen := make(map[int]bool)
	for _, token := range strings.Split(param, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		id, err := strconv.Atoi(token)
		if err != nil {
			return nil, NewValidationError(MsgInvalidSkillQuery)
		}
		if !seen[id] {
			seen[id] = true
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, NewValidationError(MsgInvalidSkillQuery)
	}
	return ids, nil
}

// ListDevelopers returns developers holding all of skillIDs (every developer when empty) with their skills.
func (s *DeveloperService) ListDevelopers(ctx context.Context, skillIDs []int) ([]models.DeveloperListItem, error) {
	developers, err := s.developers.ListDevelopers(ctx, skillIDs)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(developers))
	for _, d := range developers {
		ids = append(ids, d.ID)
	}
	links, err := s.developers.ListDeveloperSkills(ctx, ids)
	if err != nil {
		return nil, err
	}

	skillsByDeveloper := make(map[string][]models.Skill)
	for _, l := range links {
		skillsByDeveloper[l.DeveloperID] = append(skillsByDeveloper[l.DeveloperID], models.Skill{ID: l.SkillID, Name: l.SkillName})
	}

	items := make([]models.DeveloperListItem, 0, len(developers))
	for _, d := range developers {
		skills := skillsByDeveloper[d.ID]
		if skills == nil {
			skills = []models.Skill{}
		}
		items = append(items, models.DeveloperListItem{ID: d.ID, Name: d.Name, Skills: skills})
	}
	return items, nil
}
