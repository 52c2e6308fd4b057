package services

import (
	"strings"

	"github.com/lohszeying/api-task-assignment/models"
)

// MatchSkills partitions refs into directory skills and the tokens that matched nothing.
// Duplicate references collapse; empty names are ignored. Order follows the input.
func MatchSkills(refs []models.SkillRef, dir SkillDirectory) ([]models.Skill, []string) {
	matched := []models.Skill{}
	var unmatched []string

	seenIDs := make(map[int]bool)
	seenNames := make(map[string]bool)
	seenSkills := make(map[int]bool)
	seenTokens := make(map[string]bool)

	addMatch := func(s models.Skill) {
		if !seenSkills[s.ID] {
			seenSkills[s.ID] = true
			matched = append(matched, s)
		}
	}
	addUnmatched := func(token string) {
		if !seenTokens[token] {
			seenTokens[token] = true
			unmatched = append(unmatched, token)
		}
	}

	for _, ref := range refs {
		switch {
		case ref.ID != nil:
			if seenIDs[*ref.ID] {
				continue
			}
			seenIDs[*ref.ID] = true
			if s, ok := dir.ByID(*ref.ID); ok {
				addMatch(s)
			} else {
				addUnmatched(ref.Token())
			}
		case ref.Invalid != "":
			addUnmatched(ref.Invalid)
		default:
			name := strings.TrimSpace(ref.Name)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if seenNames[key] {
				continue
			}
			seenNames[key] = true
			if s, ok := dir.ByName(name); ok {
				addMatch(s)
			} else {
				addUnmatched(name)
			}
		}
	}
	return matched, unmatched
}

// ResolveSkills is MatchSkills that fails on any unmatched reference.
func ResolveSkills(refs []models.SkillRef, dir SkillDirectory) ([]models.Skill, error) {
	matched, unmatched := MatchSkills(refs, dir)
	if len(unmatched) > 0 {
		return nil, NewValidationError(MsgUnknownSkillsPrefix + strings.Join(unmatched, ", "))
	}
	return matched, nil
}
