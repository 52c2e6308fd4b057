package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sony/gobreaker"

	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/models"
)

// SkillClassifier suggests skill ids for task descriptions. The result maps each
// temporary task id to whatever the collaborator returned for it.
type SkillClassifier interface {
	ClassifySkills(ctx context.Context, req models.ClassificationRequest) (map[string]any, error)
}

type SkillInferencer struct {
	classifier SkillClassifier
	breaker    *gobreaker.CircuitBreaker
	timeout    time.Duration
}

func NewSkillInferencer(classifier SkillClassifier, timeout time.Duration) *SkillInferencer {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        "skill-classifier-cb",
		MaxRequests: 1,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures > 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Logger.Infof("Event ID: CIRCUIT_BREAKER_STATE_CHANGE, Description: Circuit Breaker '%s' changed from '%s' to '%s'", name, from.String(), to.String())
		},
	})
	return &SkillInferencer{classifier: classifier, breaker: breaker, timeout: timeout}
}

// Infer asks the classifier once for the whole batch. Suggestions that are not integer ids
// of the directory are dropped; tasks left without a valid suggestion are absent from the result.
func (i *SkillInferencer) Infer(ctx context.Context, tasks map[string]string, dir SkillDirectory) (map[string][]models.Skill, error) {
	inferred := make(map[string][]models.Skill)
	if len(tasks) == 0 {
		return inferred, nil
	}

	req := models.ClassificationRequest{
		Tasks:  tasks,
		Skills: make(map[int]string, dir.Len()),
	}
	for _, s := range dir.Skills() {
		req.Skills[s.ID] = s.Name
	}

	result, err := i.breaker.Execute(func() (interface{}, error) {
		callCtx := ctx
		if i.timeout > 0 {
			var cancel context.CancelFunc
			callCtx, cancel = context.WithTimeout(ctx, i.timeout)
			defer cancel()
		}
		return i.classifier.ClassifySkills(callCtx, req)
	})
	if err != nil {
		logging.Logger.Errorf("Event ID: SKILL_INFERENCE_FAILED, Description: Skill classifier call for %d tasks failed: %v", len(tasks), err)
		return nil, NewDependencyError(MsgInferenceFailed, err)
	}

	suggestions, ok := result.(map[string]any)
	if !ok || suggestions == nil {
		return nil, NewDependencyError(MsgInferenceFailed, errors.New("classifier returned no suggestions"))
	}

	tempIDs := make([]string, 0, len(tasks))
	for id := range tasks {
		tempIDs = append(tempIDs, id)
	}
	sort.Strings(tempIDs)

	for _, tempID := range tempIDs {
		raw, ok := suggestions[tempID]
		if !ok {
			continue
		}
		skills := validSuggestedSkills(raw, dir)
		if len(skills) > 0 {
			inferred[tempID] = skills
		}
	}

	logging.Logger.Infof("Event ID: SKILL_INFERENCE_COMPLETED, Description: Inferred skills for %d of %d tasks", len(inferred), len(tasks))
	return inferred, nil
}

func validSuggestedSkills(raw any, dir SkillDirectory) []models.Skill {
	values, ok := raw.([]any)
	if !ok {
		return nil
	}

	var skills []models.Skill
	seen := make(map[int]bool)
	for _, v := range values {
		id, ok := suggestedSkillID(v)
		if !ok || seen[id] {
			continue
		}
		skill, known := dir.ByID(id)
		if !known {
			continue
		}
		seen[id] = true
		skills = append(skills, skill)
	}
	return skills
}

// suggestedSkillID accepts integral JSON numbers and numeric strings.
func suggestedSkillID(v any) (int, bool) {
	switch n := v.(type) {
	case json.Number:
		return integerFromString(n.String())
	case string:
		return integerFromString(strings.TrimSpace(n))
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}

func integerFromString(s string) (int, bool) {
	if id, err := strconv.Atoi(s); err == nil {
		return id, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return int(f), true
}

// TempTaskID is the caller-assigned key of the n-th planned task (1-based, pre-order).
func TempTaskID(n int) string {
	return fmt.Sprintf("task-%d", n)
}
