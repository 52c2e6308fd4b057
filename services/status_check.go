package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/lohszeying/api-task-assignment/models"
	"github.com/lohszeying/api-task-assignment/repositories"
)

// ValidateStatusIDs compares the compiled status table with the stored one and reports every mismatch.
func ValidateStatusIDs(ctx context.Context, db sqlx.ExtContext) error {
	stored, err := repositories.NewStatusRepo(db).ListStatuses(ctx)
	if err != nil {
		return err
	}

	byName := make(map[string]int, len(stored))
	for _, st := range stored {
		byName[st.Name] = st.ID
	}

	var problems []string
	for _, expected := range models.ExpectedStatuses {
		id, ok := byName[expected.Name]
		switch {
		case !ok:
			problems = append(problems, fmt.Sprintf("status %q is missing", expected.Name))
		case id != expected.ID:
			problems = append(problems, fmt.Sprintf("status %q has id %d, expected %d", expected.Name, id, expected.ID))
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("status table does not match compiled status ids: %s", strings.Join(problems, "; "))
	}
	return nil
}
