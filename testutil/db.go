// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/lohszeying/api-task-assignment/config"
	"github.com/lohszeying/api-task-assignment/repositories"
)

// Seeded developer ids.
const (
	AliceID = "7b0f6c1e-6d4a-4c4b-9f57-1f1d1d0a0001" // Frontend
	BobID   = "7b0f6c1e-6d4a-4c4b-9f57-1f1d1d0a0002" // Backend
	CarolID = "7b0f6c1e-6d4a-4c4b-9f57-1f1d1d0a0003" // Frontend, Backend
	DaveID  = "7b0f6c1e-6d4a-4c4b-9f57-1f1d1d0a0004" // all skills
)

// Seeded skill ids.
const (
	SkillFrontend = 1
	SkillBackend  = 2
	SkillDatabase = 3
	SkillDevOps   = 4
)

// NewDB returns a private in-memory SQLite database with the schema and reference data applied.
func NewDB(t testing.TB) *sqlx.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := repositories.Open(context.Background(), config.DriverSQLite, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, repositories.Migrate(db, dsn))
	return db
}

// Clock returns a deterministic, strictly increasing clock starting at start.
func Clock(start time.Time) func() time.Time {
	current := start.UTC()
	return func() time.Time {
		current = current.Add(time.Millisecond)
		return current
	}
}
