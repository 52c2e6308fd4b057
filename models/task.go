package models

import "time"

type TaskStatusID int

const (
	StatusBacklog             TaskStatusID = 1
	StatusReadyForDevelopment TaskStatusID = 2
	StatusInProgress          TaskStatusID = 3
	StatusTesting             TaskStatusID = 4
	StatusPOReview            TaskStatusID = 5
	StatusDone                TaskStatusID = 6
)

// MaxTaskNestingDepth is the number of subtask levels allowed below a root task.
const MaxTaskNestingDepth = 3

// ExpectedStatuses is the compiled-in status table checked against the database at startup.
var ExpectedStatuses = []Status{
	{ID: int(StatusBacklog), Name: "Backlog"},
	{ID: int(StatusReadyForDevelopment), Name: "Ready for development"},
	{ID: int(StatusInProgress), Name: "In Progress"},
	{ID: int(StatusTesting), Name: "Testing"},
	{ID: int(StatusPOReview), Name: "PO Review"},
	{ID: int(StatusDone), Name: "Done"},
}

type Task struct {
	ID           string    `json:"taskId" db:"task_id"`
	Title        string    `json:"title" db:"title"`
	StatusID     int       `json:"statusId" db:"status_id"`
	DeveloperID  *string   `json:"developerId" db:"developer_id"`
	ParentTaskID *string   `json:"parentTaskId,omitempty" db:"parent_task_id"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}

type TaskSkill struct {
	TaskID  string `db:"task_id"`
	SkillID int    `db:"skill_id"`
}

// TaskRow is a task joined with its status and developer, used by the read models.
type TaskRow struct {
	ID            string  `db:"task_id"`
	Title         string  `db:"title"`
	ParentTaskID  *string `db:"parent_task_id"`
	StatusID      int     `db:"status_id"`
	StatusName    string  `db:"status_name"`
	DeveloperID   *string `db:"developer_id"`
	DeveloperName *string `db:"developer_name"`
}

// TaskSkillRow is a task-skill link joined with the skill name.
type TaskSkillRow struct {
	TaskID    string `db:"task_id"`
	SkillID   int    `db:"skill_id"`
	SkillName string `db:"skill_name"`
}
