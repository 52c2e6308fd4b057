package models

import (
	"bytes"
	"encoding/json"
)

// TaskTitle decodes any JSON value; non-string titles decode to the empty title so they are
// rejected by title validation rather than by the JSON decoder.
type TaskTitle string

func (t *TaskTitle) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*t = ""
		return nil
	}
	*t = TaskTitle(s)
	return nil
}

// SkillRefList decodes a non-array value as an empty list.
type SkillRefList []SkillRef

func (l *SkillRefList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		*l = nil
		return nil
	}
	refs := make(SkillRefList, 0, len(raw))
	for _, item := range raw {
		var ref SkillRef
		if err := ref.UnmarshalJSON(item); err != nil {
			ref = SkillRef{Invalid: string(item)}
		}
		refs = append(refs, ref)
	}
	*l = refs
	return nil
}

// TaskCreationPayload is the recursive body of POST /tasks. A subtask entry that is not a
// JSON object decodes with Invalid set. Subtasks nested below MaxTaskNestingDepth are not
// decoded; the node holding them has TooDeep set instead.
type TaskCreationPayload struct {
	Title        TaskTitle             `json:"title"`
	Skills       SkillRefList          `json:"skills,omitempty"`
	Subtasks     []TaskCreationPayload `json:"subtasks,omitempty"`
	ParentTaskID string                `json:"parentTaskId,omitempty"` // top-level only
	Invalid      bool                  `json:"-"`
	TooDeep      bool                  `json:"-"`
}

func (p *TaskCreationPayload) UnmarshalJSON(data []byte) error {
	return p.decode(data, 0)
}

// decode reads one nesting level per call and stops at MaxTaskNestingDepth.
func (p *TaskCreationPayload) decode(data []byte, depth int) error {
	*p = TaskCreationPayload{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		p.Invalid = true
		return nil
	}

	var body struct {
		Title    TaskTitle       `json:"title"`
		Skills   SkillRefList    `json:"skills"`
		Subtasks json.RawMessage `json:"subtasks"`
		Parent   json.RawMessage `json:"parentTaskId"`
	}
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return err
	}
	p.Title = body.Title
	p.Skills = body.Skills

	var parent string
	if depth == 0 && len(body.Parent) > 0 && json.Unmarshal(body.Parent, &parent) == nil {
		p.ParentTaskID = parent
	}

	var children []json.RawMessage
	if len(body.Subtasks) == 0 || json.Unmarshal(body.Subtasks, &children) != nil || len(children) == 0 {
		return nil
	}
	if depth >= MaxTaskNestingDepth {
		p.TooDeep = true
		return nil
	}

	p.Subtasks = make([]TaskCreationPayload, len(children))
	for i, child := range children {
		if err := p.Subtasks[i].decode(child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

type CreatedTaskResult struct {
	TaskID      string              `json:"taskId"`
	Title       string              `json:"title"`
	StatusID    int                 `json:"statusId"`
	Skills      []Skill             `json:"skills"`
	DeveloperID *string             `json:"developerId"`
	Subtasks    []CreatedTaskResult `json:"subtasks,omitempty"`
}

type TaskDeveloperSummary struct {
	ID   string `json:"developerId"`
	Name string `json:"developerName"`
}

type TaskSummary struct {
	TaskID    string                `json:"taskId"`
	Title     string                `json:"title"`
	Skills    []Skill               `json:"skills"`
	Status    Status                `json:"status"`
	Developer *TaskDeveloperSummary `json:"developer,omitempty"`
	Subtasks  []*TaskSummary        `json:"subtasks,omitempty"`
}

type TaskRelationSummary struct {
	TaskID string `json:"taskId"`
	Title  string `json:"title"`
	Status Status `json:"status"`
}

type TaskDetails struct {
	TaskID    string                `json:"taskId"`
	Title     string                `json:"title"`
	Status    Status                `json:"status"`
	Skills    []string              `json:"skills"`
	Developer *TaskDeveloperSummary `json:"developer"`
	Parent    *TaskRelationSummary  `json:"parent,omitempty"`
	Children  []TaskRelationSummary `json:"children,omitempty"`
}
