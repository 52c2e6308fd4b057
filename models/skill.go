package models

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

type Skill struct {
	ID   int    `json:"skillId" db:"skill_id"`
	Name string `json:"skillName" db:"skill_name"`
}

// SkillRef is one entry of a task payload's skill list. A JSON integer refers to a skill by id,
// a JSON string by name. Anything else is kept as an invalid token so it can be reported back.
type SkillRef struct {
	ID      *int
	Name    string
	Invalid string
}

func SkillRefByID(id int) SkillRef {
	return SkillRef{ID: &id}
}

func SkillRefByName(name string) SkillRef {
	return SkillRef{Name: name}
}

func (r *SkillRef) UnmarshalJSON(data []byte) error {
	*r = SkillRef{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil
	}

	switch trimmed[0] {
	case '"':
		var name string
		if err := json.Unmarshal(trimmed, &name); err != nil {
			return err
		}
		r.Name = name
		return nil
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return err
		}
		id, ok := integralNumber(n)
		if !ok {
			r.Invalid = n.String()
			return nil
		}
		r.ID = &id
		return nil
	default:
		r.Invalid = string(trimmed)
		return nil
	}
}

func (r SkillRef) MarshalJSON() ([]byte, error) {
	switch {
	case r.ID != nil:
		return json.Marshal(*r.ID)
	case r.Invalid != "":
		return []byte(r.Invalid), nil
	default:
		return json.Marshal(r.Name)
	}
}

// Token is the text used when the reference is reported as unknown.
func (r SkillRef) Token() string {
	switch {
	case r.ID != nil:
		return strconv.Itoa(*r.ID)
	case r.Invalid != "":
		return r.Invalid
	default:
		return strings.TrimSpace(r.Name)
	}
}

// integralNumber accepts integers written in any JSON number form, such as 2, 2.0 or 2e0.
func integralNumber(n json.Number) (int, bool) {
	if id, err := n.Int64(); err == nil && id >= math.MinInt32 && id <= math.MaxInt32 {
		return int(id), true
	}
	f, err := n.Float64()
	if err != nil || f != math.Trunc(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return 0, false
	}
	return int(f), true
}
