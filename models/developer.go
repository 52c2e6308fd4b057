package models

type Developer struct {
	ID   string `json:"developerId" db:"developer_id"`
	Name string `json:"developerName" db:"developer_name"`
}

type DeveloperSkill struct {
	DeveloperID string `db:"developer_id"`
	SkillID     int    `db:"skill_id"`
	SkillName   string `db:"skill_name"`
}

type DeveloperListItem struct {
	ID     string  `json:"developerId"`
	Name   string  `json:"developerName"`
	Skills []Skill `json:"skills"`
}
