package models

// ClassificationRequest is the single batched input sent to the skill classifier.
type ClassificationRequest struct {
	Tasks  map[string]string `json:"tasks"`
	Skills map[int]string    `json:"skills"`
}
