package models

type Status struct {
	ID   int    `json:"statusId" db:"status_id"`
	Name string `json:"statusName" db:"status_name"`
}

// StatusListItem is the shape returned by GET /statuses.
type StatusListItem struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
