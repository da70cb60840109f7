package domain

import "time"

// Job represents a posting owned by one employer identity.
type Job struct {
	ID           int64
	Title        string
	Company      string
	OwnerID      int64
	Location     string
	Type         string
	Salary       string
	Description  string
	Requirements []string
	PostedDate   time.Time
	Category     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// JobFilter narrows a public job listing. Zero values match everything.
type JobFilter struct {
	// Category matches exactly when non-empty.
	Category string
	// Query matches case-insensitively against title or description.
	Query string
}
