package domain

import "time"

type ApplicationStatus string

const (
	ApplicationStatusPending  ApplicationStatus = "pending"
	ApplicationStatusAccepted ApplicationStatus = "accepted"
	ApplicationStatusRejected ApplicationStatus = "rejected"
)

// Decided reports whether the status is terminal.
func (s ApplicationStatus) Decided() bool {
	return s == ApplicationStatusAccepted || s == ApplicationStatusRejected
}

// Application links a job seeker to a job. At most one exists per
// (job, applicant) pair.
type Application struct {
	ID          int64
	JobID       int64
	ApplicantID int64
	Status      ApplicationStatus
	AppliedDate time.Time
	CoverLetter string
	ResumeKey   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
