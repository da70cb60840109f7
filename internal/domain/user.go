package domain

import "time"

type Role string

const (
	RoleJobSeeker Role = "jobseeker"
	RoleEmployer  Role = "employer"
)

// Valid reports whether the role is one of the known wire values.
func (r Role) Valid() bool {
	return r == RoleJobSeeker || r == RoleEmployer
}

// User represents an identity in the system, either a job seeker or an employer.
// PasswordHash is empty for externally-authenticated identities.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Company      string
	GoogleID     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the caller attached to an authenticated request. It is derived
// from the verified token claims, not re-read from the store, so it reflects
// the account as it was at sign-in.
type Identity struct {
	UserID  int64
	Email   string
	Role    Role
	Company string
}
