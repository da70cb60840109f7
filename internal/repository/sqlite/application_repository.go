package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
	"github.com/Rohan11203/JobPortal-assignment/internal/repository"
)

const createApplicationsTable = `
CREATE TABLE IF NOT EXISTS applications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	job_id INTEGER NOT NULL REFERENCES jobs(id),
	applicant_id INTEGER NOT NULL REFERENCES users(id),
	status TEXT NOT NULL DEFAULT 'pending',
	applied_date DATETIME NOT NULL,
	cover_letter TEXT NOT NULL DEFAULT '',
	resume_key TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL,
	UNIQUE (job_id, applicant_id)
);
CREATE INDEX IF NOT EXISTS idx_applications_applicant ON applications(applicant_id);
`

type ApplicationRepository struct {
	db *sql.DB
}

func NewApplicationRepository(db *sql.DB) repository.ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createApplicationsTable); err != nil {
		return fmt.Errorf("create applications table: %w", err)
	}
	return nil
}

// Create inserts the application. The composite UNIQUE index on
// (job_id, applicant_id) makes the insert the one-application-per-job check,
// so concurrent duplicate submissions cannot both succeed.
func (r *ApplicationRepository) Create(ctx context.Context, app *domain.Application) (int64, error) {
	now := time.Now().UTC()
	app.CreatedAt = now
	app.UpdatedAt = now
	if app.AppliedDate.IsZero() {
		app.AppliedDate = now
	}
	if app.Status == "" {
		app.Status = domain.ApplicationStatusPending
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO applications (job_id, applicant_id, status, applied_date, cover_letter, resume_key, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		app.JobID,
		app.ApplicantID,
		string(app.Status),
		app.AppliedDate,
		app.CoverLetter,
		app.ResumeKey,
		app.CreatedAt,
		app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("insert application: %w", repository.ErrDuplicate)
		}
		return 0, fmt.Errorf("insert application: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("application last insert id: %w", err)
	}
	app.ID = id
	return id, nil
}

const selectApplicationColumns = `
SELECT id, job_id, applicant_id, status, applied_date, cover_letter, resume_key, created_at, updated_at
FROM applications`

func (r *ApplicationRepository) Get(ctx context.Context, id int64) (*domain.Application, error) {
	row := r.db.QueryRowContext(ctx, selectApplicationColumns+` WHERE id = ?`, id)
	return scanApplication(row)
}

func (r *ApplicationRepository) GetByJobAndApplicant(ctx context.Context, jobID, applicantID int64) (*domain.Application, error) {
	row := r.db.QueryRowContext(ctx, selectApplicationColumns+` WHERE job_id = ? AND applicant_id = ?`, jobID, applicantID)
	return scanApplication(row)
}

// UpdateStatus moves a pending application to a decided status. The pending
// guard in the WHERE clause is the once-only check, so two racing reviews
// cannot both succeed; zero affected rows means the row is missing or was
// already decided.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error {
	res, err := r.db.ExecContext(ctx, `
UPDATE applications
SET status = ?, updated_at = ?
WHERE id = ? AND status = ?`,
		string(status),
		time.Now().UTC(),
		id,
		string(domain.ApplicationStatusPending),
	)
	if err != nil {
		return fmt.Errorf("update application status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("application rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("application: %w", repository.ErrNotFound)
	}
	return nil
}

// ListByApplicant returns the applicant's applications newest first, joined
// with the posting's title and company. A missing job row leaves the joined
// fields empty rather than dropping the application.
func (r *ApplicationRepository) ListByApplicant(ctx context.Context, applicantID int64) ([]repository.ApplicationWithJob, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT a.id, a.job_id, a.applicant_id, a.status, a.applied_date, a.cover_letter, a.resume_key, a.created_at, a.updated_at,
       COALESCE(j.title, ''), COALESCE(j.company, '')
FROM applications a
LEFT JOIN jobs j ON j.id = a.job_id
WHERE a.applicant_id = ?
ORDER BY a.applied_date DESC`,
		applicantID,
	)
	if err != nil {
		return nil, fmt.Errorf("list applications by applicant: %w", err)
	}
	defer rows.Close()

	var apps []repository.ApplicationWithJob
	for rows.Next() {
		var (
			item   repository.ApplicationWithJob
			status string
		)
		if err := rows.Scan(
			&item.ID,
			&item.JobID,
			&item.ApplicantID,
			&status,
			&item.AppliedDate,
			&item.CoverLetter,
			&item.ResumeKey,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.JobTitle,
			&item.JobCompany,
		); err != nil {
			return nil, fmt.Errorf("scan application with job: %w", err)
		}
		item.Status = domain.ApplicationStatus(status)
		apps = append(apps, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate applications: %w", err)
	}
	return apps, nil
}

func (r *ApplicationRepository) CountByCompany(ctx context.Context, company string) (repository.StatusCounts, error) {
	return r.countStatuses(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN a.status = 'pending' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN a.status = 'accepted' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN a.status = 'rejected' THEN 1 ELSE 0 END), 0)
FROM applications a
JOIN jobs j ON j.id = a.job_id
WHERE j.company = ?`,
		company,
	)
}

func (r *ApplicationRepository) CountByApplicant(ctx context.Context, applicantID int64) (repository.StatusCounts, error) {
	return r.countStatuses(ctx, `
SELECT COUNT(*),
       COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status = 'accepted' THEN 1 ELSE 0 END), 0),
       COALESCE(SUM(CASE WHEN status = 'rejected' THEN 1 ELSE 0 END), 0)
FROM applications
WHERE applicant_id = ?`,
		applicantID,
	)
}

func (r *ApplicationRepository) countStatuses(ctx context.Context, query string, arg any) (repository.StatusCounts, error) {
	var counts repository.StatusCounts
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&counts.Total,
		&counts.Pending,
		&counts.Accepted,
		&counts.Rejected,
	); err != nil {
		return repository.StatusCounts{}, fmt.Errorf("count applications: %w", err)
	}
	return counts, nil
}

func (r *ApplicationRepository) RecentByCompany(ctx context.Context, company string, limit int) ([]repository.ApplicationWithApplicant, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT a.id, a.job_id, a.applicant_id, a.status, a.applied_date, a.cover_letter, a.resume_key, a.created_at, a.updated_at,
       j.title, COALESCE(u.name, '')
FROM applications a
JOIN jobs j ON j.id = a.job_id
LEFT JOIN users u ON u.id = a.applicant_id
WHERE j.company = ?
ORDER BY a.applied_date DESC
LIMIT ?`,
		company,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent applications by company: %w", err)
	}
	defer rows.Close()

	var apps []repository.ApplicationWithApplicant
	for rows.Next() {
		var (
			item   repository.ApplicationWithApplicant
			status string
		)
		if err := rows.Scan(
			&item.ID,
			&item.JobID,
			&item.ApplicantID,
			&status,
			&item.AppliedDate,
			&item.CoverLetter,
			&item.ResumeKey,
			&item.CreatedAt,
			&item.UpdatedAt,
			&item.JobTitle,
			&item.ApplicantName,
		); err != nil {
			return nil, fmt.Errorf("scan recent application: %w", err)
		}
		item.Status = domain.ApplicationStatus(status)
		apps = append(apps, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate recent applications: %w", err)
	}
	return apps, nil
}

func scanApplication(row interface {
	Scan(dest ...any) error
}) (*domain.Application, error) {
	var (
		app    domain.Application
		status string
	)
	if err := row.Scan(
		&app.ID,
		&app.JobID,
		&app.ApplicantID,
		&status,
		&app.AppliedDate,
		&app.CoverLetter,
		&app.ResumeKey,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("application: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan application: %w", err)
	}
	app.Status = domain.ApplicationStatus(status)
	return &app, nil
}
