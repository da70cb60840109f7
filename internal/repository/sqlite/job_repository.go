package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
	"github.com/Rohan11203/JobPortal-assignment/internal/repository"
)

const createJobsTable = `
CREATE TABLE IF NOT EXISTS jobs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	title TEXT NOT NULL,
	company TEXT NOT NULL,
	owner_id INTEGER NOT NULL REFERENCES users(id),
	location TEXT NOT NULL,
	type TEXT NOT NULL,
	salary TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL,
	requirements TEXT NOT NULL DEFAULT '[]',
	posted_date DATETIME NOT NULL,
	category TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_jobs_company ON jobs(company);
CREATE INDEX IF NOT EXISTS idx_jobs_category ON jobs(category);
`

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) repository.JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createJobsTable); err != nil {
		return fmt.Errorf("create jobs table: %w", err)
	}
	return nil
}

func (r *JobRepository) Create(ctx context.Context, job *domain.Job) (int64, error) {
	now := time.Now().UTC()
	job.CreatedAt = now
	job.UpdatedAt = now
	if job.PostedDate.IsZero() {
		job.PostedDate = now
	}

	requirements, err := json.Marshal(job.Requirements)
	if err != nil {
		return 0, fmt.Errorf("marshal requirements: %w", err)
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO jobs (title, company, owner_id, location, type, salary, description, requirements, posted_date, category, created_at, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		job.Title,
		job.Company,
		job.OwnerID,
		job.Location,
		job.Type,
		job.Salary,
		job.Description,
		string(requirements),
		job.PostedDate,
		job.Category,
		job.CreatedAt,
		job.UpdatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert job: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("job last insert id: %w", err)
	}
	job.ID = id
	return id, nil
}

const selectJobColumns = `
SELECT id, title, company, owner_id, location, type, salary, description, requirements, posted_date, category, created_at, updated_at
FROM jobs`

func (r *JobRepository) Get(ctx context.Context, id int64) (*domain.Job, error) {
	row := r.db.QueryRowContext(ctx, selectJobColumns+` WHERE id = ?`, id)
	return scanJob(row)
}

func (r *JobRepository) List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	query := selectJobColumns + ` WHERE 1 = 1`
	var args []any
	if filter.Category != "" {
		query += ` AND category = ?`
		args = append(args, filter.Category)
	}
	if filter.Query != "" {
		query += ` AND (LOWER(title) LIKE '%' || LOWER(?) || '%' OR LOWER(description) LIKE '%' || LOWER(?) || '%')`
		args = append(args, filter.Query, filter.Query)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	defer rows.Close()
	return collectJobs(rows)
}

func (r *JobRepository) CountByCompany(ctx context.Context, company string) (int, error) {
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM jobs WHERE company = ?`, company).Scan(&count); err != nil {
		return 0, fmt.Errorf("count jobs by company: %w", err)
	}
	return count, nil
}

// CountByMonth groups postings by calendar month number. The month is pulled
// out of the ISO timestamp text rather than via strftime so it does not depend
// on the driver's exact time encoding.
func (r *JobRepository) CountByMonth(ctx context.Context, company string, since time.Time) ([]repository.MonthCount, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT CAST(substr(posted_date, 6, 2) AS INTEGER) AS month, COUNT(*) AS count
FROM jobs
WHERE company = ? AND posted_date >= ?
GROUP BY month
ORDER BY month ASC`,
		company,
		since,
	)
	if err != nil {
		return nil, fmt.Errorf("count jobs by month: %w", err)
	}
	defer rows.Close()

	var counts []repository.MonthCount
	for rows.Next() {
		var mc repository.MonthCount
		if err := rows.Scan(&mc.Month, &mc.Count); err != nil {
			return nil, fmt.Errorf("scan month count: %w", err)
		}
		counts = append(counts, mc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month counts: %w", err)
	}
	return counts, nil
}

func (r *JobRepository) CountByCategory(ctx context.Context, company string) ([]repository.CategoryCount, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT category, COUNT(*) AS count
FROM jobs
WHERE company = ?
GROUP BY category`,
		company,
	)
	if err != nil {
		return nil, fmt.Errorf("count jobs by category: %w", err)
	}
	defer rows.Close()

	var counts []repository.CategoryCount
	for rows.Next() {
		var cc repository.CategoryCount
		if err := rows.Scan(&cc.Category, &cc.Count); err != nil {
			return nil, fmt.Errorf("scan category count: %w", err)
		}
		counts = append(counts, cc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category counts: %w", err)
	}
	return counts, nil
}

func collectJobs(rows *sql.Rows) ([]domain.Job, error) {
	var jobs []domain.Job
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate jobs: %w", err)
	}
	return jobs, nil
}

func scanJob(row interface {
	Scan(dest ...any) error
}) (*domain.Job, error) {
	var (
		job          domain.Job
		requirements string
	)
	if err := row.Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.OwnerID,
		&job.Location,
		&job.Type,
		&job.Salary,
		&job.Description,
		&requirements,
		&job.PostedDate,
		&job.Category,
		&job.CreatedAt,
		&job.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("job: %w", repository.ErrNotFound)
		}
		return nil, fmt.Errorf("scan job: %w", err)
	}
	if requirements != "" {
		if err := json.Unmarshal([]byte(requirements), &job.Requirements); err != nil {
			return nil, fmt.Errorf("unmarshal requirements: %w", err)
		}
	}
	return &job, nil
}
