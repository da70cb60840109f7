package repository

import (
	"context"
	"time"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
)

// MonthCount is one row of a postings-per-calendar-month aggregation.
type MonthCount struct {
	Month int // 1..12
	Count int
}

// CategoryCount is one row of a postings-per-category aggregation.
type CategoryCount struct {
	Category string
	Count    int
}

// JobRepository exposes persistence operations for Job postings.
type JobRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, job *domain.Job) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Job, error)
	List(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	CountByCompany(ctx context.Context, company string) (int, error)
	CountByMonth(ctx context.Context, company string, since time.Time) ([]MonthCount, error)
	CountByCategory(ctx context.Context, company string) ([]CategoryCount, error)
}
