package repository

import (
	"context"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
)

// ApplicationWithJob joins an application with the posting it targets.
// Title and Company are empty when the job row is missing.
type ApplicationWithJob struct {
	domain.Application
	JobTitle   string
	JobCompany string
}

// ApplicationWithApplicant joins an application with the applicant's name.
type ApplicationWithApplicant struct {
	domain.Application
	JobTitle      string
	ApplicantName string
}

// StatusCounts aggregates applications by status.
type StatusCounts struct {
	Total    int
	Pending  int
	Accepted int
	Rejected int
}

// ApplicationRepository exposes persistence operations for Applications.
type ApplicationRepository interface {
	Init(ctx context.Context) error
	Create(ctx context.Context, app *domain.Application) (int64, error)
	Get(ctx context.Context, id int64) (*domain.Application, error)
	GetByJobAndApplicant(ctx context.Context, jobID, applicantID int64) (*domain.Application, error)
	UpdateStatus(ctx context.Context, id int64, status domain.ApplicationStatus) error
	ListByApplicant(ctx context.Context, applicantID int64) ([]ApplicationWithJob, error)
	CountByCompany(ctx context.Context, company string) (StatusCounts, error)
	CountByApplicant(ctx context.Context, applicantID int64) (StatusCounts, error)
	RecentByCompany(ctx context.Context, company string, limit int) ([]ApplicationWithApplicant, error)
}
