package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
	"github.com/Rohan11203/JobPortal-assignment/internal/repository"
)

var (
	// ErrJobNotFound is returned when a job id does not resolve to a posting.
	ErrJobNotFound = errors.New("job not found")
	// ErrApplicationNotFound is returned when an application id is unknown.
	ErrApplicationNotFound = errors.New("application not found")
	// ErrAlreadyApplied is returned on a second application to the same job.
	ErrAlreadyApplied = errors.New("already applied to this job")
	// ErrEmployerOnly rejects job-seeker callers from employer operations.
	ErrEmployerOnly = errors.New("employer account required")
	// ErrJobSeekerOnly rejects employer callers from job-seeker operations.
	ErrJobSeekerOnly = errors.New("job seeker account required")
	// ErrNoCompany is returned when an employer has no company configured.
	ErrNoCompany = errors.New("employer company not set")
	// ErrNotJobOwner rejects employers reviewing another company's applications.
	ErrNotJobOwner = errors.New("application belongs to another company")
	// ErrAlreadyDecided is returned when reviewing a non-pending application.
	ErrAlreadyDecided = errors.New("application already decided")
)

// recentApplicationsLimit bounds the employer dashboard's recent list.
const recentApplicationsLimit = 5

// JobInput carries the fields of an add-job request.
type JobInput struct {
	Title        string
	Company      string
	Location     string
	Type         string
	Salary       string
	Description  string
	Requirements []string
	Category     string
}

// ApplyInput carries the optional attachments of an application.
type ApplyInput struct {
	CoverLetter string
	ResumeKey   string
}

// MonthlyPoint is one month of posting activity on the employer dashboard.
type MonthlyPoint struct {
	Month string
	Jobs  int
}

// CategoryPoint is one category's posting count on the employer dashboard.
type CategoryPoint struct {
	Name  string
	Value int
}

// RecentApplication is a recently received application, joined for display.
type RecentApplication struct {
	ID          int64
	JobTitle    string
	Applicant   string
	AppliedDate string
	Status      domain.ApplicationStatus
}

// EmployerDashboard aggregates postings and applications for one company.
type EmployerDashboard struct {
	ActiveJobsCount    int
	TotalApplications  int
	PendingCount       int
	AcceptedCount      int
	MonthlyData        []MonthlyPoint
	CategoryData       []CategoryPoint
	RecentApplications []RecentApplication
}

// WeeklyActivity is one 7-day bucket of a job seeker's application activity.
type WeeklyActivity struct {
	Week         string
	Applications int
}

// HistoryItem is one row of a job seeker's application history.
type HistoryItem struct {
	ID          int64
	JobTitle    string
	Company     string
	AppliedDate string
	Status      domain.ApplicationStatus
}

// JobSeekerDashboard aggregates one job seeker's applications.
type JobSeekerDashboard struct {
	TotalApplications int
	PendingCount      int
	AcceptedCount     int
	RejectedCount     int
	Activity          []WeeklyActivity
	History           []HistoryItem
}

// JobService coordinates posting and application operations.
type JobService interface {
	AddJob(ctx context.Context, caller domain.Identity, input JobInput) (*domain.Job, error)
	ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error)
	GetJob(ctx context.Context, id int64) (*domain.Job, error)
	Apply(ctx context.Context, caller domain.Identity, jobID int64, input ApplyInput) (*domain.Application, error)
	ReviewApplication(ctx context.Context, caller domain.Identity, appID int64, status domain.ApplicationStatus) (*domain.Application, error)
	GetApplication(ctx context.Context, caller domain.Identity, appID int64) (*domain.Application, error)
	EmployerDashboard(ctx context.Context, caller domain.Identity) (*EmployerDashboard, error)
	JobSeekerDashboard(ctx context.Context, caller domain.Identity) (*JobSeekerDashboard, error)
}

type jobService struct {
	jobs         repository.JobRepository
	applications repository.ApplicationRepository
}

func NewJobService(jobs repository.JobRepository, applications repository.ApplicationRepository) JobService {
	return &jobService{
		jobs:         jobs,
		applications: applications,
	}
}

func (s *jobService) AddJob(ctx context.Context, caller domain.Identity, input JobInput) (*domain.Job, error) {
	if caller.Role != domain.RoleEmployer {
		return nil, ErrEmployerOnly
	}

	missing := missingJobFields(input)
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}

	job := &domain.Job{
		Title:        strings.TrimSpace(input.Title),
		Company:      strings.TrimSpace(input.Company),
		OwnerID:      caller.UserID,
		Location:     strings.TrimSpace(input.Location),
		Type:         strings.TrimSpace(input.Type),
		Salary:       strings.TrimSpace(input.Salary),
		Description:  input.Description,
		Requirements: input.Requirements,
		Category:     strings.TrimSpace(input.Category),
	}

	if _, err := s.jobs.Create(ctx, job); err != nil {
		return nil, err
	}
	return job, nil
}

func (s *jobService) ListJobs(ctx context.Context, filter domain.JobFilter) ([]domain.Job, error) {
	return s.jobs.List(ctx, filter)
}

func (s *jobService) GetJob(ctx context.Context, id int64) (*domain.Job, error) {
	job, err := s.jobs.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

func (s *jobService) Apply(ctx context.Context, caller domain.Identity, jobID int64, input ApplyInput) (*domain.Application, error) {
	if caller.Role != domain.RoleJobSeeker {
		return nil, ErrJobSeekerOnly
	}

	if _, err := s.jobs.Get(ctx, jobID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}

	// Friendly pre-check; the UNIQUE index is what actually holds the invariant
	// when two submissions race.
	if _, err := s.applications.GetByJobAndApplicant(ctx, jobID, caller.UserID); err == nil {
		return nil, ErrAlreadyApplied
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	app := &domain.Application{
		JobID:       jobID,
		ApplicantID: caller.UserID,
		Status:      domain.ApplicationStatusPending,
		CoverLetter: input.CoverLetter,
		ResumeKey:   input.ResumeKey,
	}
	if _, err := s.applications.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyApplied
		}
		return nil, err
	}
	return app, nil
}

func (s *jobService) ReviewApplication(ctx context.Context, caller domain.Identity, appID int64, status domain.ApplicationStatus) (*domain.Application, error) {
	if !status.Decided() {
		return nil, fmt.Errorf("%w: status must be accepted or rejected", ErrValidation)
	}

	app, err := s.ownedApplication(ctx, caller, appID)
	if err != nil {
		return nil, err
	}
	if app.Status.Decided() {
		return nil, ErrAlreadyDecided
	}

	// The update only touches pending rows; if a concurrent review decided the
	// application after the read above, zero rows match and the loser fails.
	if err := s.applications.UpdateStatus(ctx, app.ID, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAlreadyDecided
		}
		return nil, err
	}
	app.Status = status
	return app, nil
}

func (s *jobService) GetApplication(ctx context.Context, caller domain.Identity, appID int64) (*domain.Application, error) {
	return s.ownedApplication(ctx, caller, appID)
}

// ownedApplication loads an application and checks the caller is the employer
// whose company owns the posting it targets.
func (s *jobService) ownedApplication(ctx context.Context, caller domain.Identity, appID int64) (*domain.Application, error) {
	if caller.Role != domain.RoleEmployer {
		return nil, ErrEmployerOnly
	}
	if caller.Company == "" {
		return nil, ErrNoCompany
	}

	app, err := s.applications.Get(ctx, appID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	job, err := s.jobs.Get(ctx, app.JobID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotJobOwner
		}
		return nil, err
	}
	if job.Company != caller.Company {
		return nil, ErrNotJobOwner
	}
	return app, nil
}

func (s *jobService) EmployerDashboard(ctx context.Context, caller domain.Identity) (*EmployerDashboard, error) {
	if caller.Company == "" {
		return nil, ErrNoCompany
	}
	company := caller.Company

	activeJobs, err := s.jobs.CountByCompany(ctx, company)
	if err != nil {
		return nil, err
	}

	counts, err := s.applications.CountByCompany(ctx, company)
	if err != nil {
		return nil, err
	}

	sixMonthsAgo := time.Now().UTC().AddDate(0, -5, 0)
	monthCounts, err := s.jobs.CountByMonth(ctx, company, sixMonthsAgo)
	if err != nil {
		return nil, err
	}
	monthly := make([]MonthlyPoint, len(monthCounts))
	for i, mc := range monthCounts {
		monthly[i] = MonthlyPoint{Month: monthName(mc.Month), Jobs: mc.Count}
	}

	categoryCounts, err := s.jobs.CountByCategory(ctx, company)
	if err != nil {
		return nil, err
	}
	categories := make([]CategoryPoint, len(categoryCounts))
	for i, cc := range categoryCounts {
		categories[i] = CategoryPoint{Name: cc.Category, Value: cc.Count}
	}

	recent, err := s.applications.RecentByCompany(ctx, company, recentApplicationsLimit)
	if err != nil {
		return nil, err
	}
	recentApps := make([]RecentApplication, len(recent))
	for i, app := range recent {
		recentApps[i] = RecentApplication{
			ID:          app.ID,
			JobTitle:    app.JobTitle,
			Applicant:   app.ApplicantName,
			AppliedDate: app.AppliedDate.Format("2006-01-02"),
			Status:      app.Status,
		}
	}

	return &EmployerDashboard{
		ActiveJobsCount:    activeJobs,
		TotalApplications:  counts.Total,
		PendingCount:       counts.Pending,
		AcceptedCount:      counts.Accepted,
		MonthlyData:        monthly,
		CategoryData:       categories,
		RecentApplications: recentApps,
	}, nil
}

func (s *jobService) JobSeekerDashboard(ctx context.Context, caller domain.Identity) (*JobSeekerDashboard, error) {
	counts, err := s.applications.CountByApplicant(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	apps, err := s.applications.ListByApplicant(ctx, caller.UserID)
	if err != nil {
		return nil, err
	}

	dashboard := &JobSeekerDashboard{
		TotalApplications: counts.Total,
		PendingCount:      counts.Pending,
		AcceptedCount:     counts.Accepted,
		RejectedCount:     counts.Rejected,
		Activity:          weeklyActivity(apps, time.Now().UTC()),
		History:           make([]HistoryItem, len(apps)),
	}

	for i, app := range apps {
		title, company := app.JobTitle, app.JobCompany
		if title == "" {
			title = "Unknown"
		}
		if company == "" {
			company = "Unknown"
		}
		dashboard.History[i] = HistoryItem{
			ID:          app.ID,
			JobTitle:    title,
			Company:     company,
			AppliedDate: app.AppliedDate.Format("2006-01-02"),
			Status:      app.Status,
		}
	}

	return dashboard, nil
}

// weeklyActivity buckets applications into six contiguous 7-day windows ending
// at now, oldest first. Bucket boundaries are [now-(i+1)*7d, now-i*7d).
func weeklyActivity(apps []repository.ApplicationWithJob, now time.Time) []WeeklyActivity {
	activity := make([]WeeklyActivity, 0, 6)
	for i := 5; i >= 0; i-- {
		start := now.AddDate(0, 0, -(i+1)*7)
		end := now.AddDate(0, 0, -i*7)
		count := 0
		for _, app := range apps {
			if !app.AppliedDate.Before(start) && app.AppliedDate.Before(end) {
				count++
			}
		}
		activity = append(activity, WeeklyActivity{
			Week:         fmt.Sprintf("Week %d", 6-i),
			Applications: count,
		})
	}
	return activity
}

var monthNames = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

func monthName(month int) string {
	if month < 1 || month > 12 {
		return ""
	}
	return monthNames[month-1]
}

func missingJobFields(input JobInput) []string {
	var missing []string
	if strings.TrimSpace(input.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(input.Company) == "" {
		missing = append(missing, "company")
	}
	if strings.TrimSpace(input.Location) == "" {
		missing = append(missing, "location")
	}
	if strings.TrimSpace(input.Type) == "" {
		missing = append(missing, "type")
	}
	if strings.TrimSpace(input.Description) == "" {
		missing = append(missing, "description")
	}
	return missing
}
