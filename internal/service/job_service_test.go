package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
	"github.com/Rohan11203/JobPortal-assignment/internal/repository"
)

func seedUser(t *testing.T, users repository.UserRepository, name, email string, role domain.Role, company string) domain.Identity {
	t.Helper()
	user := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: "x",
		Role:         role,
		Company:      company,
	}
	_, err := users.Create(context.Background(), user)
	require.NoError(t, err)
	return domain.Identity{
		UserID:  user.ID,
		Email:   user.Email,
		Role:    user.Role,
		Company: user.Company,
	}
}

func validJobInput() JobInput {
	return JobInput{
		Title:        "Backend Engineer",
		Company:      "Acme",
		Location:     "Remote",
		Type:         "Full-time",
		Salary:       "competitive",
		Description:  "Build the job board",
		Requirements: []string{"Go", "SQL"},
		Category:     "Engineering",
	}
}

func TestAddJob(t *testing.T) {
	users, jobs, apps := newTestRepos(t)
	svc := NewJobService(jobs, apps)
	ctx := context.Background()

	employer := seedUser(t, users, "Eve", "eve@acme.com", domain.RoleEmployer, "Acme")
	seeker := seedUser(t, users, "Sam", "sam@x.com", domain.RoleJobSeeker, "")

	job, err := svc.AddJob(ctx, employer, validJobInput())
	require.NoError(t, err)
	assert.NotZero(t, job.ID)
	assert.Equal(t, employer.UserID, job.OwnerID)
	assert.False(t, job.PostedDate.IsZero())

	_, err = svc.AddJob(ctx, seeker, validJobInput())
	assert.ErrorIs(t, err, ErrEmployerOnly)

	for _, tc := range []struct {
		name   string
		mutate func(*JobInput)
	}{
		{"title", func(in *JobInput) { in.Title = "" }},
		{"company", func(in *JobInput) { in.Company = " " }},
		{"location", func(in *JobInput) { in.Location = "" }},
		{"type", func(in *JobInput) { in.Type = "" }},
		{"description", func(in *JobInput) { in.Description = "" }},
	} {
		t.Run("missing "+tc.name, func(t *testing.T) {
			input := validJobInput()
			tc.mutate(&input)
			_, err := svc.AddJob(ctx, employer, input)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestListJobsFilter(t *testing.T) {
	users, jobs, apps := newTestRepos(t)
	svc := NewJobService(jobs, apps)
	ctx := context.Background()

	employer := seedUser(t, users, "Eve", "eve@acme.com", domain.RoleEmployer, "Acme")

	backend := validJobInput()
	_, err := svc.AddJob(ctx, employer, backend)
	require.NoError(t, err)

	design := validJobInput()
	design.Title = "Product Designer"
	design.Description = "Own the design system"
	design.Category = "Design"
	_, err = svc.AddJob(ctx, employer, design)
	require.NoError(t, err)

	all, err := svc.ListJobs(ctx, domain.JobFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	byCategory, err := svc.ListJobs(ctx, domain.JobFilter{Category: "Design"})
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	assert.Equal(t, "Product Designer", byCategory[0].Title)

	// matches title case-insensitively
	byQuery, err := svc.ListJobs(ctx, domain.JobFilter{Query: "designer"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Product Designer", byQuery[0].Title)

	// matches description too
	byQuery, err = svc.ListJobs(ctx, domain.JobFilter{Query: "JOB BOARD"})
	require.NoError(t, err)
	require.Len(t, byQuery, 1)
	assert.Equal(t, "Backend Engineer", byQuery[0].Title)

	none, err := svc.ListJobs(ctx, domain.JobFilter{Category: "Design", Query: "backend"})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGetJob(t *testing.T) {
	users, jobs, apps := newTestRepos(t)
	svc := NewJobService(jobs, apps)
	ctx := context.Background()

	employer := seedUser(t, users, "Eve", "eve@acme.com", domain.RoleEmployer, "Acme")
	job, err := svc.AddJob(ctx, employer, validJobInput())
	require.NoError(t, err)

	got, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, got.Title)
	assert.Equal(t, []string{"Go", "SQL"}, got.Requirements)

	_, err = svc.GetJob(ctx, 99999)
	assert.ErrorIs(t, err, ErrJobNotFound)
}

func TestApply(t *testing.T) {
	users, jobs, apps := newTestRepos(t)
	svc := NewJobService(jobs, apps)
	ctx := context.Background()

	employer := seedUser(t, users, "Eve", "eve@acme.com", domain.RoleEmployer, "Acme")
	seeker := seedUser(t, users, "Sam", "sam@x.com", domain.RoleJobSeeker, "")

	job, err := svc.AddJob(ctx, employer, validJobInput())
	require.NoError(t, err)

	app, err := svc.Apply(ctx, seeker, job.ID, ApplyInput{CoverLetter: "hi"})
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusPending, app.Status)
	assert.Equal(t, "hi", app.CoverLetter)

	_, err = svc.Apply(ctx, seeker, job.ID, ApplyInput{})
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	_, err = svc.Apply(ctx, employer, job.ID, ApplyInput{})
	assert.ErrorIs(t, err, ErrJobSeekerOnly)

	_, err = svc.Apply(ctx, seeker, 99999, ApplyInput{})
	assert.ErrorIs(t, err, ErrJobNotFound)

	// the duplicate attempt did not create a second row
	dashboard, err := svc.JobSeekerDashboard(ctx, seeker)
	require.NoError(t, err)
	assert.Equal(t, 1, dashboard.TotalApplications)
}

func TestReviewApplication(t *testing.T) {
	users, jobs, apps := newTestRepos(t)
	svc := NewJobService(jobs, apps)
	ctx := context.Background()

	employer := seedUser(t, users, "Eve", "eve@acme.com", domain.RoleEmployer, "Acme")
	rival := seedUser(t, users, "Mallory", "m@rival.com", domain.RoleEmployer, "Rival")
	seeker := seedUser(t, users, "Sam", "sam@x.com", domain.RoleJobSeeker, "")

	job, err := svc.AddJob(ctx, employer, validJobInput())
	require.NoError(t, err)
	app, err := svc.Apply(ctx, seeker, job.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = svc.ReviewApplication(ctx, seeker, app.ID, domain.ApplicationStatusAccepted)
	assert.ErrorIs(t, err, ErrEmployerOnly)

	_, err = svc.ReviewApplication(ctx, rival, app.ID, domain.ApplicationStatusAccepted)
	assert.ErrorIs(t, err, ErrNotJobOwner)

	_, err = svc.ReviewApplication(ctx, employer, app.ID, "pending")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.ReviewApplication(ctx, employer, 99999, domain.ApplicationStatusAccepted)
	assert.ErrorIs(t, err, ErrApplicationNotFound)

	reviewed, err := svc.ReviewApplication(ctx, employer, app.ID, domain.ApplicationStatusAccepted)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusAccepted, reviewed.Status)

	// accepted is terminal
	_, err = svc.ReviewApplication(ctx, employer, app.ID, domain.ApplicationStatusRejected)
	assert.ErrorIs(t, err, ErrAlreadyDecided)
}

// staleApplications serves a fixed snapshot from Get, standing in for a
// reviewer whose read happened before a competing review committed.
type staleApplications struct {
	repository.ApplicationRepository
	snapshot domain.Application
}

func (s *staleApplications) Get(ctx context.Context, id int64) (*domain.Application, error) {
	app := s.snapshot
	return &app, nil
}

func TestReviewApplicationConcurrentDecision(t *testing.T) {
	users, jobs, apps := newTestRepos(t)
	svc := NewJobService(jobs, apps)
	ctx := context.Background()

	employer := seedUser(t, users, "Eve", "eve@acme.com", domain.RoleEmployer, "Acme")
	seeker := seedUser(t, users, "Sam", "sam@x.com", domain.RoleJobSeeker, "")

	job, err := svc.AddJob(ctx, employer, validJobInput())
	require.NoError(t, err)
	app, err := svc.Apply(ctx, seeker, job.ID, ApplyInput{})
	require.NoError(t, err)

	// Both reviewers see the application pending; the first decision lands.
	pending := *app
	_, err = svc.ReviewApplication(ctx, employer, app.ID, domain.ApplicationStatusAccepted)
	require.NoError(t, err)

	// The second reviewer still holds the pending snapshot, so the in-memory
	// check passes and only the guarded update can stop the overwrite.
	stale := NewJobService(jobs, &staleApplications{ApplicationRepository: apps, snapshot: pending})
	_, err = stale.ReviewApplication(ctx, employer, app.ID, domain.ApplicationStatusRejected)
	assert.ErrorIs(t, err, ErrAlreadyDecided)

	final, err := apps.Get(ctx, app.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ApplicationStatusAccepted, final.Status)
}

func TestEmployerDashboard(t *testing.T) {
	users, jobs, apps := newTestRepos(t)
	svc := NewJobService(jobs, apps)
	ctx := context.Background()

	employer := seedUser(t, users, "Eve", "eve@acme.com", domain.RoleEmployer, "Acme")
	rival := seedUser(t, users, "Mallory", "m@rival.com", domain.RoleEmployer, "Rival")
	alice := seedUser(t, users, "Alice", "alice@x.com", domain.RoleJobSeeker, "")
	bob := seedUser(t, users, "Bob", "bob@x.com", domain.RoleJobSeeker, "")

	first, err := svc.AddJob(ctx, employer, validJobInput())
	require.NoError(t, err)
	second := validJobInput()
	second.Title = "Product Designer"
	second.Category = "Design"
	secondJob, err := svc.AddJob(ctx, employer, second)
	require.NoError(t, err)

	// another company's posting must not leak into the dashboard
	other := validJobInput()
	other.Company = "Rival"
	otherJob, err := svc.AddJob(ctx, rival, other)
	require.NoError(t, err)

	_, err = svc.Apply(ctx, alice, first.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, bob, first.ID, ApplyInput{})
	require.NoError(t, err)
	appToAccept, err := svc.Apply(ctx, alice, secondJob.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = svc.Apply(ctx, bob, otherJob.ID, ApplyInput{})
	require.NoError(t, err)

	_, err = svc.ReviewApplication(ctx, employer, appToAccept.ID, domain.ApplicationStatusAccepted)
	require.NoError(t, err)

	dashboard, err := svc.EmployerDashboard(ctx, employer)
	require.NoError(t, err)

	assert.Equal(t, 2, dashboard.ActiveJobsCount)
	assert.Equal(t, 3, dashboard.TotalApplications)
	assert.Equal(t, 2, dashboard.PendingCount)
	assert.Equal(t, 1, dashboard.AcceptedCount)
	assert.LessOrEqual(t, dashboard.PendingCount+dashboard.AcceptedCount, dashboard.TotalApplications)

	require.NotEmpty(t, dashboard.MonthlyData)
	total := 0
	for _, point := range dashboard.MonthlyData {
		total += point.Jobs
	}
	assert.Equal(t, 2, total)
	assert.Equal(t, time.Now().UTC().Format("Jan"), dashboard.MonthlyData[len(dashboard.MonthlyData)-1].Month)

	categories := map[string]int{}
	for _, point := range dashboard.CategoryData {
		categories[point.Name] = point.Value
	}
	assert.Equal(t, map[string]int{"Engineering": 1, "Design": 1}, categories)

	require.Len(t, dashboard.RecentApplications, 3)
	for _, recent := range dashboard.RecentApplications {
		assert.NotEmpty(t, recent.JobTitle)
		assert.NotEmpty(t, recent.Applicant)
		assert.Regexp(t, `^\d{4}-\d{2}-\d{2}$`, recent.AppliedDate)
	}

	_, err = svc.EmployerDashboard(ctx, domain.Identity{UserID: employer.UserID, Role: domain.RoleEmployer})
	assert.ErrorIs(t, err, ErrNoCompany)
}

func TestJobSeekerDashboard(t *testing.T) {
	users, jobs, apps := newTestRepos(t)
	svc := NewJobService(jobs, apps)
	ctx := context.Background()

	employer := seedUser(t, users, "Eve", "eve@acme.com", domain.RoleEmployer, "Acme")
	seeker := seedUser(t, users, "Sam", "sam@x.com", domain.RoleJobSeeker, "")

	job, err := svc.AddJob(ctx, employer, validJobInput())
	require.NoError(t, err)
	app, err := svc.Apply(ctx, seeker, job.ID, ApplyInput{})
	require.NoError(t, err)
	_, err = svc.ReviewApplication(ctx, employer, app.ID, domain.ApplicationStatusRejected)
	require.NoError(t, err)

	dashboard, err := svc.JobSeekerDashboard(ctx, seeker)
	require.NoError(t, err)

	assert.Equal(t, 1, dashboard.TotalApplications)
	assert.Equal(t, 0, dashboard.PendingCount)
	assert.Equal(t, 0, dashboard.AcceptedCount)
	assert.Equal(t, 1, dashboard.RejectedCount)

	require.Len(t, dashboard.Activity, 6)
	sum := 0
	for _, bucket := range dashboard.Activity {
		sum += bucket.Applications
	}
	assert.Equal(t, 1, sum, "a just-created application lands in the newest bucket")
	assert.Equal(t, 1, dashboard.Activity[5].Applications)

	require.Len(t, dashboard.History, 1)
	assert.Equal(t, "Backend Engineer", dashboard.History[0].JobTitle)
	assert.Equal(t, "Acme", dashboard.History[0].Company)
	assert.Equal(t, "rejected", string(dashboard.History[0].Status))
}

func TestWeeklyActivityBuckets(t *testing.T) {
	now := time.Date(2026, time.August, 29, 12, 0, 0, 0, time.UTC)

	appAt := func(daysAgo int) repository.ApplicationWithJob {
		var app repository.ApplicationWithJob
		app.AppliedDate = now.AddDate(0, 0, -daysAgo)
		return app
	}

	apps := []repository.ApplicationWithJob{
		appAt(0),  // week 6 (newest)
		appAt(6),  // week 6
		appAt(7),  // week 6: bucket starts are inclusive
		appAt(20), // week 4
		appAt(41), // week 1
		appAt(42), // week 1: exactly on the window's oldest edge
		appAt(50), // outside the window
	}

	activity := weeklyActivity(apps, now)
	require.Len(t, activity, 6)

	counts := make([]int, 6)
	for i, bucket := range activity {
		assert.Equal(t, fmt.Sprintf("Week %d", i+1), bucket.Week)
		counts[i] = bucket.Applications
	}
	assert.Equal(t, []int{2, 0, 0, 1, 0, 3}, counts)

	sum := 0
	for _, count := range counts {
		sum += count
	}
	assert.Equal(t, 6, sum, "buckets partition the trailing 42 days")
}

func TestMonthName(t *testing.T) {
	assert.Equal(t, "Jan", monthName(1))
	assert.Equal(t, "Dec", monthName(12))
	assert.Equal(t, "", monthName(0))
	assert.Equal(t, "", monthName(13))
}
