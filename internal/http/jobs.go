package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
	"github.com/Rohan11203/JobPortal-assignment/internal/service"
)

// resumeURLTTL bounds how long a presigned resume link stays valid.
const resumeURLTTL = 15 * time.Minute

type addJobRequest struct {
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Salary       string   `json:"salary"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	Category     string   `json:"category"`
}

func (h *Handler) addJob(c *gin.Context) {
	var req addJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	job, err := h.jobs.AddJob(c.Request.Context(), callerIdentity(c), service.JobInput{
		Title:        req.Title,
		Company:      req.Company,
		Location:     req.Location,
		Type:         req.Type,
		Salary:       req.Salary,
		Description:  req.Description,
		Requirements: req.Requirements,
		Category:     req.Category,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, jobToResponse(*job))
}

func (h *Handler) listJobs(c *gin.Context) {
	jobs, err := h.jobs.ListJobs(c.Request.Context(), domain.JobFilter{
		Category: c.Query("category"),
		Query:    c.Query("q"),
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := make([]JobResponse, len(jobs))
	for i := range jobs {
		resp[i] = jobToResponse(jobs[i])
	}
	c.JSON(http.StatusOK, resp)
}

func (h *Handler) getJob(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid job id")
	if !ok {
		return
	}

	job, err := h.jobs.GetJob(c.Request.Context(), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobToResponse(*job))
}

type applyRequest struct {
	CoverLetter string `json:"cover_letter"`
	Resume      string `json:"resume"`
}

func (h *Handler) applyToJob(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid job id")
	if !ok {
		return
	}

	// Body is optional; an empty apply is still an application. EOF here means
	// no body at all, which also covers chunked requests with no length header.
	var req applyRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.jobs.Apply(c.Request.Context(), callerIdentity(c), id, service.ApplyInput{
		CoverLetter: req.CoverLetter,
		ResumeKey:   req.Resume,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, applicationToResponse(*app))
}

type reviewRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h *Handler) reviewApplication(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid application id")
	if !ok {
		return
	}

	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := h.jobs.ReviewApplication(c.Request.Context(), callerIdentity(c), id, domain.ApplicationStatus(req.Status))
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, applicationToResponse(*app))
}

func (h *Handler) applicationResume(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "resume storage not configured"})
		return
	}

	id, ok := pathID(c, "id", "invalid application id")
	if !ok {
		return
	}

	app, err := h.jobs.GetApplication(c.Request.Context(), callerIdentity(c), id)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	if app.ResumeKey == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no resume attached"})
		return
	}

	url, err := h.storage.GetObjectURL(c.Request.Context(), h.bucket, app.ResumeKey, resumeURLTTL)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}

type monthlyPointResponse struct {
	Month string `json:"month"`
	Jobs  int    `json:"jobs"`
}

type categoryPointResponse struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

type recentApplicationResponse struct {
	ID          int64  `json:"id"`
	JobTitle    string `json:"jobTitle"`
	Applicant   string `json:"applicant"`
	AppliedDate string `json:"appliedDate"`
	Status      string `json:"status"`
}

type employerDashboardResponse struct {
	ActiveJobsCount    int                         `json:"activeJobsCount"`
	TotalApplications  int                         `json:"totalApplications"`
	PendingCount       int                         `json:"pendingCount"`
	AcceptedCount      int                         `json:"acceptedCount"`
	MonthlyData        []monthlyPointResponse      `json:"monthlyData"`
	CategoryData       []categoryPointResponse     `json:"categoryData"`
	RecentApplications []recentApplicationResponse `json:"recentApplications"`
}

func (h *Handler) employerDashboard(c *gin.Context) {
	dashboard, err := h.jobs.EmployerDashboard(c.Request.Context(), callerIdentity(c))
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := employerDashboardResponse{
		ActiveJobsCount:    dashboard.ActiveJobsCount,
		TotalApplications:  dashboard.TotalApplications,
		PendingCount:       dashboard.PendingCount,
		AcceptedCount:      dashboard.AcceptedCount,
		MonthlyData:        make([]monthlyPointResponse, len(dashboard.MonthlyData)),
		CategoryData:       make([]categoryPointResponse, len(dashboard.CategoryData)),
		RecentApplications: make([]recentApplicationResponse, len(dashboard.RecentApplications)),
	}
	for i, point := range dashboard.MonthlyData {
		resp.MonthlyData[i] = monthlyPointResponse{Month: point.Month, Jobs: point.Jobs}
	}
	for i, point := range dashboard.CategoryData {
		resp.CategoryData[i] = categoryPointResponse{Name: point.Name, Value: point.Value}
	}
	for i, app := range dashboard.RecentApplications {
		resp.RecentApplications[i] = recentApplicationResponse{
			ID:          app.ID,
			JobTitle:    app.JobTitle,
			Applicant:   app.Applicant,
			AppliedDate: app.AppliedDate,
			Status:      string(app.Status),
		}
	}
	c.JSON(http.StatusOK, resp)
}

type weeklyActivityResponse struct {
	Week         string `json:"week"`
	Applications int    `json:"applications"`
}

type historyItemResponse struct {
	ID          int64  `json:"id"`
	JobTitle    string `json:"jobTitle"`
	Company     string `json:"company"`
	AppliedDate string `json:"appliedDate"`
	Status      string `json:"status"`
}

type jobSeekerDashboardResponse struct {
	TotalApplications int                      `json:"totalApplications"`
	PendingCount      int                      `json:"pendingCount"`
	AcceptedCount     int                      `json:"acceptedCount"`
	RejectedCount     int                      `json:"rejectedCount"`
	Activity          []weeklyActivityResponse `json:"activity"`
	History           []historyItemResponse    `json:"history"`
}

func (h *Handler) jobSeekerDashboard(c *gin.Context) {
	dashboard, err := h.jobs.JobSeekerDashboard(c.Request.Context(), callerIdentity(c))
	if err != nil {
		h.serviceError(c, err)
		return
	}

	resp := jobSeekerDashboardResponse{
		TotalApplications: dashboard.TotalApplications,
		PendingCount:      dashboard.PendingCount,
		AcceptedCount:     dashboard.AcceptedCount,
		RejectedCount:     dashboard.RejectedCount,
		Activity:          make([]weeklyActivityResponse, len(dashboard.Activity)),
		History:           make([]historyItemResponse, len(dashboard.History)),
	}
	for i, bucket := range dashboard.Activity {
		resp.Activity[i] = weeklyActivityResponse{Week: bucket.Week, Applications: bucket.Applications}
	}
	for i, item := range dashboard.History {
		resp.History[i] = historyItemResponse{
			ID:          item.ID,
			JobTitle:    item.JobTitle,
			Company:     item.Company,
			AppliedDate: item.AppliedDate,
			Status:      string(item.Status),
		}
	}
	c.JSON(http.StatusOK, resp)
}

// pathID parses a numeric path parameter, rejecting malformed identifiers
// with a 400 before any lookup happens.
func pathID(c *gin.Context, name, message string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": message})
		return 0, false
	}
	return id, true
}
