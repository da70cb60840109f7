package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
	"github.com/Rohan11203/JobPortal-assignment/internal/service"
	"github.com/Rohan11203/JobPortal-assignment/internal/storage"
)

// Handler wires HTTP routes to domain services.
type Handler struct {
	accounts service.AccountService
	jobs     service.JobService
	storage  storage.Service
	bucket   string
	prefix   string

	jwtSecret []byte
	tokenTTL  time.Duration
	origins   []string
	logger    *logrus.Logger
}

// Options collects the handler's collaborators and settings.
type Options struct {
	Accounts  service.AccountService
	Jobs      service.JobService
	Storage   storage.Service
	Bucket    string
	KeyPrefix string

	JWTSecret      string
	TokenTTL       time.Duration
	AllowedOrigins []string
	Logger         *logrus.Logger
}

func NewHandler(opts Options) *Handler {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.New()
	}
	return &Handler{
		accounts:  opts.Accounts,
		jobs:      opts.Jobs,
		storage:   opts.Storage,
		bucket:    opts.Bucket,
		prefix:    opts.KeyPrefix,
		jwtSecret: []byte(opts.JWTSecret),
		tokenTTL:  opts.TokenTTL,
		origins:   opts.AllowedOrigins,
		logger:    logger,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.corsMiddleware())

	api := router.Group("/api/v1")

	users := api.Group("/users")
	{
		users.POST("/signup", h.signup)
		users.POST("/signin", h.signin)
		users.POST("/logout", h.authRequired, h.logout)
		users.GET("/", h.authRequired, h.currentUser)
		users.POST("/resume", h.authRequired, h.uploadResume)
	}

	job := api.Group("/job")
	{
		job.POST("/add", h.authRequired, h.addJob)
		job.GET("/", h.listJobs)
		job.GET("/employer/dashboard", h.authRequired, h.employerDashboard)
		job.GET("/jobseeker/dashboard", h.authRequired, h.jobSeekerDashboard)
		job.PUT("/applications/:id", h.authRequired, h.reviewApplication)
		job.GET("/applications/:id/resume", h.authRequired, h.applicationResume)
		job.GET("/:id", h.getJob)
		job.POST("/:id/apply", h.authRequired, h.applyToJob)
	}

	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
}

// corsMiddleware echoes the request origin when it is allowed. Cookie auth
// needs a concrete origin with credentials, not a wildcard.
func (h *Handler) corsMiddleware() gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(h.origins))
	for _, origin := range h.origins {
		allowed[origin] = struct{}{}
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if _, ok := allowed[origin]; ok {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Add("Vary", "Origin")
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// serviceError maps a service failure to an HTTP response. Anything outside
// the known taxonomy is logged and returned as a generic 500.
func (h *Handler) serviceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrAlreadyApplied),
		errors.Is(err, service.ErrAlreadyDecided),
		errors.Is(err, service.ErrNoCompany):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrEmployerOnly),
		errors.Is(err, service.ErrJobSeekerOnly),
		errors.Is(err, service.ErrNotJobOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}

type UserResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Company   string `json:"company,omitempty"`
	CreatedAt string `json:"created_at"`
}

func userToResponse(user domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Company:   user.Company,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
	}
}

type JobResponse struct {
	ID           int64    `json:"id"`
	Title        string   `json:"title"`
	Company      string   `json:"company"`
	OwnerID      int64    `json:"owner_id"`
	Location     string   `json:"location"`
	Type         string   `json:"type"`
	Salary       string   `json:"salary"`
	Description  string   `json:"description"`
	Requirements []string `json:"requirements"`
	PostedDate   string   `json:"posted_date"`
	Category     string   `json:"category"`
}

func jobToResponse(job domain.Job) JobResponse {
	requirements := job.Requirements
	if requirements == nil {
		requirements = []string{}
	}
	return JobResponse{
		ID:           job.ID,
		Title:        job.Title,
		Company:      job.Company,
		OwnerID:      job.OwnerID,
		Location:     job.Location,
		Type:         job.Type,
		Salary:       job.Salary,
		Description:  job.Description,
		Requirements: requirements,
		PostedDate:   job.PostedDate.Format(time.RFC3339),
		Category:     job.Category,
	}
}

type ApplicationResponse struct {
	ID          int64  `json:"id"`
	JobID       int64  `json:"job_id"`
	ApplicantID int64  `json:"applicant_id"`
	Status      string `json:"status"`
	AppliedDate string `json:"applied_date"`
	CoverLetter string `json:"cover_letter,omitempty"`
	Resume      string `json:"resume,omitempty"`
}

func applicationToResponse(app domain.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          app.ID,
		JobID:       app.JobID,
		ApplicantID: app.ApplicantID,
		Status:      string(app.Status),
		AppliedDate: app.AppliedDate.Format(time.RFC3339),
		CoverLetter: app.CoverLetter,
		Resume:      app.ResumeKey,
	}
}
