package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
	"github.com/Rohan11203/JobPortal-assignment/internal/service"
	"github.com/Rohan11203/JobPortal-assignment/internal/storage"
)

// maxResumeSize bounds resume uploads to 10 MiB.
const maxResumeSize = 10 << 20

type signupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
	Company  string `json:"company"`
}

func (h *Handler) signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     domain.Role(req.Role),
		Company:  req.Company,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	if err := h.issueToken(c, user); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, userToResponse(*user))
}

type signinRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *Handler) signin(c *gin.Context) {
	var req signinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.accounts.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.serviceError(c, err)
		return
	}

	if err := h.issueToken(c, user); err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) logout(c *gin.Context) {
	h.clearToken(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// currentUser re-reads the account from the store; this is the only place
// identity is re-validated after token issuance.
func (h *Handler) currentUser(c *gin.Context) {
	caller := callerIdentity(c)

	user, err := h.accounts.GetByID(c.Request.Context(), caller.UserID)
	if err != nil {
		h.serviceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userToResponse(*user))
}

func (h *Handler) uploadResume(c *gin.Context) {
	if h.storage == nil || h.bucket == "" {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "resume storage not configured"})
		return
	}

	caller := callerIdentity(c)
	if caller.Role != domain.RoleJobSeeker {
		c.JSON(http.StatusForbidden, gin.H{"error": service.ErrJobSeekerOnly.Error()})
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume file is required"})
		return
	}
	if file.Size > maxResumeSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "resume exceeds the 10MB limit"})
		return
	}

	src, err := file.Open()
	if err != nil {
		h.serviceError(c, err)
		return
	}
	defer src.Close()

	key, err := h.storage.UploadResume(c.Request.Context(), storage.UploadInput{
		Bucket:      h.bucket,
		KeyPrefix:   h.prefix,
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Body:        src,
		Size:        file.Size,
	})
	if err != nil {
		h.serviceError(c, err)
		return
	}

	// A re-upload passes the previous key in `replaces` so the stale object is
	// removed once the new one is stored. Only keys under this deployment's
	// prefix are deletable; failures are logged, the upload already succeeded.
	if old := c.PostForm("replaces"); old != "" && old != key && strings.HasPrefix(old, h.prefix+"/") {
		if err := h.storage.DeleteObject(c.Request.Context(), h.bucket, old); err != nil {
			h.logger.WithError(err).WithField("key", old).Warn("delete replaced resume")
		}
	}

	c.JSON(http.StatusCreated, gin.H{"key": key})
}
