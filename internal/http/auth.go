package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/Rohan11203/JobPortal-assignment/internal/domain"
)

// authCookieName is the HTTP-only cookie carrying the signed token.
const authCookieName = "token"

// identityKey is the gin context key the middleware stores the caller under.
const identityKey = "identity"

type authClaims struct {
	Email   string `json:"email"`
	Role    string `json:"role"`
	Company string `json:"company,omitempty"`
	jwt.RegisteredClaims
}

// authRequired extracts and verifies the token cookie and attaches the caller
// identity to the request. The identity comes from the signed claims, not a
// store lookup, so account changes only show up after re-authentication.
func (h *Handler) authRequired(c *gin.Context) {
	tokenString, err := c.Cookie(authCookieName)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	claims := &authClaims{}
	if _, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return h.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})); err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
		return
	}

	userID, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "invalid or expired token"})
		return
	}

	c.Set(identityKey, domain.Identity{
		UserID:  userID,
		Email:   claims.Email,
		Role:    domain.Role(claims.Role),
		Company: claims.Company,
	})
	c.Next()
}

func callerIdentity(c *gin.Context) domain.Identity {
	identity, _ := c.Get(identityKey)
	caller, _ := identity.(domain.Identity)
	return caller
}

// issueToken signs a token for the user and sets it as an HTTP-only cookie.
func (h *Handler) issueToken(c *gin.Context, user *domain.User) error {
	now := time.Now()
	expires := now.Add(h.tokenTTL)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, authClaims{
		Email:   user.Email,
		Role:    string(user.Role),
		Company: user.Company,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(user.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expires),
		},
	})
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		return err
	}

	http.SetCookie(c.Writer, &http.Cookie{
		Name:     authCookieName,
		Value:    signed,
		Expires:  expires,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// clearToken expires the cookie. Tokens are not tracked server side, so a
// previously issued token stays valid until its signed expiry.
func (h *Handler) clearToken(c *gin.Context) {
	http.SetCookie(c.Writer, &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		Path:     "/",
		HttpOnly: true,
	})
}
