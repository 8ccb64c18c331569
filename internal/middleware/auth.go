package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/policy"
)

const callerKey = "caller"

// Authenticator resolves a raw bearer token to the live caller.
type Authenticator interface {
	Authenticate(ctx context.Context, raw string) (*policy.Caller, error)
}

// Protect ensures a valid bearer token for a user that still exists.
func Protect(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		raw := ""
		if strings.HasPrefix(header, "Bearer ") {
			raw = strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		}

		caller, err := auth.Authenticate(c.Request.Context(), raw)
		if err != nil {
			appErr := apperrors.FromError(err)
			status := appErr.Status()
			if status == http.StatusInternalServerError {
				logrus.WithError(err).Error("authentication lookup failed")
			} else {
				status = http.StatusUnauthorized
			}
			c.AbortWithStatusJSON(status, gin.H{"message": appErr.Message})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom returns the caller stored by Protect.
func CallerFrom(c *gin.Context) (policy.Caller, bool) {
	v, ok := c.Get(callerKey)
	if !ok {
		return policy.Caller{}, false
	}
	caller, ok := v.(*policy.Caller)
	if !ok || caller == nil {
		return policy.Caller{}, false
	}
	return *caller, true
}

// RequireRoles must run after Protect.
func RequireRoles(roles ...policy.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := CallerFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
			return
		}
		if !caller.Is(roles...) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "not authorized for this action"})
			return
		}
		c.Next()
	}
}
