package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"transit_ops/internal/apperrors"
	"transit_ops/internal/middleware"
	"transit_ops/internal/policy"
)

// respondError maps err to its status and writes {message}. Server errors
// keep the raw message and are logged.
func respondError(c *gin.Context, err error) {
	appErr := apperrors.FromError(err)
	status := appErr.Status()
	entry := logrus.WithFields(logrus.Fields{
		"method":     c.Request.Method,
		"path":       c.FullPath(),
		"status":     status,
		"request_id": middleware.RequestIDFrom(c),
	})
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.Debug(appErr.Message)
	}
	c.JSON(status, gin.H{"message": appErr.Message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"message": message})
}

// bindJSON decodes and validates the body, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func parseID(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		badRequest(c, "invalid "+name+": "+raw)
		return 0, false
	}
	return uint(id), true
}

// callerOf returns the authenticated caller. Routes that reach a handler
// without Protect answer 401.
func callerOf(c *gin.Context) (policy.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "not authorized, no token"})
	}
	return caller, ok
}

// withMessage merges a message into the JSON object of doc.
func withMessage(doc any, message string) any {
	raw, err := json.Marshal(doc)
	if err != nil {
		return gin.H{"message": message, "data": doc}
	}
	out := map[string]any{}
	if err := json.Unmarshal(raw, &out); err != nil {
		return gin.H{"message": message, "data": doc}
	}
	out["message"] = message
	return out
}
