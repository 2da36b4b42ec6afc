package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"review-service/internal/services"
)

// statusFor maps service error kinds onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	return err.Error()
}

// fail writes the error response and an audit record for it.
func fail(c *gin.Context, audit auditFunc, err error) {
	status := statusFor(err)
	msg := errorMessage(err, status)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	audit(c, "ERROR", msg)
	c.JSON(status, gin.H{"error": msg})
}

type auditFunc func(c *gin.Context, level, text string)

// paramID parses a positive integer path parameter. On failure it writes a
// 400 response naming label.
func paramID(c *gin.Context, name, label string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + label + " id"})
		return 0, false
	}
	return id, true
}

// queryInt reads an optional integer query parameter.
func queryInt(c *gin.Context, name string, fallback int) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid " + name})
		return 0, false
	}
	return v, true
}

func message(text string) gin.H {
	return gin.H{"message": text}
}
