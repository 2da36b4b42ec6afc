package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"review-service/internal/telemetry"
)

var auditLevels = map[string]bool{"INFO": true, "WARN": true, "ERROR": true}

// RegisterDebugRoutes wires debug-only endpoints.
//
// GET /debug/audit-test sends one audit record through the configured
// publisher. Optional query parameters: level (INFO, WARN or ERROR) and
// group_id, which is named in the record text.
func RegisterDebugRoutes(router gin.IRouter, emitter *telemetry.AuditEmitter, enabled bool) {
	if !enabled {
		return
	}

	router.GET("/debug/audit-test", func(c *gin.Context) {
		if emitter == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "audit emitter not configured"})
			return
		}
		level := strings.ToUpper(c.DefaultQuery("level", "INFO"))
		if !auditLevels[level] {
			c.JSON(http.StatusBadRequest, gin.H{"error": "level must be INFO, WARN or ERROR"})
			return
		}
		groupID, ok := queryInt(c, "group_id", 0)
		if !ok {
			return
		}

		text := "review audit pipeline check"
		if groupID > 0 {
			text = fmt.Sprintf("review audit pipeline check for group %d", groupID)
		}
		emitter.Emit(c.Request.Context(), level, text, requestIDFromContext(c), userIDFromContext(c))
		c.JSON(http.StatusOK, gin.H{"status": "ok", "level": level, "text": text})
	})
}
