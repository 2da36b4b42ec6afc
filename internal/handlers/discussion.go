package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"review-service/internal/models"
	"review-service/internal/services"
	"review-service/internal/telemetry"
	"review-service/internal/ws"
)

// DiscussionHandler serves discussion threads and their comments.
type DiscussionHandler struct {
	auditor
	content *services.ContentService
	hub     *ws.Hub
}

// NewDiscussionHandler constructs a DiscussionHandler.
func NewDiscussionHandler(content *services.ContentService, hub *ws.Hub, audit *telemetry.AuditEmitter) *DiscussionHandler {
	return &DiscussionHandler{auditor: auditor{audit: audit}, content: content, hub: hub}
}

// GetDiscussion handles GET /discussions/:discussion_id.
func (h *DiscussionHandler) GetDiscussion(c *gin.Context) {
	discussionID, ok := paramID(c, "discussion_id", "discussion")
	if !ok {
		return
	}
	d, err := h.content.GetDiscussion(c.Request.Context(), discussionID, c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// ListComments handles GET /discussions/:discussion_id/comments.
func (h *DiscussionHandler) ListComments(c *gin.Context) {
	discussionID, ok := paramID(c, "discussion_id", "discussion")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 0)
	if !ok {
		return
	}

	comments, err := h.content.ListComments(c.Request.Context(), discussionID, c.GetInt("userID"), offset, limit)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, comments)
}

// AddComment handles POST /discussions/:discussion_id/comments.
func (h *DiscussionHandler) AddComment(c *gin.Context) {
	discussionID, ok := paramID(c, "discussion_id", "discussion")
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	comment, d, err := h.content.AddComment(c.Request.Context(), discussionID, userID, req.Content)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastGroupEvent(c.Request.Context(), models.GroupEvent{Type: models.EventCommentAdded, GroupID: d.GroupID, ActorID: userID, Comment: &comment})
	}
	h.emitAudit(c, "INFO", "Comment added")
	c.JSON(http.StatusOK, comment)
}

// DeleteDiscussion handles DELETE /discussions/:discussion_id.
func (h *DiscussionHandler) DeleteDiscussion(c *gin.Context) {
	discussionID, ok := paramID(c, "discussion_id", "discussion")
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	d, err := h.content.DeleteDiscussion(c.Request.Context(), discussionID, userID)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	if h.hub != nil {
		h.hub.BroadcastGroupEvent(c.Request.Context(), models.GroupEvent{Type: models.EventDiscussionDeleted, GroupID: d.GroupID, ActorID: userID, Discussion: &d})
	}
	h.emitAudit(c, "INFO", "Discussion deleted")
	c.JSON(http.StatusOK, message("Discussion deleted"))
}
