package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"review-service/internal/models"
)

// AddMedia handles POST /groups/:group_id/media.
func (h *GroupHandler) AddMedia(c *gin.Context) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return
	}
	var in models.MediaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	media, err := h.content.AddMedia(c.Request.Context(), groupID, userID, in)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	h.broadcast(c, models.GroupEvent{Type: models.EventMediaAdded, GroupID: groupID, ActorID: userID, Media: &media})
	h.emitAudit(c, "INFO", "Group media added")
	c.JSON(http.StatusOK, media)
}

// SyncMedia handles POST /groups/:group_id/sync.
func (h *GroupHandler) SyncMedia(c *gin.Context) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return
	}
	var req struct {
		MediaIDs []int `json:"media_ids" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	synced, err := h.content.SyncPersonalMedia(c.Request.Context(), groupID, userID, req.MediaIDs)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	if len(synced) > 0 {
		h.broadcast(c, models.GroupEvent{Type: models.EventMediaAdded, GroupID: groupID, ActorID: userID, Synced: synced})
	}
	h.emitAudit(c, "INFO", "Personal media synced to group")
	c.JSON(http.StatusOK, synced)
}

// ListMedia handles GET /groups/:group_id/media.
func (h *GroupHandler) ListMedia(c *gin.Context) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return
	}
	media, err := h.content.ListMedia(c.Request.Context(), groupID, c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

// GetMedia handles GET /groups/:group_id/media/:media_id.
func (h *GroupHandler) GetMedia(c *gin.Context) {
	groupID, mediaID, ok := parseGroupMediaIDs(c)
	if !ok {
		return
	}
	media, err := h.content.GetMedia(c.Request.Context(), groupID, mediaID, c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

// DeleteMedia handles DELETE /groups/:group_id/media/:media_id.
func (h *GroupHandler) DeleteMedia(c *gin.Context) {
	groupID, mediaID, ok := parseGroupMediaIDs(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if _, err := h.content.DeleteGroupMedia(c.Request.Context(), groupID, mediaID, userID); err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	h.broadcast(c, models.GroupEvent{Type: models.EventMediaDeleted, GroupID: groupID, ActorID: userID, MediaID: mediaID})
	h.emitAudit(c, "INFO", "Group media deleted")
	c.JSON(http.StatusOK, message("Media deleted"))
}

// AddReview handles POST /groups/:group_id/media/:media_id/review.
func (h *GroupHandler) AddReview(c *gin.Context) {
	groupID, mediaID, ok := parseGroupMediaIDs(c)
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	review, err := h.content.AddReview(c.Request.Context(), groupID, mediaID, userID, req.Text, *req.Rating)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	h.broadcast(c, models.GroupEvent{Type: models.EventReviewAdded, GroupID: groupID, ActorID: userID, Review: &review})
	h.emitAudit(c, "INFO", "Group review created")
	c.JSON(http.StatusOK, review)
}

// ListReviews handles GET /groups/:group_id/media/:media_id/reviews.
func (h *GroupHandler) ListReviews(c *gin.Context) {
	groupID, mediaID, ok := parseGroupMediaIDs(c)
	if !ok {
		return
	}
	reviews, err := h.content.ListReviews(c.Request.Context(), groupID, mediaID, c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// UpdateReview handles PUT /groups/:group_id/reviews/:review_id.
func (h *GroupHandler) UpdateReview(c *gin.Context) {
	groupID, reviewID, ok := parseGroupReviewIDs(c)
	if !ok {
		return
	}
	var patch models.ReviewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	review, err := h.content.UpdateReview(c.Request.Context(), groupID, reviewID, userID, patch)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	h.broadcast(c, models.GroupEvent{Type: models.EventReviewUpdated, GroupID: groupID, ActorID: userID, Review: &review})
	h.emitAudit(c, "INFO", "Group review updated")
	c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /groups/:group_id/reviews/:review_id.
func (h *GroupHandler) DeleteReview(c *gin.Context) {
	groupID, reviewID, ok := parseGroupReviewIDs(c)
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	deleted, err := h.content.DeleteReview(c.Request.Context(), groupID, reviewID, userID)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	if !deleted {
		h.emitAudit(c, "ERROR", "review not found")
		c.JSON(http.StatusNotFound, gin.H{"error": "review not found"})
		return
	}

	h.broadcast(c, models.GroupEvent{Type: models.EventReviewDeleted, GroupID: groupID, ActorID: userID, ReviewID: reviewID})
	h.emitAudit(c, "INFO", "Group review deleted")
	c.JSON(http.StatusOK, message("Review deleted"))
}

// CreateDiscussion handles POST /groups/:group_id/media/:media_id/discussions.
func (h *GroupHandler) CreateDiscussion(c *gin.Context) {
	groupID, mediaID, ok := parseGroupMediaIDs(c)
	if !ok {
		return
	}
	var req struct {
		Title   string `json:"title" binding:"required"`
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	d, err := h.content.CreateDiscussion(c.Request.Context(), groupID, mediaID, userID, req.Title, req.Content)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	h.broadcast(c, models.GroupEvent{Type: models.EventDiscussionCreated, GroupID: groupID, ActorID: userID, Discussion: &d})
	h.emitAudit(c, "INFO", "Discussion created")
	c.JSON(http.StatusOK, d)
}

// ListDiscussions handles GET /groups/:group_id/media/:media_id/discussions.
func (h *GroupHandler) ListDiscussions(c *gin.Context) {
	groupID, mediaID, ok := parseGroupMediaIDs(c)
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

	ds, err := h.content.ListDiscussions(c.Request.Context(), groupID, mediaID, c.GetInt("userID"), offset, limit)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, ds)
}

func parseGroupMediaIDs(c *gin.Context) (int, int, bool) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return 0, 0, false
	}
	mediaID, ok := paramID(c, "media_id", "media")
	if !ok {
		return 0, 0, false
	}
	return groupID, mediaID, true
}

func parseGroupReviewIDs(c *gin.Context) (int, int, bool) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok := paramID(c, "review_id", "review")
	if !ok {
		return 0, 0, false
	}
	return groupID, reviewID, true
}
