package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"review-service/internal/models"
	"review-service/internal/services"
	"review-service/internal/telemetry"
)

// CatalogHandler serves the caller's personal media catalog and reviews.
type CatalogHandler struct {
	auditor
	catalog *services.CatalogService
}

// NewCatalogHandler constructs a CatalogHandler.
func NewCatalogHandler(catalog *services.CatalogService, audit *telemetry.AuditEmitter) *CatalogHandler {
	return &CatalogHandler{auditor: auditor{audit: audit}, catalog: catalog}
}

// ListMedia handles GET /media.
func (h *CatalogHandler) ListMedia(c *gin.Context) {
	media, err := h.catalog.ListMedia(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

// AddMedia handles POST /media.
func (h *CatalogHandler) AddMedia(c *gin.Context) {
	var in models.MediaInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	media, err := h.catalog.AddMedia(c.Request.Context(), c.GetInt("userID"), in)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	h.emitAudit(c, "INFO", "Media added to catalog")
	c.JSON(http.StatusOK, media)
}

// GetMedia handles GET /media/:media_id.
func (h *CatalogHandler) GetMedia(c *gin.Context) {
	mediaID, ok := paramID(c, "media_id", "media")
	if !ok {
		return
	}
	media, err := h.catalog.GetMedia(c.Request.Context(), c.GetInt("userID"), mediaID)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, media)
}

// DeleteMedia handles DELETE /media/:media_id.
func (h *CatalogHandler) DeleteMedia(c *gin.Context) {
	mediaID, ok := paramID(c, "media_id", "media")
	if !ok {
		return
	}
	if err := h.catalog.DeleteMedia(c.Request.Context(), c.GetInt("userID"), mediaID); err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	h.emitAudit(c, "INFO", "Media removed from catalog")
	c.JSON(http.StatusOK, message("Media deleted"))
}

type reviewRequest struct {
	Text   string   `json:"text" binding:"required"`
	Rating *float64 `json:"rating" binding:"required,gte=0,lte=10"`
}

// AddReview handles POST /media/:media_id/reviews.
func (h *CatalogHandler) AddReview(c *gin.Context) {
	mediaID, ok := paramID(c, "media_id", "media")
	if !ok {
		return
	}
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.catalog.AddReview(c.Request.Context(), c.GetInt("userID"), mediaID, req.Text, *req.Rating)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	h.emitAudit(c, "INFO", "Review created")
	c.JSON(http.StatusOK, review)
}

// ListReviews handles GET /media/:media_id/reviews.
func (h *CatalogHandler) ListReviews(c *gin.Context) {
	mediaID, ok := paramID(c, "media_id", "media")
	if !ok {
		return
	}
	reviews, err := h.catalog.ListReviews(c.Request.Context(), c.GetInt("userID"), mediaID)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// ListMyReviews handles GET /reviews/me.
func (h *CatalogHandler) ListMyReviews(c *gin.Context) {
	reviews, err := h.catalog.ListUserReviews(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, reviews)
}

// UpdateReview handles PUT /reviews/:review_id.
func (h *CatalogHandler) UpdateReview(c *gin.Context) {
	reviewID, ok := paramID(c, "review_id", "review")
	if !ok {
		return
	}
	var patch models.ReviewPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	review, err := h.catalog.UpdateReview(c.Request.Context(), c.GetInt("userID"), reviewID, patch)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	h.emitAudit(c, "INFO", "Review updated")
	c.JSON(http.StatusOK, review)
}

// DeleteReview handles DELETE /reviews/:review_id.
func (h *CatalogHandler) DeleteReview(c *gin.Context) {
	reviewID, ok := paramID(c, "review_id", "review")
	if !ok {
		return
	}
	if err := h.catalog.DeleteReview(c.Request.Context(), c.GetInt("userID"), reviewID); err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	h.emitAudit(c, "INFO", "Review deleted")
	c.JSON(http.StatusOK, message("Review deleted"))
}
