package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"review-service/internal/models"
	"review-service/internal/services"
	"review-service/internal/telemetry"
	"review-service/internal/ws"
)

// GroupHandler manages group, membership and group content endpoints.
type GroupHandler struct {
	auditor
	groups  *services.GroupService
	content *services.ContentService
	hub     *ws.Hub
}

// NewGroupHandler constructs a GroupHandler.
func NewGroupHandler(groups *services.GroupService, content *services.ContentService, hub *ws.Hub, audit *telemetry.AuditEmitter) *GroupHandler {
	return &GroupHandler{
		auditor: auditor{audit: audit},
		groups:  groups,
		content: content,
		hub:     hub,
	}
}

// CreateGroup handles POST /groups.
func (h *GroupHandler) CreateGroup(c *gin.Context) {
	userID := c.GetInt("userID")

	var req struct {
		Name        string `json:"name" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	group, err := h.groups.CreateGroup(c.Request.Context(), userID, req.Name, req.Description)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	h.emitAudit(c, "INFO", "Group created")
	c.JSON(http.StatusOK, group)
}

// ListGroups returns groups the caller belongs to.
func (h *GroupHandler) ListGroups(c *gin.Context) {
	groups, err := h.groups.ListGroupsForUser(c.Request.Context(), c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// GetGroup handles GET /groups/:group_id.
func (h *GroupHandler) GetGroup(c *gin.Context) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return
	}
	group, err := h.groups.GetGroup(c.Request.Context(), groupID, c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, group)
}

// ListMembers handles GET /groups/:group_id/members.
func (h *GroupHandler) ListMembers(c *gin.Context) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return
	}
	members, err := h.groups.ListMembers(c.Request.Context(), groupID, c.GetInt("userID"))
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}
	c.JSON(http.StatusOK, members)
}

// InviteMember handles POST /groups/:group_id/invite.
func (h *GroupHandler) InviteMember(c *gin.Context) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return
	}
	var req struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.emitAudit(c, "ERROR", "invalid request payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := c.GetInt("userID")
	group, invited, err := h.groups.InviteMember(c.Request.Context(), groupID, userID, req.Username)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	h.broadcast(c, models.GroupEvent{Type: models.EventMemberAdded, GroupID: groupID, ActorID: userID, UserID: invited.ID})
	h.emitAudit(c, "INFO", "Member invited")
	c.JSON(http.StatusOK, group)
}

// RemoveMember handles DELETE /groups/:group_id/members/:user_id.
func (h *GroupHandler) RemoveMember(c *gin.Context) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return
	}
	targetID, ok := paramID(c, "user_id", "user")
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	group, err := h.groups.RemoveMember(c.Request.Context(), groupID, userID, targetID)
	if err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	if h.hub != nil {
		h.hub.DropGroupUser(groupID, targetID)
	}
	h.broadcast(c, models.GroupEvent{Type: models.EventMemberRemoved, GroupID: groupID, ActorID: userID, UserID: targetID})
	h.emitAudit(c, "INFO", "Member removed")
	c.JSON(http.StatusOK, group)
}

// DeleteGroup handles DELETE /groups/:group_id.
func (h *GroupHandler) DeleteGroup(c *gin.Context) {
	groupID, ok := paramID(c, "group_id", "group")
	if !ok {
		return
	}

	userID := c.GetInt("userID")
	if _, err := h.groups.DeleteGroup(c.Request.Context(), groupID, userID); err != nil {
		fail(c, h.emitAudit, err)
		return
	}

	h.broadcast(c, models.GroupEvent{Type: models.EventGroupDeleted, GroupID: groupID, ActorID: userID})
	if h.hub != nil {
		h.hub.CloseGroup(groupID)
	}
	h.emitAudit(c, "INFO", "Group deleted")
	c.JSON(http.StatusOK, message("Group deleted"))
}

func (h *GroupHandler) broadcast(c *gin.Context, event models.GroupEvent) {
	if h.hub == nil {
		return
	}
	h.hub.BroadcastGroupEvent(c.Request.Context(), event)
}
