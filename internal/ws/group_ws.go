package ws

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"review-service/internal/observability"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// TokenValidator resolves a bearer token to a user id.
type TokenValidator interface {
	ValidateToken(token string) (int, error)
}

// MembershipChecker reports whether a user belongs to a group.
type MembershipChecker interface {
	IsMember(ctx context.Context, groupID, userID int) (bool, error)
}

// GroupWebSocketHandler handles group websocket connections.
type GroupWebSocketHandler struct {
	hub     *Hub
	members MembershipChecker
	tokens  TokenValidator
	logger  *zap.Logger
}

// NewGroupWebSocketHandler constructs a GroupWebSocketHandler.
func NewGroupWebSocketHandler(hub *Hub, members MembershipChecker, tokens TokenValidator, logger *zap.Logger) *GroupWebSocketHandler {
	return &GroupWebSocketHandler{hub: hub, members: members, tokens: tokens, logger: logger}
}

// Handle upgrades and registers a websocket connection for group events.
func (h *GroupWebSocketHandler) Handle(c *gin.Context) {
	groupID, err := strconv.Atoi(c.Param("group_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	token := c.GetHeader("Authorization")
	if token == "" {
		token = c.Query("token")
		if token != "" {
			token = "Bearer " + token
		}
	}

	userID, err := h.validateToken(token)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	member, err := h.members.IsMember(c.Request.Context(), groupID, userID)
	if err != nil || !member {
		c.JSON(http.StatusForbidden, gin.H{"error": "not authorized for group"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Int("group_id", groupID), zap.Error(err))
		return
	}

	var traceID string
	if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
		traceID = sc.TraceID().String()
	}
	info := NewConnInfo(userID, observability.IPFromRequest(c.Request), observability.RequestIDFromRequest(c.Request), traceID)
	h.hub.AddGroupClient(groupID, conn, info)
	observability.IncWSEvent("group", "connect")

	// a removal that ran between the first check and registration has
	// already swept the room without seeing this connection
	if member, err := h.members.IsMember(c.Request.Context(), groupID, userID); err != nil || !member {
		h.logger.Info("membership revoked during websocket connect", zap.Int("group_id", groupID), zap.Int("user_id", userID))
		h.hub.dropConn(groupID, info.ConnID, "removed from group")
		return
	}

	go func() {
		defer func() {
			h.hub.RemoveGroupClient(groupID, conn)
			conn.Close()
			observability.IncWSEvent("group", "disconnect")
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}

func (h *GroupWebSocketHandler) validateToken(header string) (int, error) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return 0, errInvalidToken
	}
	return h.tokens.ValidateToken(parts[1])
}
