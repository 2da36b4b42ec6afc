package ws

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"review-service/internal/models"
	"review-service/internal/observability"
)

const writeWait = 5 * time.Second

type client struct {
	conn *websocket.Conn
	info ConnInfo
	// gorilla connections allow one concurrent writer
	writeMu sync.Mutex
}

func (cl *client) write(messageType int, payload []byte) error {
	cl.writeMu.Lock()
	defer cl.writeMu.Unlock()
	if err := cl.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return cl.conn.WriteMessage(messageType, payload)
}

func (cl *client) close(reason string) {
	msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, reason)
	_ = cl.write(websocket.CloseMessage, msg)
	_ = cl.conn.Close()
}

// Hub maintains one websocket room per group.
type Hub struct {
	groupRooms map[int]map[*websocket.Conn]*client
	mu         sync.RWMutex
	logger     *zap.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		groupRooms: make(map[int]map[*websocket.Conn]*client),
		logger:     logger,
	}
}

// AddGroupClient registers a websocket connection to a group room.
func (h *Hub) AddGroupClient(groupID int, conn *websocket.Conn, info ConnInfo) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.groupRooms[groupID]; !ok {
		h.groupRooms[groupID] = make(map[*websocket.Conn]*client)
	}
	h.groupRooms[groupID][conn] = &client{conn: conn, info: info}
	observability.IncWSActive("group")
}

// RemoveGroupClient removes a group websocket connection. Removing an
// unknown connection is a no-op.
func (h *Hub) RemoveGroupClient(groupID int, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	conns, ok := h.groupRooms[groupID]
	if !ok {
		return
	}
	if _, ok := conns[conn]; !ok {
		return
	}
	delete(conns, conn)
	observability.DecWSActive("group")
	if len(conns) == 0 {
		delete(h.groupRooms, groupID)
	}
}

// RoomSize returns the number of connections open on a group.
func (h *Hub) RoomSize(groupID int) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.groupRooms[groupID])
}

// BroadcastGroupEvent sends event to every client of the group and
// publishes it to the broker under "groups.<type>".
func (h *Hub) BroadcastGroupEvent(ctx context.Context, event models.GroupEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("marshal group event", zap.String("type", event.Type), zap.Error(err))
		return
	}

	for _, cl := range h.snapshot(event.GroupID, nil) {
		if err := cl.write(websocket.TextMessage, payload); err != nil {
			h.logger.Warn("websocket write error", zap.Int("group_id", event.GroupID), zap.String("conn_id", cl.info.ConnID), zap.Error(err))
			cl.conn.Close()
			h.RemoveGroupClient(event.GroupID, cl.conn)
			h.publishWSError(event.GroupID, cl.info, err)
		}
	}
	observability.IncWSEvent("group", event.Type)

	if err := observability.PublishEvent(ctx, "groups."+event.Type, "group_events", event.Type, event); err != nil {
		h.logger.Warn("publish group event", zap.String("type", event.Type), zap.Error(err))
	}
}

// DropGroupUser closes every connection userID holds on the group.
func (h *Hub) DropGroupUser(groupID, userID int) {
	h.drop(groupID, "removed from group", func(info ConnInfo) bool { return info.UserID == userID })
}

func (h *Hub) dropConn(groupID int, connID, reason string) {
	h.drop(groupID, reason, func(info ConnInfo) bool { return info.ConnID == connID })
}

func (h *Hub) drop(groupID int, reason string, keep func(ConnInfo) bool) {
	for _, cl := range h.snapshot(groupID, keep) {
		cl.close(reason)
		h.RemoveGroupClient(groupID, cl.conn)
	}
}

// CloseGroup closes every connection on the group and drops its room.
func (h *Hub) CloseGroup(groupID int) {
	for _, cl := range h.snapshot(groupID, nil) {
		cl.close("group deleted")
		h.RemoveGroupClient(groupID, cl.conn)
	}
}

func (h *Hub) snapshot(groupID int, keep func(ConnInfo) bool) []*client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	clients := make([]*client, 0, len(h.groupRooms[groupID]))
	for _, cl := range h.groupRooms[groupID] {
		if keep == nil || keep(cl.info) {
			clients = append(clients, cl)
		}
	}
	return clients
}

func (h *Hub) publishWSError(groupID int, info ConnInfo, err error) {
	payload := map[string]any{
		"ws": map[string]any{
			"kind":        "group",
			"resource_id": groupID,
			"event":       "ws_error",
			"conn_id":     info.ConnID,
			"duration_ms": time.Since(info.ConnectedAt).Milliseconds(),
			"reason":      err.Error(),
		},
		"identity": map[string]any{
			"user_id": info.UserID,
			"ip":      info.IP,
		},
	}

	ctx := observability.WithRequestID(context.Background(), info.RequestID)
	_ = observability.PublishEvent(ctx, "ws_events.groups", "ws_events", "ws_error", payload)
	observability.IncWSEvent("group", "ws_error")
}
