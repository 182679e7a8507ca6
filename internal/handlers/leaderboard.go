package handlers

import (
	"log/slog"
	"net/http"

	"github.com/RubeldiRubelda/merryweihnachten/internal/services"
	"github.com/RubeldiRubelda/merryweihnachten/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

type LeaderboardHandler struct {
	participantService *services.ParticipantService
	hub                *ws.Hub
}

func NewLeaderboardHandler(participantService *services.ParticipantService, hub *ws.Hub) *LeaderboardHandler {
	return &LeaderboardHandler{participantService: participantService, hub: hub}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// GetLeaderboard godoc
// @Summary      Public leaderboard
// @Description  All participants sorted by points descending; ties keep registration order.
// @Tags         leaderboard
// @Produce      json
// @Success      200 {array} services.LeaderboardEntry
// @Router       /api/leaderboard [get]
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	entries, err := h.participantService.Leaderboard()
	if err != nil {
		internalError(c, "leaderboard", err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// HandleWebSocket godoc
// @Summary      Live leaderboard feed
// @Description  Pushes a leaderboard_updated message whenever the standings change.
// @Tags         leaderboard
// @Router       /ws/leaderboard [get]
func (h *LeaderboardHandler) HandleWebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Warn("websocket upgrade error", "error", err)
		return
	}

	h.hub.AddConnection(conn)
	defer h.hub.RemoveConnection(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}

// publishLeaderboard pushes the current standings to every connected viewer.
// Called after any mutation that can change leaderboard output.
func publishLeaderboard(svc *services.ParticipantService, hub *ws.Hub) {
	entries, err := svc.Leaderboard()
	if err != nil {
		slog.Error("leaderboard broadcast skipped", "error", err)
		return
	}
	hub.Broadcast(ws.WSMessage{
		Type: "leaderboard_updated",
		Data: entries,
	})
}
