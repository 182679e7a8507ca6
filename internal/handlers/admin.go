package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/RubeldiRubelda/merryweihnachten/internal/services"
	"github.com/RubeldiRubelda/merryweihnachten/internal/ws"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin panel: roster management, group assignment,
// points and tasks. Every route here sits behind the AdminAuth middleware.
type AdminHandler struct {
	participantService *services.ParticipantService
	hub                *ws.Hub
}

func NewAdminHandler(participantService *services.ParticipantService, hub *ws.Hub) *AdminHandler {
	return &AdminHandler{participantService: participantService, hub: hub}
}

type AddUserRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required" example:"0790000000"`
	Name        string `json:"name" binding:"required" example:"Alice"`
}

type AssignGroupRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required" example:"0790000000"`
	Group       string `json:"group" example:"Team Rot"`
}

type AssignPointsRequest struct {
	PhoneNumber string      `json:"phoneNumber" binding:"required" example:"0790000000"`
	Points      interface{} `json:"points" swaggertype:"integer" example:"50"`
	Game        string      `json:"game" example:"Schätzspiel"`
}

type SetPointsRequest struct {
	PhoneNumber string      `json:"phoneNumber" binding:"required" example:"0790000000"`
	Points      interface{} `json:"points" swaggertype:"integer" example:"10"`
}

type AssignTaskRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required" example:"0790000000"`
	Task        string `json:"task" example:"Tisch decken"`
}

// ListUsers godoc
// @Summary      List all participants
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Participant
// @Failure      403 {object} ErrorResponse
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	participants, err := h.participantService.List()
	if err != nil {
		internalError(c, "list users", err)
		return
	}
	c.JSON(http.StatusOK, participants)
}

// ListGroups godoc
// @Summary      List assigned group labels
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} string
// @Failure      403 {object} ErrorResponse
// @Router       /api/admin/groups [get]
func (h *AdminHandler) ListGroups(c *gin.Context) {
	groups, err := h.participantService.ListGroups()
	if err != nil {
		internalError(c, "list groups", err)
		return
	}
	c.JSON(http.StatusOK, groups)
}

// AddUser godoc
// @Summary      Add a participant
// @Description  Fails when the phone number is already registered.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AddUserRequest true "Participant data"
// @Success      200 {object} AckResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/add-user [post]
func (h *AdminHandler) AddUser(c *gin.Context) {
	var req AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone number and name required"})
		return
	}

	if _, err := h.participantService.Create(req.PhoneNumber, req.Name); err != nil {
		if errors.Is(err, services.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "participant already exists"})
			return
		}
		internalError(c, "add user", err)
		return
	}

	publishLeaderboard(h.participantService, h.hub)
	c.JSON(http.StatusOK, AckResponse{Success: true, Message: "participant added"})
}

// AssignGroup godoc
// @Summary      Assign a participant to a group
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AssignGroupRequest true "Assignment"
// @Success      200 {object} AckResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/assign-group [post]
func (h *AdminHandler) AssignGroup(c *gin.Context) {
	var req AssignGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone number required"})
		return
	}

	if err := h.participantService.AssignGroup(req.PhoneNumber, req.Group); err != nil {
		h.mutationError(c, "assign group", err)
		return
	}

	publishLeaderboard(h.participantService, h.hub)
	c.JSON(http.StatusOK, AckResponse{Success: true, Message: "group assigned"})
}

// AssignPoints godoc
// @Summary      Award points for a game
// @Description  Adds the given points (may be negative) to the participant's total. Non-numeric input counts as 0.
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AssignPointsRequest true "Points award"
// @Success      200 {object} AckResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/assign-points [post]
func (h *AdminHandler) AssignPoints(c *gin.Context) {
	var req AssignPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone number required"})
		return
	}

	delta := coerceInt(req.Points)
	if err := h.participantService.AddPoints(req.PhoneNumber, delta); err != nil {
		h.mutationError(c, "assign points", err)
		return
	}

	slog.Info("points awarded", "phone", req.PhoneNumber, "points", delta, "game", req.Game)
	publishLeaderboard(h.participantService, h.hub)
	c.JSON(http.StatusOK, AckResponse{
		Success: true,
		Message: fmt.Sprintf("%d points awarded for %q", delta, req.Game),
	})
}

// SetPoints godoc
// @Summary      Overwrite a participant's points
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body SetPointsRequest true "New total"
// @Success      200 {object} AckResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/set-points [post]
func (h *AdminHandler) SetPoints(c *gin.Context) {
	var req SetPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone number required"})
		return
	}

	if err := h.participantService.SetPoints(req.PhoneNumber, coerceInt(req.Points)); err != nil {
		h.mutationError(c, "set points", err)
		return
	}

	publishLeaderboard(h.participantService, h.hub)
	c.JSON(http.StatusOK, AckResponse{Success: true, Message: "points updated"})
}

// AssignTask godoc
// @Summary      Assign a task
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body AssignTaskRequest true "Task assignment"
// @Success      200 {object} AckResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/assign-task [post]
func (h *AdminHandler) AssignTask(c *gin.Context) {
	var req AssignTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone number required"})
		return
	}

	if err := h.participantService.AssignTask(req.PhoneNumber, req.Task); err != nil {
		h.mutationError(c, "assign task", err)
		return
	}

	c.JSON(http.StatusOK, AckResponse{Success: true, Message: "task assigned"})
}

// DeleteUser godoc
// @Summary      Delete a participant
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        phoneNumber path string true "Phone number"
// @Success      200 {object} AckResponse
// @Failure      400 {object} ErrorResponse
// @Router       /api/admin/delete-user/{phoneNumber} [delete]
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	phoneNumber := c.Param("phoneNumber")

	if err := h.participantService.Delete(phoneNumber); err != nil {
		h.mutationError(c, "delete user", err)
		return
	}

	publishLeaderboard(h.participantService, h.hub)
	c.JSON(http.StatusOK, AckResponse{Success: true, Message: "participant deleted"})
}

// SearchUser godoc
// @Summary      Look up a participant by phone number
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        phoneNumber path string true "Phone number"
// @Success      200 {object} Participant
// @Failure      404 {object} ErrorResponse
// @Router       /api/admin/search-user/{phoneNumber} [get]
func (h *AdminHandler) SearchUser(c *gin.Context) {
	participant, err := h.participantService.Get(c.Param("phoneNumber"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "participant not found"})
			return
		}
		internalError(c, "search user", err)
		return
	}
	c.JSON(http.StatusOK, participant)
}

// mutationError maps ErrNotFound to the 400 the admin panel expects and
// everything else to a generic 500.
func (h *AdminHandler) mutationError(c *gin.Context, op string, err error) {
	if errors.Is(err, services.ErrNotFound) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "participant not found"})
		return
	}
	internalError(c, op, err)
}
