package handlers

import (
	"errors"
	"net/http"

	"github.com/RubeldiRubelda/merryweihnachten/internal/services"
	"github.com/RubeldiRubelda/merryweihnachten/internal/ws"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	authService        *services.AuthService
	participantService *services.ParticipantService
	hub                *ws.Hub
}

func NewAuthHandler(authService *services.AuthService, participantService *services.ParticipantService, hub *ws.Hub) *AuthHandler {
	return &AuthHandler{authService: authService, participantService: participantService, hub: hub}
}

type LoginRequest struct {
	PhoneNumber string `json:"phoneNumber" binding:"required" example:"0790000000"`
	Name        string `json:"name" binding:"required" example:"Alice"`
}

type LoginResponse struct {
	Success  bool   `json:"success" example:"true"`
	Redirect string `json:"redirect" example:"/dashboard"`
	Token    string `json:"token" example:"MDc5MDAwMDAwMA=="`
}

type AdminLoginRequest struct {
	Password string `json:"password" binding:"required" example:"admin123"`
}

type AdminLoginResponse struct {
	Success    bool   `json:"success" example:"true"`
	Redirect   string `json:"redirect" example:"/admin"`
	AdminToken string `json:"adminToken" example:"eyJhbGciOiJIUzI1NiIs..."`
}

// Login godoc
// @Summary      Participant login
// @Description  Register the phone number if new and return the participant token. Re-registering keeps the original record.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login data"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} ErrorResponse
// @Router       /login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "phone number and name required"})
		return
	}

	_, created, err := h.participantService.GetOrCreate(req.PhoneNumber, req.Name)
	if err != nil {
		internalError(c, "login", err)
		return
	}
	if created {
		publishLeaderboard(h.participantService, h.hub)
	}

	c.JSON(http.StatusOK, LoginResponse{
		Success:  true,
		Redirect: "/dashboard",
		Token:    h.authService.EncodeParticipantToken(req.PhoneNumber),
	})
}

// Logout godoc
// @Summary      Participant logout
// @Description  Participant tokens are stateless, so logout is just an acknowledgement.
// @Tags         auth
// @Produce      json
// @Success      200 {object} AckResponse
// @Router       /logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, AckResponse{Success: true, Message: "logged out"})
}

// GetUser godoc
// @Summary      Current participant record
// @Description  Return the record for the phone number encoded in the participant token.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} Participant
// @Failure      401 {object} ErrorResponse
// @Router       /api/user [get]
func (h *AuthHandler) GetUser(c *gin.Context) {
	phoneNumber := c.GetString("phone_number")

	participant, err := h.participantService.Get(phoneNumber)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			// A forged or stale token decodes fine but has no record
			// behind it; that counts as not logged in.
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "not logged in"})
			return
		}
		internalError(c, "get user", err)
		return
	}

	c.JSON(http.StatusOK, participant)
}

// AdminLogin godoc
// @Summary      Administrator login
// @Description  Check the shared admin password and mint an admin token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body AdminLoginRequest true "Admin password"
// @Success      200 {object} AdminLoginResponse
// @Failure      401 {object} ErrorResponse
// @Router       /admin-login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "password required"})
		return
	}

	token, err := h.authService.AdminLogin(req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "wrong password"})
			return
		}
		internalError(c, "admin login", err)
		return
	}

	c.JSON(http.StatusOK, AdminLoginResponse{
		Success:    true,
		Redirect:   "/admin",
		AdminToken: token,
	})
}

// AdminLogout godoc
// @Summary      Administrator logout
// @Description  Revoke the presented admin token. Revoking twice is harmless.
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} AckResponse
// @Failure      403 {object} ErrorResponse
// @Router       /admin/logout [post]
func (h *AuthHandler) AdminLogout(c *gin.Context) {
	token := c.GetString("admin_token")
	if err := h.authService.AdminLogout(token); err != nil {
		internalError(c, "admin logout", err)
		return
	}
	c.JSON(http.StatusOK, AckResponse{Success: true})
}
