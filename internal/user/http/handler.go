package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/nekogravitycat/canchas/internal/auth"
	"github.com/nekogravitycat/canchas/internal/pkg/response"
	"github.com/nekogravitycat/canchas/internal/user"
)

type UserHandler struct {
	userService  user.Service
	jwtManager   *auth.JWTManager
	secureCookie bool
}

func NewHandler(userService user.Service, jwtManager *auth.JWTManager, secureCookie bool) *UserHandler {
	return &UserHandler{
		userService:  userService,
		jwtManager:   jwtManager,
		secureCookie: secureCookie,
	}
}

// Register handles the user registration process.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	u, err := h.userService.Register(c.Request.Context(), req.Email, req.Password, req.DisplayName)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, MeResponse{User: NewUserResponse(u)})
}

// Login authenticates a user using email and password.
// On success, it returns a JWT access token and also sets it as an httpOnly cookie.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request", err)
		return
	}

	u, err := h.userService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	token, err := h.jwtManager.GenerateAccessToken(u.Identity())
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, token, int(h.jwtManager.TTL().Seconds()), "/", "", h.secureCookie, true)

	c.JSON(http.StatusOK, LoginResponse{
		AccessToken: token,
		Role:        string(u.Role),
		User:        NewUserResponse(u),
	})
}

// Logout clears the session cookie. Bearer tokens simply expire.
func (h *UserHandler) Logout(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(auth.CookieName, "", -1, "/", "", h.secureCookie, true)
	c.Status(http.StatusNoContent)
}

// Me retrieves the profile of the currently authenticated user.
func (h *UserHandler) Me(c *gin.Context) {
	caller := auth.GetIdentity(c)
	if _, err := uuid.Parse(caller.UserID); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := h.userService.GetByID(c.Request.Context(), caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, MeResponse{User: NewUserResponse(u)})
}
