package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/harhar25/Prototype-IT-Lab-scheduler-II/internal/services/auth"
)

type authHandler struct {
	log  *slog.Logger
	auth *auth.Auth
}

type registerRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=80"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required"`
	FirstName string `json:"first_name" binding:"required"`
	LastName  string `json:"last_name" binding:"required"`
	Role      string `json:"role" binding:"omitempty,oneof=admin instructor student"`
}

func (h *authHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.auth.Register(c.Request.Context(), auth.RegisterInput{
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusCreated, gin.H{
		"message": "registration successful",
		"user":    userJSON(user),
	})
}

type loginRequest struct {
	Login    string `json:"login" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (h *authHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	pair, user, err := h.auth.Login(c.Request.Context(), req.Login, req.Password)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"message":       "login successful",
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          userJSON(user),
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func (h *authHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrRefreshRequired)
		return
	}

	pair, user, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
		"user":          userJSON(user),
	})
}

// logout is stateless: tokens expire on their own, the endpoint exists so
// clients have a uniform call to drop their session against.
func (h *authHandler) logout(c *gin.Context) {
	respond(c, http.StatusOK, gin.H{"message": "logout successful"})
}

func (h *authHandler) profile(c *gin.Context) {
	identity, ok := identityFrom(c)
	if !ok {
		fail(c, http.StatusUnauthorized, ErrAuthRequired)
		return
	}

	user, err := h.auth.Profile(c.Request.Context(), identity.ID)
	if err != nil {
		mapServiceErr(c, h.log, err)
		return
	}

	respond(c, http.StatusOK, gin.H{"user": userJSON(user)})
}
