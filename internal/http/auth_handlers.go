package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend-template/internal/service"
)

func (h *Handler) register(c *gin.Context) {
	var req service.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Malformed request body")
		return
	}

	user, err := h.users.Register(c.Request.Context(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusCreated, "Registration successful", userToResponse(user))
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Email and password are required")
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Login successful", loginToResponse(res))
}

func (h *Handler) validate(c *gin.Context) {
	claims := claimsFrom(c)
	success(c, http.StatusOK, "Token is valid", gin.H{
		"id":        claims.UserID,
		"email":     claims.Email,
		"role":      claims.Role,
		"expiresAt": claims.ExpiresAt.Time,
	})
}
