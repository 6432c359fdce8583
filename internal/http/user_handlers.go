package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"backend-template/internal/domain"
	"backend-template/internal/service"
)

func (h *Handler) listUsers(c *gin.Context) {
	page, err := h.users.List(c.Request.Context(), pageRequest(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "Users retrieved", pageToResponse(page, userToResponse))
}

func (h *Handler) currentUser(c *gin.Context) {
	user, err := h.users.GetByID(c.Request.Context(), claimsFrom(c).UserID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "User retrieved", userToResponse(user))
}

func (h *Handler) getUser(c *gin.Context) {
	id := c.Param("id")
	if err := selfOr(c, id, staff...); err != nil {
		h.writeError(c, err)
		return
	}

	user, err := h.users.GetByID(c.Request.Context(), id)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "User retrieved", userToResponse(user))
}

func (h *Handler) getUserByEmail(c *gin.Context) {
	user, err := h.users.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "User retrieved", userToResponse(user))
}

func (h *Handler) updateUser(c *gin.Context) {
	id := c.Param("id")
	if err := selfOr(c, id, domain.RoleAdmin); err != nil {
		h.writeError(c, err)
		return
	}

	var req service.ProfileInput
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Malformed request body")
		return
	}

	user, err := h.users.Update(c.Request.Context(), id, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "User updated", userToResponse(user))
}

func (h *Handler) deleteUser(c *gin.Context) {
	if err := h.users.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	success(c, http.StatusOK, "User deleted", nil)
}
