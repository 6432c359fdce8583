package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (h *Handler) health(c *gin.Context) {
	success(c, http.StatusOK, "Service is running", gin.H{
		"status": "UP",
		"uptime": time.Since(h.opts.StartedAt).Truncate(time.Second).String(),
	})
}

func (h *Handler) live(c *gin.Context) {
	success(c, http.StatusOK, "Service is alive", gin.H{"status": "UP"})
}

func (h *Handler) ready(c *gin.Context) {
	if h.db != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.PingContext(ctx); err != nil {
			h.logger.WithError(err).Warn("readiness check failed")
			failWithData(c, http.StatusServiceUnavailable, "Service is not ready", gin.H{"status": "DOWN", "database": "DOWN"})
			return
		}
	}
	success(c, http.StatusOK, "Service is ready", gin.H{"status": "UP", "database": "UP"})
}
