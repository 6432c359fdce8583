package http

import (
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend-template/internal/auth"
	"backend-template/internal/domain"
)

const claimsKey = "auth.claims"

var (
	adminOnly = []domain.Role{domain.RoleAdmin}
	staff     = []domain.Role{domain.RoleAdmin, domain.RoleModerator}
	shoppers  = auth.Any()
)

func corsMiddleware(origins []string) gin.HandlerFunc {
	allowAll := len(origins) == 0 || slices.Contains(origins, "*")
	allowed := make([]string, 0, len(origins))
	for _, o := range origins {
		allowed = append(allowed, strings.ToLower(strings.TrimSpace(o)))
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" {
			switch {
			case allowAll:
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
			case slices.Contains(allowed, strings.ToLower(origin)):
				c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
				c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
				c.Writer.Header().Add("Vary", "Origin")
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Writer.Header().Set("Access-Control-Max-Age", "3600")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := h.logger.WithFields(logrus.Fields{
			"method":    c.Request.Method,
			"path":      c.Request.URL.Path,
			"status":    c.Writer.Status(),
			"latency":   time.Since(start).String(),
			"client_ip": c.ClientIP(),
		})
		switch status := c.Writer.Status(); {
		case status >= http.StatusInternalServerError:
			entry.Error("request failed")
		case status >= http.StatusBadRequest:
			entry.Warn("request rejected")
		default:
			entry.Info("request handled")
		}
	}
}

func (h *Handler) recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		h.logger.WithFields(logrus.Fields{
			"panic": recovered,
			"path":  c.Request.URL.Path,
		}).Error("recovered from panic")
		fail(c, http.StatusInternalServerError, unexpectedMessage)
	})
}

// authenticate requires a valid bearer token and stores its claims on the context.
func (h *Handler) authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			fail(c, http.StatusUnauthorized, "Authentication required")
			return
		}

		claims, err := h.auth.Authenticate(c.Request.Context(), strings.TrimSpace(token))
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.Set(claimsKey, claims)
		c.Next()
	}
}

func requireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := auth.Authorize(claimsFrom(c), roles...); err != nil {
			fail(c, http.StatusForbidden, "Access denied")
			return
		}
		c.Next()
	}
}

func claimsFrom(c *gin.Context) *auth.Claims {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// selfOr allows the subject of the path id or any of roles.
func selfOr(c *gin.Context, id string, roles ...domain.Role) error {
	claims := claimsFrom(c)
	if claims != nil && claims.UserID == id {
		return nil
	}
	return auth.Authorize(claims, roles...)
}
