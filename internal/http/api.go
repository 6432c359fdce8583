package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"backend-template/internal/service"
)

// Pinger reports whether the backing database is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Options configures the HTTP surface.
type Options struct {
	CORSOrigins []string
	StartedAt   time.Time
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	users    service.UserService
	products service.ProductService
	auth     service.AuthService
	db       Pinger
	logger   logrus.FieldLogger
	opts     Options
}

func NewHandler(users service.UserService, products service.ProductService, authSvc service.AuthService, db Pinger, logger logrus.FieldLogger, opts Options) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.StartedAt.IsZero() {
		opts.StartedAt = time.Now()
	}
	return &Handler{
		users:    users,
		products: products,
		auth:     authSvc,
		db:       db,
		logger:   logger.WithField("component", "http"),
		opts:     opts,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.recovery(), h.requestLogger(), corsMiddleware(h.opts.CORSOrigins))
	router.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "Resource not found")
	})

	health := router.Group("/health")
	{
		health.GET("", h.health)
		health.GET("/live", h.live)
		health.GET("/ready", h.ready)
	}

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/register", h.register)
		authGroup.POST("/login", h.login)
		authGroup.GET("/validate", h.authenticate(), h.validate)
	}

	users := router.Group("/users", h.authenticate())
	{
		users.GET("", requireRoles(adminOnly...), h.listUsers)
		users.GET("/me", h.currentUser)
		users.GET("/email/:email", requireRoles(staff...), h.getUserByEmail)
		users.GET("/:id", h.getUser)
		users.PUT("/:id", h.updateUser)
		users.DELETE("/:id", requireRoles(adminOnly...), h.deleteUser)
	}

	products := router.Group("/products", h.authenticate())
	{
		read := products.Group("", requireRoles(shoppers...))
		read.GET("", h.listProducts)
		read.GET("/search", h.searchProducts)
		read.GET("/category/:category", h.listProductsByCategory)
		read.GET("/in-stock", h.listInStock)
		read.GET("/sku/:sku", h.getProductBySKU)
		read.GET("/:id", h.getProduct)
		read.GET("/:id/image", h.productImage)

		write := products.Group("", requireRoles(adminOnly...))
		write.POST("", h.createProduct)
		write.PUT("/:id", h.updateProduct)
		write.DELETE("/:id", h.deleteProduct)
		write.POST("/:id/image", h.uploadProductImage)
	}
}
