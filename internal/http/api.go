package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"stock-api/internal/metrics"
	"stock-api/internal/service"
	"stock-api/internal/storage"
)

// Options carries the non-service settings of the HTTP layer.
type Options struct {
	ServiceName    string
	Version        string
	AllowedOrigins []string
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	auth    service.AuthService
	users   service.UserService
	stock   service.StockService
	exports service.ExportService
	metrics *metrics.Metrics
	logger  logrus.FieldLogger
	opts    Options
}

func NewHandler(
	authSvc service.AuthService,
	users service.UserService,
	stock service.StockService,
	exports service.ExportService,
	m *metrics.Metrics,
	logger logrus.FieldLogger,
	opts Options,
) *Handler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if opts.ServiceName == "" {
		opts.ServiceName = "stock-api"
	}
	return &Handler{
		auth:    authSvc,
		users:   users,
		stock:   stock,
		exports: exports,
		metrics: m,
		logger:  logger,
		opts:    opts,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(requestID(), h.requestLogger(), corsMiddleware(h.opts.AllowedOrigins))
	if h.metrics != nil {
		router.Use(h.metrics.Instrument())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Stock API is running"})
	})
	router.GET("/health", h.health)

	authGroup := router.Group("/auth")
	{
		authGroup.POST("/login", h.login)
		authGroup.POST("/register", h.register)
		authGroup.GET("/me", h.requireAuth(), h.me)
		authGroup.PATCH("/me", h.requireAuth(), h.updateMe)
	}

	stock := router.Group("/stock-moves", h.requireAuth())
	{
		stock.GET("", h.listStockMoves)
		stock.POST("", h.createStockMove)
		stock.GET("/products", h.listProducts)
		stock.GET("/warehouses", h.listWarehouses)
		stock.GET("/exports", h.listExports)
		stock.POST("/export", h.exportStockMoves)
		stock.GET("/:id", h.getStockMove)
		stock.PATCH("/:id", h.updateStockMoveReference)
	}
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": h.opts.ServiceName,
		"version": h.opts.Version,
	})
}

type StorageObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"lastModified,omitempty"`
}

func objectToResponse(obj storage.ObjectInfo) StorageObjectResponse {
	resp := StorageObjectResponse{
		Key:  obj.Key,
		Size: obj.Size,
	}
	if obj.LastModified != nil && !obj.LastModified.IsZero() {
		v := obj.LastModified.Format(time.RFC3339)
		resp.LastModified = &v
	}
	return resp
}
