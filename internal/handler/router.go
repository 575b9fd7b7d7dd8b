package handler

import (
	"net/http"

	"expoflow/internal/middleware"
	"expoflow/internal/service"
	"expoflow/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// RouterOptions collects what NewRouter wires together.
type RouterOptions struct {
	Services    *service.Services
	Hub         *websocket.Hub
	Logger      *zap.Logger
	CORSOrigins []string
}

// NewRouter builds the gin engine with every route mounted.
func NewRouter(opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestID(), middleware.Logger(logger))

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = opts.CORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", middleware.UserIDHeader, "X-Request-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	if len(corsConfig.AllowOrigins) > 0 {
		router.Use(cors.New(corsConfig))
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	svc := opts.Services
	if opts.Hub != nil {
		router.GET("/ws", func(c *gin.Context) {
			websocket.ServeWs(opts.Hub, c, svc.Actors)
		})
	}

	auth := NewAuthHandler(svc.Actors)
	public := router.Group("/api")
	auth.RegisterPublicRoutes(public)

	api := router.Group("/api", middleware.Authenticate(svc.Actors))
	auth.RegisterRoutes(api)
	NewProductHandler(svc.Products).RegisterRoutes(api)
	NewExhibitionHandler(svc.Exhibitions, svc.Approvals).RegisterRoutes(api)
	NewApprovalHandler(svc.Approvals).RegisterRoutes(api)
	NewOrderHandler(svc.Orders).RegisterRoutes(api)
	NewProductListHandler(svc.ProductLists).RegisterRoutes(api)
	NewRoleHandler(svc.Roles).RegisterRoutes(api)
	NewStatisticsHandler(svc.Statistics).RegisterRoutes(api)

	return router
}
