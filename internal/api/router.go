package api

import (
	"github.com/gin-gonic/gin"
	authapi "github.com/nexuschat/nexuschat/internal/api/auth"
	chatapi "github.com/nexuschat/nexuschat/internal/api/chat"
	filesapi "github.com/nexuschat/nexuschat/internal/api/files"
	"github.com/nexuschat/nexuschat/internal/api/middleware"
	"github.com/nexuschat/nexuschat/internal/service"
)

// RouterConfig holds configuration for the router
type RouterConfig struct {
	AllowOrigins []string
}

// SetupRouter sets up the Gin router
func SetupRouter(
	authService *service.AuthService,
	chatService *service.ChatService,
	uploadService *service.UploadService,
	analysisService *service.AnalysisService,
	cfg RouterConfig,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middleware.CORS(cfg.AllowOrigins))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Home page stats
	r.GET("/api/stats", func(c *gin.Context) {
		c.JSON(200, chatService.Stats())
	})

	authHandler := authapi.NewHandler(authService)
	chatHandler := chatapi.NewHandler(chatService)
	filesHandler := filesapi.NewHandler(uploadService, analysisService)

	public := r.Group("/api")
	authHandler.RegisterPublicRoutes(public)

	// Everything else requires a bearer token
	private := r.Group("/api")
	private.Use(middleware.Auth(authService))
	authHandler.RegisterRoutes(private)
	chatHandler.RegisterRoutes(private)
	filesHandler.RegisterRoutes(private)

	return r
}
