package v1

import (
	"net/http"
	"time"

	"profolio-backend/config"
	"profolio-backend/internal/delivery/http/middleware"
	"profolio-backend/internal/delivery/http/response"
	"profolio-backend/internal/domain"
	"profolio-backend/pkg/auth"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC       domain.AuthUsecase
	ProfileUC    domain.ProfileUsecase
	ProjectUC    domain.ProjectUsecase
	PortfolioUC  domain.PortfolioUsecase
	JWKSProvider *auth.Provider
	Config       *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second

	// Global middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.FrontendURL)) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(gin.Logger())
	r.Use(middleware.RequestID())
	r.Use(middleware.SecurityHeadersMiddleware())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))

	v1 := r.Group("/v1")

	// Health check
	v1.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, "System operational", nil)
	})

	// Public routes
	NewPortfolioHandler(v1, deps.PortfolioUC)

	// Swagger
	v1.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Protected routes
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(deps.JWKSProvider, deps.Config))
	{
		authGroup := protected.Group("")
		authGroup.Use(middleware.RateLimitMiddleware(middleware.AuthRateLimitConfig(deps.Config.RateLimitAuthThreshold, window)))
		NewAuthHandler(authGroup, deps.AuthUC)

		NewProfileHandler(protected, deps.ProfileUC)
		NewProjectHandler(protected, deps.ProjectUC)
	}

	return r
}
