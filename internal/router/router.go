package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/anointed-vessels/sponsorship-api/internal/handler"
	"github.com/anointed-vessels/sponsorship-api/internal/middleware"
	"github.com/anointed-vessels/sponsorship-api/internal/service"
	"github.com/anointed-vessels/sponsorship-api/pkg/config"
	appErrors "github.com/anointed-vessels/sponsorship-api/pkg/errors"
	"github.com/anointed-vessels/sponsorship-api/pkg/logger"
	bodylimitmiddleware "github.com/anointed-vessels/sponsorship-api/pkg/middleware/bodylimit"
	corsmiddleware "github.com/anointed-vessels/sponsorship-api/pkg/middleware/cors"
	reqidmiddleware "github.com/anointed-vessels/sponsorship-api/pkg/middleware/requestid"
	"github.com/anointed-vessels/sponsorship-api/pkg/response"
)

// Deps carries everything the router needs to wire the HTTP surface.
type Deps struct {
	Config         *config.Config
	Logger         *zap.Logger
	AuthService    *service.AuthService
	MetricsService *service.MetricsService

	AuthHandler        *handler.AuthHandler
	StudentHandler     *handler.StudentHandler
	SponsorshipHandler *handler.SponsorshipHandler
	MetricsHandler     *handler.MetricsHandler

	UploadsDir string
}

// New assembles the gin engine: global middleware, operational endpoints,
// static photo serving and the versionless API group.
func New(deps Deps) *gin.Engine {
	cfg := deps.Config

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(middleware.Metrics(deps.MetricsService))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(bodylimitmiddleware.New(cfg.Uploads.MaxFileSizeBytes))

	r.NoRoute(func(c *gin.Context) {
		response.Error(c, appErrors.Clone(appErrors.ErrNotFound, "route not found"))
	})

	r.GET("/health", deps.MetricsHandler.Health)
	r.GET("/ready", deps.MetricsHandler.Ready)
	r.GET("/metrics", deps.MetricsHandler.Metrics)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if deps.UploadsDir != "" {
		r.Static(cfg.Uploads.PublicPath, deps.UploadsDir)
	}

	api := r.Group(cfg.APIPrefix)
	registerAuthRoutes(api, deps)
	registerStudentRoutes(api, deps)
	registerSponsorshipRoutes(api, deps)

	return r
}

func registerAuthRoutes(api *gin.RouterGroup, deps Deps) {
	auth := api.Group("/auth")
	auth.POST("/login", deps.AuthHandler.Login)
	auth.POST("/register", deps.AuthHandler.Register)
	auth.GET("/me", middleware.JWT(deps.AuthService), deps.AuthHandler.Me)
}

func registerStudentRoutes(api *gin.RouterGroup, deps Deps) {
	students := api.Group("/students")
	students.GET("", deps.StudentHandler.List)

	protected := students.Group("")
	protected.Use(middleware.JWT(deps.AuthService))
	protected.GET("/export", deps.StudentHandler.Export)
	protected.POST("", deps.StudentHandler.Create)
	protected.PUT("/:id", deps.StudentHandler.Update)
	protected.DELETE("/:id", deps.StudentHandler.Delete)

	students.GET("/:id", deps.StudentHandler.Get)
}

func registerSponsorshipRoutes(api *gin.RouterGroup, deps Deps) {
	sponsorship := api.Group("/sponsorship")
	sponsorship.POST("/interest", deps.SponsorshipHandler.SubmitInterest)
	sponsorship.GET("/interests", middleware.JWT(deps.AuthService), deps.SponsorshipHandler.ListInterests)
}
