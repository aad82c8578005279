package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sma-timetable-grid/api/swagger"
	"github.com/noah-isme/sma-timetable-grid/internal/middleware"
	"github.com/noah-isme/sma-timetable-grid/internal/service"
	"github.com/noah-isme/sma-timetable-grid/pkg/config"
	"github.com/noah-isme/sma-timetable-grid/pkg/logger"
	corsmiddleware "github.com/noah-isme/sma-timetable-grid/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sma-timetable-grid/pkg/middleware/requestid"
)

// RouterDeps carries everything the HTTP layer needs.
type RouterDeps struct {
	Config     *config.Config
	Logger     *zap.Logger
	Metrics    *service.MetricsService
	Timetables timetableService
	Exports    exportService
	Validate   *validator.Validate
}

// NewRouter wires middleware and routes.
func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Config.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(deps.Logger))
	r.Use(corsmiddleware.New(deps.Config.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.Metrics))

	metricsHandler := NewMetricsHandler(deps.Metrics)
	timetableHandler := NewTimetableHandler(deps.Timetables)
	exportHandler := NewExportHandler(deps.Exports, deps.Validate)

	r.GET("/health", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if deps.Config.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	prefix := "/" + strings.Trim(deps.Config.APIPrefix, "/")
	if prefix == "/" {
		prefix = ""
	}
	api := r.Group(prefix)
	api.GET("/cycles", timetableHandler.ListCycles)
	api.GET("/cycles/:cycle/timetable", timetableHandler.Timetable)
	api.GET("/cycles/:cycle/export", exportHandler.Download)
	api.POST("/exports", exportHandler.ExportAll)

	return r
}
