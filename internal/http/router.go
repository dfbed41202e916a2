package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/binroute/backend/internal/config"
	"github.com/binroute/backend/internal/db"
	"github.com/binroute/backend/internal/http/handlers"
	"github.com/binroute/backend/internal/http/middleware"
	"github.com/binroute/backend/internal/notify"
	"github.com/binroute/backend/internal/service"

	_ "github.com/binroute/backend/docs"
)

func Router(cfg config.Config, store *db.Store, engine *service.Engine, notifier notify.Notifier, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.MaxMultipartMemory = cfg.MaxUploadSizeMB << 20

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Store:     store,
		Engine:    engine,
		Notifier:  notifier,
		Validator: validator.New(),
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/grievances", h.GrievancesList)
		api.GET("/grievances/:id", h.GrievanceDetails)
		api.GET("/collectors", h.CollectorsList)
		api.GET("/areas/:id/recommendations", h.Recommendations)
		api.GET("/runs/latest", h.RunsLatest)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/import", h.Import)
		admin.POST("/areas/:id/reassign", h.Reassign)
		admin.POST("/grievances/:id/resolve", h.ResolveGrievance)
		admin.POST("/collectors/:id/status", h.CollectorSetStatus)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
