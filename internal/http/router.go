package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/kommo_pulse/backend/internal/config"
	"github.com/kommo_pulse/backend/internal/crm"
	"github.com/kommo_pulse/backend/internal/db"
	"github.com/kommo_pulse/backend/internal/http/handlers"
	"github.com/kommo_pulse/backend/internal/http/middleware"
	"github.com/kommo_pulse/backend/internal/report"
)

func Router(cfg config.Config, client crm.Client, builder *report.Builder, store *db.Store, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

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
		Builder:   builder,
		Client:    client,
		Store:     store,
		Logger:    logger,
		AdminKey:  cfg.AdminKey,
		OutputDir: cfg.OutputDir,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/users", h.UsersList)
		api.GET("/reports/leads", h.ReportLeads)
		api.GET("/reports/talks", h.ReportTalks)
		api.GET("/runs/latest", h.RunsLatest)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/reports/:kind/run", h.RunReport)
	}

	return r
}
