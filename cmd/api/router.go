package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cms-backend/internal/shared/middleware"
	"cms-backend/pkg/container"
)

// SetupRouter wires all HTTP routes. Author routes require a valid JWT
// with the author role; published, search, and health routes are public.
func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(),
	)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		auth := v1.Group("/auth")
		{
			auth.POST("/login", c.AuthHandler.Login)
		}

		posts := v1.Group("/posts")
		posts.Use(middleware.AuthRequired(c.JWTManager))
		{
			posts.POST("", c.PostHandler.Create)
			posts.GET("", c.PostHandler.List)
			posts.GET("/:id", c.PostHandler.Get)
			posts.PUT("/:id", c.PostHandler.Update)
			posts.DELETE("/:id", c.PostHandler.Delete)
			posts.POST("/:id/publish", c.PostHandler.Publish)
			posts.POST("/:id/schedule", c.PostHandler.Schedule)
			posts.GET("/:id/revisions", c.PostHandler.ListRevisions)
		}

		// Public reads live under /published to keep them out of the
		// authenticated /posts tree.
		published := v1.Group("/published/posts")
		{
			published.GET("", c.PublicHandler.ListPublished)
			published.GET("/:id", c.PublicHandler.GetPublished)
		}

		v1.GET("/search", c.SearchHandler.Search)

		media := v1.Group("/media")
		media.Use(middleware.AuthRequired(c.JWTManager))
		{
			media.POST("/upload", c.MediaHandler.Upload)
		}
	}

	return router
}

func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		dbStatus := "ok"
		if err := appCtx.DB.HealthCheck(ctx); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		redisStatus := "ok"
		if err := appCtx.Cache.Ping(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
