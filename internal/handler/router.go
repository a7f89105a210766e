package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"farmmarket/internal/logging"
	"farmmarket/internal/model"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BuildInfo identifies the running binary
type BuildInfo struct {
	Version   string
	BuildTime string
	GitCommit string
}

// RouterConfig holds everything the router needs besides the handlers
type RouterConfig struct {
	AllowedOrigins string
	AllowedMethods string
	AllowedHeaders string
	Build          BuildInfo
	// Ping reports database health for /health; nil skips the check
	Ping func(ctx context.Context) error
}

// Handlers groups the HTTP handlers mounted under /api/v1
type Handlers struct {
	Catalog   *CatalogHandler
	Contact   *ContactHandler
	Seller    *SellerHandler
	Embedding *EmbeddingHandler
	Auth      *Authenticator
}

// NewRouter builds the gin engine with middleware and every API route
func NewRouter(h Handlers, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logging.GinLogger(logger))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = splitList(cfg.AllowedOrigins)
	corsConfig.AllowMethods = splitList(cfg.AllowedMethods)
	corsConfig.AllowHeaders = splitList(cfg.AllowedHeaders)
	if len(corsConfig.AllowOrigins) == 1 && corsConfig.AllowOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		body := gin.H{
			"status":  "healthy",
			"service": "farmmarket",
			"version": cfg.Build.Version,
		}
		if cfg.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Ping(ctx); err != nil {
				status = http.StatusServiceUnavailable
				body["status"] = "unhealthy"
				body["database"] = err.Error()
			}
		}
		c.JSON(status, body)
	})

	router.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"version":    cfg.Build.Version,
			"build_time": cfg.Build.BuildTime,
			"git_commit": cfg.Build.GitCommit,
		})
	})

	apiV1 := router.Group("/api/v1")
	apiV1.Use(h.Auth.OptionalAuth())
	{
		// Catalog
		apiV1.GET("/listings", h.Catalog.Browse)
		apiV1.GET("/listings/:id", h.Catalog.GetListing)
		apiV1.GET("/listings/:id/similar", h.Catalog.Similar)
		apiV1.GET("/taxonomy", h.Catalog.Taxonomy)
		apiV1.GET("/sellers/:id", h.Catalog.SellerPage)

		// Contact
		apiV1.POST("/listings/:id/contact/phone", h.Contact.Phone)
		apiV1.POST("/listings/:id/contact/email", h.Contact.Email)
		apiV1.POST("/listings/:id/contact/message", h.Auth.RequireAuth(), h.Contact.Message)
	}

	me := apiV1.Group("/me", h.Auth.RequireAuth(), RequireRole(model.RoleFarmer))
	{
		me.GET("/listings", h.Seller.ListOwn)
		me.POST("/listings", h.Seller.Create)
		me.PUT("/listings/:id", h.Seller.Update)
		me.DELETE("/listings/:id", h.Seller.Delete)
		me.POST("/listings/:id/image", h.Seller.UploadImage)
		me.POST("/availability", h.Seller.ToggleAvailability)
		me.GET("/messages", h.Seller.Inbox)
		me.GET("/stats", h.Seller.ContactStats)
	}

	admin := apiV1.Group("", h.Auth.RequireAuth(), RequireRole(model.RoleAdmin))
	{
		admin.POST("/embeddings/batch", h.Embedding.BatchUpdate)
	}

	return router
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
