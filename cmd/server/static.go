package main

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// setupStaticFiles serves a built single-page frontend from dir. Unknown
// non-API paths fall back to index.html. Without dir only the API is served.
func setupStaticFiles(router *gin.Engine, dir string, logger *zap.Logger) {
	if dir == "" {
		router.NoRoute(func(c *gin.Context) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
		})
		return
	}

	logger.Info("serving frontend assets", zap.String("dir", dir))
	index := filepath.Join(dir, "index.html")

	router.NoRoute(func(c *gin.Context) {
		urlPath := c.Request.URL.Path
		if strings.HasPrefix(urlPath, "/api") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}

		cleanPath := path.Clean("/" + urlPath)
		if cleanPath != "/" {
			candidate := filepath.Join(dir, filepath.FromSlash(cleanPath))
			if stat, err := os.Stat(candidate); err == nil && !stat.IsDir() {
				c.File(candidate)
				return
			}
		}

		if _, err := os.Stat(index); err != nil {
			c.String(http.StatusNotFound, "404 page not found")
			return
		}
		c.File(index)
	})
}
