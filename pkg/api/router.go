package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// NewRouter builds the gin engine with logging, panic recovery, and the five
// pipeline routes. A handler panic becomes a generic 500 so internal detail
// never leaks to the caller.
func NewRouter(s *Server, log *logrus.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(requestLogger(log))
	engine.Use(gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		log.WithField("panic", recovered).Error("Recovered from handler panic")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}))

	engine.POST("/crawl", s.handleCrawl)
	engine.POST("/crawl-basic", s.handleCrawlBasic)
	engine.POST("/scrape-url", s.handleScrapeURL)
	engine.POST("/search-free", s.handleSearchFree)
	engine.POST("/scrape", s.handleScrape)

	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	return engine
}

func requestLogger(log *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(logrus.Fields{
			"method":   c.Request.Method,
			"path":     c.Request.URL.Path,
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		}).Info("Request handled")
	}
}
