package server

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bardbox/bardbox/config"
	"github.com/bardbox/bardbox/internal/backup"
	"github.com/bardbox/bardbox/internal/library"
	"github.com/bardbox/bardbox/internal/playback"
)

// Server handles HTTP requests for the soundboard
type Server struct {
	cfg      *config.Config
	router   *gin.Engine
	library  *library.Manager
	playback *playback.Controller
	backup   *backup.Service // nil when backups are disabled
}

// New creates a new HTTP server instance
func New(cfg *config.Config, lib *library.Manager, pb *playback.Controller, bk *backup.Service) *Server {
	router := gin.Default()

	server := &Server{
		cfg:      cfg,
		router:   router,
		library:  lib,
		playback: pb,
		backup:   bk,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures the HTTP routes
func (s *Server) setupRoutes() {
	// Add CORS middleware
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	// Browser UI; disabled when no template directory is configured
	if s.cfg.Web.TemplatesDir != "" {
		s.router.LoadHTMLGlob(filepath.Join(s.cfg.Web.TemplatesDir, "*"))
		s.router.GET("/", s.index)
	}
	if s.cfg.Web.StaticDir != "" {
		s.router.Static("/static", s.cfg.Web.StaticDir)
	}

	// Health check endpoint
	s.router.GET("/health", s.healthCheck)

	// API endpoints
	api := s.router.Group("/api")
	{
		api.GET("/data", s.getData)
		api.GET("/play/:filename", s.playMusic)
		api.GET("/stop", s.stopMusic)
		api.GET("/volume/:level", s.setVolume)
		api.POST("/rename_asset", s.renameAsset)
		api.POST("/map", s.mapToSlot)
		api.POST("/unmap/:slot_id", s.unmapSlot)
		api.POST("/upload_music", s.uploadMusic)
		api.POST("/upload_icon", s.uploadIcon)
		api.POST("/delete_asset", s.deleteAsset)
		if s.backup != nil {
			api.POST("/backup", s.runBackup)
		}
	}
}

// Start starts the HTTP server
func (s *Server) Start(port string) error {
	return s.router.Run(":" + port)
}

// index renders the soundboard UI
func (s *Server) index(c *gin.Context) {
	c.HTML(200, "index.html", gin.H{"title": "BardBox"})
}

// healthCheck handles health check requests
func (s *Server) healthCheck(c *gin.Context) {
	c.JSON(200, gin.H{
		"status":    "healthy",
		"timestamp": time.Now(),
		"service":   "bardbox",
	})
}
