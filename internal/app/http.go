package app

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// NewRouterWithServer returns an http.Handler (Gin engine) with routes wired to the given Server.
func NewRouterWithServer(s *Server) http.Handler {
	if !s.cfg.Local() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(s.logger))
	r.SetHTMLTemplate(s.templates)

	// Health checks
	r.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/api/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })

	// OAuth
	r.GET("/api/get-access-token", s.getAccessToken)
	r.GET("/callback", s.callback)

	// Log drain configuration
	r.GET("/", func(c *gin.Context) { c.Redirect(http.StatusFound, configurePath) })
	page := r.Group(configurePath)
	page.GET("", s.showConfigure)
	page.POST("/login", s.login)
	page.POST("/logout", s.logout)
	page.POST("/new", s.startCreate)
	page.POST("/cancel", s.cancelCreate)
	page.POST("/drains", s.createDrain)
	page.POST("/drains/:id/delete", s.deleteDrain)

	return r
}

// RouterFromEnv creates a Server from env and returns a Gin router wired to it.
func RouterFromEnv() (http.Handler, error) {
	srv, err := ServerFromEnv()
	if err != nil {
		return nil, err
	}
	return NewRouterWithServer(srv), nil
}
