package ui

import (
	"github.com/gin-gonic/gin"

	"gowoa/ui/middleware"
)

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(gin.Recovery())
	s.router.MaxMultipartMemory = 8 << 20
}
