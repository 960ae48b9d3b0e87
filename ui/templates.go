package ui

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"gowoa/adapters/export"
	"gowoa/internal/errors"
)

// renderHTML renders Markdown into a standalone page
func (s *Server) renderHTML(c *gin.Context, title, md string) {
	page, err := export.HTMLDocument(title, md)
	if err != nil {
		s.respondError(c, errors.Wrap(err, "report rendering failed"))
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}
