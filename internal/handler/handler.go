package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-console/internal/model"
)

// Handler serves the pages that hold no screen state.
type Handler struct {
	BaseHandler
}

// NewHandler creates a new handler instance
func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Welcome(c *gin.Context) {
	h.Render(c, "welcome.html", nil)
}

func (h *Handler) Landing(c *gin.Context) {
	h.Render(c, "landing.html", nil)
}

func (h *Handler) Dashboard(c *gin.Context) {
	h.Render(c, "dashboard.html", gin.H{"Stats": model.DashboardStats()})
}

// NotImplemented answers the links that point at pages which do not exist yet.
func (h *Handler) NotImplemented(page string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusNotImplemented, "not_implemented.html", gin.H{"Page": page})
	}
}
