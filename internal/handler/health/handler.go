package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/care-console/internal/worker"
)

// StatusSource reports the last known backend reachability.
type StatusSource interface {
	Status() worker.Status
}

type Handler struct {
	probe StatusSource
}

func NewHandler(probe StatusSource) *Handler {
	return &Handler{
		probe: probe,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	health := r.Group("/health")
	{
		health.GET("/live", h.LivenessCheck)
		health.GET("/ready", h.ReadinessCheck)
	}
}

func (h *Handler) LivenessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}

func (h *Handler) ReadinessCheck(c *gin.Context) {
	status := h.probe.Status()
	if !status.Up {
		reason := "Backend not reachable"
		if status.CheckedAt.IsZero() {
			reason = "Backend not probed yet"
		}
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status": "DOWN",
			"reason": reason,
			"error":  status.Err,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":     "UP",
		"checked_at": status.CheckedAt.Format(time.RFC3339),
	})
}
