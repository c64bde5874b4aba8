package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping() error
}

// ViewSource reports whether a reconciled view has been published
type ViewSource interface {
	Ready() bool
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	BaseHandler
	db    Pinger
	views ViewSource
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db Pinger, views ViewSource) *HealthHandler {
	return &HealthHandler{db: db, views: views}
}

// RegisterRoutes registers health endpoints outside the versioned API group
func (h *HealthHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)
}

// Healthz reports process liveness
func (h *HealthHandler) Healthz(c *gin.Context) {
	h.Success(c, gin.H{"status": "ok"})
}

// Readyz reports whether the service can answer view queries: the database
// must be reachable and at least one reconciliation pass must have published
func (h *HealthHandler) Readyz(c *gin.Context) {
	if err := h.db.Ping(); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	if !h.views.Ready() {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "starting", "view": "not published yet"})
		return
	}
	h.Success(c, gin.H{"status": "ready"})
}
