package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
)

type Pinger func(ctx context.Context) error

type HealthHandler struct {
	pings map[string]Pinger
}

// NewHealthHandler takes named readiness checks (backend, redis). nil
// entries are skipped.
func NewHealthHandler(pings map[string]Pinger) *HealthHandler {
	return &HealthHandler{pings: pings}
}

func (h *HealthHandler) Healthz(ctx *gin.Context) {
	ctx.JSON(200, gin.H{"status": "ok"})
}

func (h *HealthHandler) Readyz(ctx *gin.Context) {
	failed := map[string]string{}

	for name, ping := range h.pings {
		if ping == nil {
			continue
		}

		if err := ping(ctx.Request.Context()); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		ctx.JSON(503, gin.H{"status": "degraded", "failed": failed})
		return
	}

	ctx.JSON(200, gin.H{"status": "ready"})
}
