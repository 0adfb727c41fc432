package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sentencing-platform/calc-service/internal/models"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

var processStartTime = time.Now()

// HealthHandler backs GET /health (§6).
type HealthHandler struct {
	store store.Store
}

func NewHealthHandler(s store.Store) *HealthHandler {
	return &HealthHandler{store: s}
}

// Health returns 200 {"status":"ok"} when the store is reachable, and 503
// with {"status":"unavailable"} otherwise; both are HealthResponse bodies,
// not the `{"detail": ...}` error envelope. Both cases carry process
// uptime and a per-dependency status breakdown alongside the top-level
// `status` literal spec.md §6 requires.
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	uptime := time.Since(processStartTime).Round(time.Second).String()

	storeStatus := models.ServiceStatus{Status: "ok"}
	if err := h.store.Ping(ctx); err != nil {
		storeStatus = models.ServiceStatus{Status: "unreachable", Message: err.Error()}
		return c.Status(fiber.StatusServiceUnavailable).JSON(models.HealthResponse{
			Status:   "unavailable",
			Uptime:   uptime,
			Services: map[string]models.ServiceStatus{"store": storeStatus},
		})
	}

	return c.Status(fiber.StatusOK).JSON(models.HealthResponse{
		Status:   "ok",
		Uptime:   uptime,
		Services: map[string]models.ServiceStatus{"store": storeStatus},
	})
}
