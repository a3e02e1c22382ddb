// Package health exposes liveness and readiness endpoints.
package health

import (
	"net/http"

	"github.com/dropDatabas3/dartsstats/internal/http/helpers"
	svc "github.com/dropDatabas3/dartsstats/internal/http/services/health"
)

// Controller handles health endpoints.
type Controller struct {
	service *svc.Service
}

// New creates the health Controller.
func New(service *svc.Service) *Controller {
	return &Controller{service: service}
}

// Live handles GET /healthz. Process-level liveness only.
func (c *Controller) Live(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready handles GET /readyz. Probes every dependency; 503 on any failure.
func (c *Controller) Ready(w http.ResponseWriter, r *http.Request) {
	report := c.service.Check(r.Context())

	status := http.StatusOK
	if report.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	helpers.WriteJSON(w, status, report)
}
