package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/andresuchdata/stockpulse/internal/domain"
	"github.com/andresuchdata/stockpulse/internal/metrics"
	"github.com/andresuchdata/stockpulse/internal/service"
	"github.com/gin-gonic/gin"
)

// InventoryHandler exposes the recompute trigger, the restock-alert view and
// the on-demand weekly report.
type InventoryHandler struct {
	engine  *metrics.Engine
	params  metrics.Params
	alerts  *service.AlertService
	reports *service.ReportService
}

func NewInventoryHandler(engine *metrics.Engine, params metrics.Params, alerts *service.AlertService, reports *service.ReportService) *InventoryHandler {
	return &InventoryHandler{
		engine:  engine,
		params:  params,
		alerts:  alerts,
		reports: reports,
	}
}

func (h *InventoryHandler) Recompute(c *gin.Context) {
	result, err := h.engine.Recompute(c.Request.Context(), h.params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to recompute inventory metrics", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *InventoryHandler) GetRestockAlerts(c *gin.Context) {
	velocity := strings.TrimSpace(c.Query("velocity"))

	alerts, err := h.alerts.RestockAlerts(c.Request.Context(), velocity)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidVelocity) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch restock alerts", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, alerts)
}

func (h *InventoryHandler) SendWeeklyReport(c *gin.Context) {
	if err := h.reports.RunWeekly(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to send weekly report", "details": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "weekly inventory report sent"})
}
