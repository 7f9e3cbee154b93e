package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/response"
	"github.com/stemsi/academic-tracker/internal/service"
)

// SystemHandler serves liveness and readiness.
type SystemHandler struct {
	serviceName   string
	recordService *service.RecordService
	startTime     time.Time
	log           zerolog.Logger
}

func NewSystemHandler(serviceName string, recordService *service.RecordService, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		serviceName:   serviceName,
		recordService: recordService,
		startTime:     time.Now(),
		log:           log.With().Str("component", "system_handler").Logger(),
	}
}

// Root godoc
// GET /
func (h *SystemHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": h.serviceName + " running"})
}

// Test godoc
// GET /test
// Never touches the store.
func (h *SystemHandler) Test(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready godoc
// GET /ready
func (h *SystemHandler) Ready(c *gin.Context) {
	if err := h.recordService.Ping(c.Request.Context()); err != nil {
		h.log.Warn().Err(err).Msg("Readiness check failed")
		response.Fail(c, http.StatusServiceUnavailable, response.ErrStoreUnavailable)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"uptime": time.Since(h.startTime).Round(time.Second).String(),
	})
}
