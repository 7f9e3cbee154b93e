package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/model"
	"github.com/stemsi/academic-tracker/internal/response"
	"github.com/stemsi/academic-tracker/internal/service"
	"github.com/stemsi/academic-tracker/internal/validator"
)

// SeedHandler serves the bulk insert endpoints.
type SeedHandler struct {
	recordService *service.RecordService
	log           zerolog.Logger
}

func NewSeedHandler(recordService *service.RecordService, log zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		recordService: recordService,
		log:           log.With().Str("component", "seed_handler").Logger(),
	}
}

// SeedAttendance godoc
// POST /seed/attendance
func (h *SeedHandler) SeedAttendance(c *gin.Context) {
	var req model.SeedAttendanceRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.recordService.SeedAttendance(c.Request.Context(), req.Records())
	h.respond(c, n, err)
}

// SeedMarks godoc
// POST /seed/marks
func (h *SeedHandler) SeedMarks(c *gin.Context) {
	var req model.SeedMarksRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.recordService.SeedMarks(c.Request.Context(), req.Records())
	h.respond(c, n, err)
}

// SeedTimetable godoc
// POST /seed/timetable
func (h *SeedHandler) SeedTimetable(c *gin.Context) {
	var req model.SeedTimetableRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.recordService.SeedTimetable(c.Request.Context(), req.Record())
	h.respond(c, n, err)
}

// SeedUser godoc
// POST /seed/user
func (h *SeedHandler) SeedUser(c *gin.Context) {
	var req model.SeedUserRequest
	if !bind(c, &req) {
		return
	}
	n, err := h.recordService.SeedUser(c.Request.Context(), req.Record())
	h.respond(c, n, err)
}

// Seed writes have no fallback: a store failure is a server fault.
func (h *SeedHandler) respond(c *gin.Context, inserted int, err error) {
	if err != nil {
		h.log.Error().Err(err).
			Str("request_id", response.RequestID(c)).
			Int("inserted", inserted).
			Msg("Seed failed")
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}
	c.JSON(http.StatusOK, gin.H{"inserted": inserted})
}

// bind writes the rejection itself and reports whether the handler may go on.
func bind(c *gin.Context, dst interface{}) bool {
	bindErr := validator.Bind(c, dst)
	if bindErr == nil {
		return true
	}
	if bindErr.Malformed {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload, bindErr.Fields)
		return false
	}
	response.FailWithFields(c, http.StatusUnprocessableEntity, response.ErrValidation, bindErr.Fields)
	return false
}
