package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/academic-tracker/internal/metrics"
	"github.com/stemsi/academic-tracker/internal/model"
	"github.com/stemsi/academic-tracker/internal/repository"
	"github.com/stemsi/academic-tracker/internal/response"
	"github.com/stemsi/academic-tracker/internal/service"
)

// HeaderStoreStatus tells clients whether a read reflects the store
// ("ok") or is an empty fallback ("unavailable", "error").
const HeaderStoreStatus = "X-Store-Status"

// RecordHandler serves the read endpoints. Reads never fail: any store
// error is answered with the same empty shape as "no data yet".
type RecordHandler struct {
	recordService *service.RecordService
	log           zerolog.Logger
}

func NewRecordHandler(recordService *service.RecordService, log zerolog.Logger) *RecordHandler {
	return &RecordHandler{
		recordService: recordService,
		log:           log.With().Str("component", "record_handler").Logger(),
	}
}

// GetAttendance godoc
// GET /attendance
func (h *RecordHandler) GetAttendance(c *gin.Context) {
	records, err := h.recordService.ListAttendance(c.Request.Context())
	if err != nil {
		h.degrade(c, model.CollectionAttendance, err)
		c.JSON(http.StatusOK, []model.Attendance{})
		return
	}
	c.Header(HeaderStoreStatus, metrics.OutcomeOK)
	c.JSON(http.StatusOK, records)
}

// GetMarks godoc
// GET /marks
func (h *RecordHandler) GetMarks(c *gin.Context) {
	records, err := h.recordService.ListMarks(c.Request.Context())
	if err != nil {
		h.degrade(c, model.CollectionMarks, err)
		c.JSON(http.StatusOK, []model.Marks{})
		return
	}
	c.Header(HeaderStoreStatus, metrics.OutcomeOK)
	c.JSON(http.StatusOK, records)
}

// GetTimetable godoc
// GET /timetable
func (h *RecordHandler) GetTimetable(c *gin.Context) {
	tt, err := h.recordService.CurrentTimetable(c.Request.Context())
	if err != nil {
		h.degrade(c, model.CollectionTimetable, err)
		c.JSON(http.StatusOK, model.EmptyTimetable())
		return
	}
	c.Header(HeaderStoreStatus, metrics.OutcomeOK)
	if tt == nil {
		c.JSON(http.StatusOK, model.EmptyTimetable())
		return
	}
	c.JSON(http.StatusOK, tt)
}

// GetUser godoc
// GET /user
func (h *RecordHandler) GetUser(c *gin.Context) {
	user, err := h.recordService.CurrentUser(c.Request.Context())
	if err != nil {
		h.degrade(c, model.CollectionUser, err)
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.Header(HeaderStoreStatus, metrics.OutcomeOK)
	if user == nil {
		c.JSON(http.StatusOK, gin.H{})
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *RecordHandler) degrade(c *gin.Context, collection string, err error) {
	reason := metrics.OutcomeError
	if errors.Is(err, repository.ErrStoreUnavailable) {
		reason = metrics.OutcomeUnavailable
	}
	c.Header(HeaderStoreStatus, reason)
	metrics.ObserveDegradedRead(collection, reason)
	h.log.Warn().Err(err).
		Str("collection", collection).
		Str("reason", reason).
		Str("request_id", response.RequestID(c)).
		Msg("Serving empty result")
}
