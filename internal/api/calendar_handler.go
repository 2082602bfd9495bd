package api

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/schedule"
	"coachhub/coaching-app/internal/service"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CalendarHandler serves the client-side calendar, compliance and lesson
// endpoints.
type CalendarHandler struct {
	calendarService service.CalendarService
	clientService   service.ClientService
	lessonService   service.LessonService
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(
	calendarService service.CalendarService,
	clientService service.ClientService,
	lessonService service.LessonService,
) *CalendarHandler {
	return &CalendarHandler{
		calendarService: calendarService,
		clientService:   clientService,
		lessonService:   lessonService,
	}
}

// --- Request/Response Structs ---

type UpdateLessonStatusRequest struct {
	Status domain.LessonStatus `json:"status" binding:"required,oneof=confirmed declined"`
}

type CompleteProgramDayRequest struct {
	AssignmentID string `json:"assignmentId" binding:"required"`
	Date         string `json:"date" binding:"required"` // "2006-01-02", local
}

type DownloadURLResponse struct {
	DownloadURL string `json:"downloadUrl"`
}

// --- Handler Methods ---

// GetDayView returns the composed calendar for one local date.
// GET /api/v1/client/calendar/:date?tz=America/New_York
func (h *CalendarHandler) GetDayView(c *gin.Context) {
	clientID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client")
		return
	}

	view, err := h.calendarService.GetDayView(c.Request.Context(), clientID, c.Param("date"), queryTimezone(c))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidTimezone), errors.Is(err, schedule.ErrInvalidLocalDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to compose calendar")
		}
		return
	}

	c.JSON(http.StatusOK, view)
}

// GetCompliance returns the rolling-window completion metric.
// GET /api/v1/client/compliance?weeks=4&tz=America/New_York
func (h *CalendarHandler) GetCompliance(c *gin.Context) {
	clientID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client")
		return
	}

	weeks, err := strconv.Atoi(c.DefaultQuery("weeks", "4"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid weeks parameter")
		return
	}

	window, err := h.calendarService.GetCompliance(c.Request.Context(), clientID, weeks, queryTimezone(c), time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidComplianceWindow), errors.Is(err, service.ErrInvalidTimezone):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to compute compliance")
		}
		return
	}

	c.JSON(http.StatusOK, window)
}

// LessonFeed serves the client's lessons as an iCalendar document.
// GET /api/v1/client/lessons/feed.ics
func (h *CalendarHandler) LessonFeed(c *gin.Context) {
	clientID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client")
		return
	}

	feed, err := h.calendarService.LessonFeed(c.Request.Context(), clientID, time.Now())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to build lesson feed")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="lessons.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(feed))
}

// CompleteProgramDay marks one program day done.
// POST /api/v1/client/completions
func (h *CalendarHandler) CompleteProgramDay(c *gin.Context) {
	clientID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client")
		return
	}

	var req CompleteProgramDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	assignmentID, err := primitive.ObjectIDFromHex(req.AssignmentID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	err = h.calendarService.CompleteProgramDay(c.Request.Context(), clientID, assignmentID, req.Date)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAssignmentAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, schedule.ErrInvalidLocalDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to record completion")
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// UpdateLessonStatus confirms or declines a lesson. Available to both roles;
// the service checks ownership.
// PATCH /api/v1/lessons/:lessonId/status
func (h *CalendarHandler) UpdateLessonStatus(c *gin.Context) {
	userID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user")
		return
	}
	role, err := getUserRoleFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify user role")
		return
	}
	lessonID, err := primitive.ObjectIDFromHex(c.Param("lessonId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid lesson ID format")
		return
	}

	var req UpdateLessonStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	lesson, err := h.lessonService.UpdateStatus(c.Request.Context(), userID, role, lessonID, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrLessonNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrLessonAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidStatusTransition):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to update lesson status")
		}
		return
	}

	c.JSON(http.StatusOK, lesson)
}

// GetAssignedVideos lists the client's video assignments.
// GET /api/v1/client/videos
func (h *CalendarHandler) GetAssignedVideos(c *gin.Context) {
	clientID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client")
		return
	}

	assignments, err := h.clientService.GetAssignedVideos(c.Request.Context(), clientID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch video assignments")
		return
	}
	if assignments == nil {
		assignments = []domain.VideoAssignment{}
	}
	c.JSON(http.StatusOK, assignments)
}

// GetVideoDownloadURL resolves a video assignment to a presigned GET URL.
// GET /api/v1/client/videos/:assignmentId/download-url
func (h *CalendarHandler) GetVideoDownloadURL(c *gin.Context) {
	clientID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify client")
		return
	}
	assignmentID, err := primitive.ObjectIDFromHex(c.Param("assignmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	url, err := h.clientService.GetVideoDownloadURL(c.Request.Context(), clientID, assignmentID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrVideoAssignmentNotFound), errors.Is(err, service.ErrVideoNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to generate download URL")
		}
		return
	}

	c.JSON(http.StatusOK, DownloadURLResponse{DownloadURL: url})
}

// queryTimezone returns the tz query parameter, defaulting to UTC.
func queryTimezone(c *gin.Context) string {
	return c.DefaultQuery("tz", "UTC")
}
