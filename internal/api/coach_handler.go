package api

import (
	"coachhub/coaching-app/internal/domain"
	"coachhub/coaching-app/internal/schedule"
	"coachhub/coaching-app/internal/service"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CoachHandler holds the coach-side service dependencies.
type CoachHandler struct {
	coachService  service.CoachService
	lessonService service.LessonService
}

// NewCoachHandler creates a new CoachHandler.
func NewCoachHandler(coachService service.CoachService, lessonService service.LessonService) *CoachHandler {
	return &CoachHandler{coachService: coachService, lessonService: lessonService}
}

// --- Request/Response Structs ---

type AddClientRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type AssignProgramRequest struct {
	ProgramID     string               `json:"programId" binding:"required"`
	Name          string               `json:"name" binding:"required"`
	StartDate     string               `json:"startDate" binding:"required"` // "2006-01-02", local
	DurationWeeks int                  `json:"durationWeeks" binding:"required,min=1"`
	Weeks         []domain.ProgramWeek `json:"weeks"`
}

type AssignRoutineRequest struct {
	RoutineID string `json:"routineId" binding:"required"`
	Name      string `json:"name" binding:"required"`
	StartDate string `json:"startDate" binding:"required"`
}

type AssignVideoRequest struct {
	VideoID string `json:"videoId" binding:"required"`
	DueDate string `json:"dueDate"` // Optional; empty means no calendar marker
}

type UploadURLRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type AddVideoRequest struct {
	Title       string `json:"title" binding:"required"`
	ObjectKey   string `json:"objectKey" binding:"required"`
	ContentType string `json:"contentType"`
	Size        int64  `json:"size"`
}

type ScheduleRecurringRequest struct {
	ClientID  string `json:"clientId" binding:"required"`
	StartDate string `json:"startDate" binding:"required"` // "2006-01-02", local
	EndDate   string `json:"endDate" binding:"required"`   // "2006-01-02", local
	TimeOfDay string `json:"timeOfDay" binding:"required"` // "15:04", local
	Timezone  string `json:"timezone" binding:"required"`  // IANA zone name
	Cadence   string `json:"cadence" binding:"required,oneof=weekly biweekly triweekly monthly"`
	Interval  int    `json:"interval" binding:"required,min=1"`
	Notes     string `json:"notes"`
}

type ReplaceProgramDayRequest struct {
	Date      string `json:"date" binding:"required"`      // "2006-01-02", local
	TimeOfDay string `json:"timeOfDay" binding:"required"` // "15:04", local
	Timezone  string `json:"timezone" binding:"required"`
}

// SkippedSlotResponse reports one recurrence date that was not scheduled.
type SkippedSlotResponse struct {
	Date   string `json:"date"`
	Reason string `json:"reason"`
}

type ScheduleRecurringResponse struct {
	Created []domain.LessonEvent  `json:"created"`
	Skipped []SkippedSlotResponse `json:"skipped"`
}

// --- Handler Methods ---

// AddClientByEmail links an existing client account to the coach's roster.
// POST /api/v1/coach/clients
func (h *CoachHandler) AddClientByEmail(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	var req AddClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	client, err := h.coachService.AddClientByEmail(c.Request.Context(), coachID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrUserNotClient), errors.Is(err, service.ErrClientAlreadyTaken):
			abortWithError(c, http.StatusConflict, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to add client")
		}
		return
	}

	c.JSON(http.StatusOK, MapUserToResponse(client))
}

// GetManagedClients lists the coach's roster.
// GET /api/v1/coach/clients
func (h *CoachHandler) GetManagedClients(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	clients, err := h.coachService.GetManagedClients(c.Request.Context(), coachID)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to fetch clients")
		return
	}

	resp := make([]UserResponse, len(clients))
	for i := range clients {
		resp[i] = MapUserToResponse(&clients[i])
	}
	c.JSON(http.StatusOK, resp)
}

// AssignProgram creates a multi-week program assignment for a client.
// POST /api/v1/coach/clients/:clientId/programs
func (h *CoachHandler) AssignProgram(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var req AssignProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	programID, err := primitive.ObjectIDFromHex(req.ProgramID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid program ID format")
		return
	}

	assignment, err := h.coachService.AssignProgram(c.Request.Context(), coachID, clientID, service.AssignProgramParams{
		ProgramID:     programID,
		Name:          req.Name,
		StartDate:     req.StartDate,
		DurationWeeks: req.DurationWeeks,
		Weeks:         req.Weeks,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidProgramGrid), errors.Is(err, schedule.ErrInvalidLocalDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign program")
		}
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// AssignRoutine attaches a single-day routine marker to a client.
// POST /api/v1/coach/clients/:clientId/routines
func (h *CoachHandler) AssignRoutine(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var req AssignRoutineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid routine ID format")
		return
	}

	assignment, err := h.coachService.AssignRoutine(c.Request.Context(), coachID, clientID, routineID, req.Name, req.StartDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, schedule.ErrInvalidLocalDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign routine")
		}
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// AssignVideo asks a client to watch a library video.
// POST /api/v1/coach/clients/:clientId/videos
func (h *CoachHandler) AssignVideo(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}
	clientID, err := primitive.ObjectIDFromHex(c.Param("clientId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	var req AssignVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	videoID, err := primitive.ObjectIDFromHex(req.VideoID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid video ID format")
		return
	}

	assignment, err := h.coachService.AssignVideo(c.Request.Context(), coachID, clientID, videoID, req.DueDate)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotManaged), errors.Is(err, service.ErrVideoAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrVideoNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, schedule.ErrInvalidLocalDate):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to assign video")
		}
		return
	}

	c.JSON(http.StatusCreated, assignment)
}

// RequestVideoUploadURL issues a presigned PUT URL for a new library video.
// POST /api/v1/coach/videos/upload-url
func (h *CoachHandler) RequestVideoUploadURL(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	var req UploadURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	result, err := h.coachService.RequestVideoUploadURL(c.Request.Context(), coachID, req.ContentType)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}
	c.JSON(http.StatusOK, result)
}

// AddVideoToLibrary registers an uploaded object as a library video.
// POST /api/v1/coach/videos
func (h *CoachHandler) AddVideoToLibrary(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	var req AddVideoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	video, err := h.coachService.AddVideoToLibrary(c.Request.Context(), coachID, req.Title, req.ObjectKey, req.ContentType, req.Size)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to register video")
		return
	}
	c.JSON(http.StatusCreated, video)
}

// DeleteVideo removes a library video and its stored object.
// DELETE /api/v1/coach/videos/:videoId
func (h *CoachHandler) DeleteVideo(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}
	videoID, err := primitive.ObjectIDFromHex(c.Param("videoId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid video ID format")
		return
	}

	if err := h.coachService.DeleteVideoFromLibrary(c.Request.Context(), coachID, videoID); err != nil {
		switch {
		case errors.Is(err, service.ErrVideoNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrVideoAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to delete video")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// ScheduleRecurring creates a batch of recurring lessons for a client.
// Partial success is normal: dates the engine rejects come back in "skipped".
// POST /api/v1/coach/lessons/recurring
func (h *CoachHandler) ScheduleRecurring(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}

	var req ScheduleRecurringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	clientID, err := primitive.ObjectIDFromHex(req.ClientID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid client ID format")
		return
	}

	result, err := h.lessonService.ScheduleRecurring(c.Request.Context(), coachID, clientID, service.RecurringLessonParams{
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
		TimeOfDay: req.TimeOfDay,
		Timezone:  req.Timezone,
		Cadence:   schedule.Cadence(req.Cadence),
		Interval:  req.Interval,
		Notes:     req.Notes,
	}, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClientNotManaged):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidTimezone),
			errors.Is(err, service.ErrHorizonExceeded),
			errors.Is(err, schedule.ErrInvalidRecurrence),
			errors.Is(err, schedule.ErrInvalidLocalDate),
			errors.Is(err, schedule.ErrInvalidTimeOfDay):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to schedule lessons")
		}
		return
	}

	c.JSON(http.StatusCreated, mapRecurringResult(result))
}

// ReplaceProgramDay substitutes a coached lesson for one program day.
// POST /api/v1/coach/assignments/:assignmentId/replace
func (h *CoachHandler) ReplaceProgramDay(c *gin.Context) {
	coachID, err := getUserObjectIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to identify coach")
		return
	}
	assignmentID, err := primitive.ObjectIDFromHex(c.Param("assignmentId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid assignment ID format")
		return
	}

	var req ReplaceProgramDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	lesson, err := h.lessonService.ReplaceProgramDay(c.Request.Context(), coachID, assignmentID, req.Date, req.TimeOfDay, req.Timezone, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAssignmentNotFound):
			abortWithError(c, http.StatusNotFound, err.Error())
		case errors.Is(err, service.ErrAssignmentAccessDenied):
			abortWithError(c, http.StatusForbidden, err.Error())
		case errors.Is(err, service.ErrInvalidTimezone),
			errors.Is(err, schedule.ErrInvalidLocalDate),
			errors.Is(err, schedule.ErrInvalidTimeOfDay),
			errors.Is(err, schedule.ErrPastInstant),
			errors.Is(err, schedule.ErrNonexistentLocalTime):
			abortWithError(c, http.StatusBadRequest, err.Error())
		default:
			abortWithError(c, http.StatusInternalServerError, "Failed to replace program day")
		}
		return
	}

	c.JSON(http.StatusCreated, lesson)
}

func mapRecurringResult(result *service.RecurringLessonResult) ScheduleRecurringResponse {
	resp := ScheduleRecurringResponse{
		Created: result.Created,
		Skipped: make([]SkippedSlotResponse, len(result.Skipped)),
	}
	if resp.Created == nil {
		resp.Created = []domain.LessonEvent{}
	}
	for i, s := range result.Skipped {
		resp.Skipped[i] = SkippedSlotResponse{Date: s.Date.String(), Reason: s.Reason.Error()}
	}
	return resp
}
