package api

import (
	"coachhub/coaching-app/internal/domain" // Needed for RoleMiddleware
	"coachhub/coaching-app/internal/service"
	"net/http"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	coachService service.CoachService,
	clientService service.ClientService,
	lessonService service.LessonService,
	calendarService service.CalendarService,
) {

	authHandler := NewAuthHandler(authService)
	coachHandler := NewCoachHandler(coachService, lessonService)
	calendarHandler := NewCalendarHandler(calendarService, clientService, lessonService)

	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Lesson status (both roles; ownership checked in the service) ---
		protected.PATCH("/lessons/:lessonId/status", calendarHandler.UpdateLessonStatus)

		// --- Coach Specific Routes ---
		coachGroup := protected.Group("/coach")
		coachGroup.Use(RoleMiddleware(domain.RoleCoach))
		{
			// Roster
			coachGroup.POST("/clients", coachHandler.AddClientByEmail)
			coachGroup.GET("/clients", coachHandler.GetManagedClients)

			// Assignments
			coachGroup.POST("/clients/:clientId/programs", coachHandler.AssignProgram)
			coachGroup.POST("/clients/:clientId/routines", coachHandler.AssignRoutine)
			coachGroup.POST("/clients/:clientId/videos", coachHandler.AssignVideo)

			// Lessons
			coachGroup.POST("/lessons/recurring", coachHandler.ScheduleRecurring)
			coachGroup.POST("/assignments/:assignmentId/replace", coachHandler.ReplaceProgramDay)

			// Video library
			coachGroup.POST("/videos/upload-url", coachHandler.RequestVideoUploadURL)
			coachGroup.POST("/videos", coachHandler.AddVideoToLibrary)
			coachGroup.DELETE("/videos/:videoId", coachHandler.DeleteVideo)
		}

		// --- Client Specific Routes ---
		clientGroup := protected.Group("/client")
		clientGroup.Use(RoleMiddleware(domain.RoleClient))
		{
			clientGroup.GET("/calendar/:date", calendarHandler.GetDayView)
			clientGroup.GET("/compliance", calendarHandler.GetCompliance)
			clientGroup.GET("/lessons/feed.ics", calendarHandler.LessonFeed)
			clientGroup.POST("/completions", calendarHandler.CompleteProgramDay)
			clientGroup.GET("/videos", calendarHandler.GetAssignedVideos)
			clientGroup.GET("/videos/:assignmentId/download-url", calendarHandler.GetVideoDownloadURL)
		}
	}
}
