package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cliqueup/cliqueup/internal/app/controllers"
)

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	eventController *controllers.EventController,
) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// API version group
	v1 := router.Group("/api/v1")

	events := v1.Group("/events")
	{
		events.POST("", eventController.CreateEvent)
		events.GET("/search", eventController.SearchEvents)
		events.GET("/:id", eventController.GetEvent)
		events.POST("/:id/join", eventController.JoinEvent)
		events.POST("/:id/messages", eventController.PostMessage)
		events.GET("/:id/messages", eventController.ListMessages)
		events.POST("/:id/open", eventController.OpenEvent)
		events.POST("/:id/close", eventController.CloseEvent)
	}

	v1.GET("/geocode", eventController.ResolveLocation)
}
