package routes

import (
	"hanbridge/controllers"

	"github.com/gin-gonic/gin"
)

// SetupTranslationRoutes sets up the reverse-translation practice routes
func SetupTranslationRoutes(router *gin.RouterGroup) {
	translation := router.Group("/translation")
	{
		translation.POST("/submit", controllers.SubmitExchange)
		translation.POST("/feedback", controllers.GetFeedback)
		translation.POST("/improve", controllers.AnalyzeImprovement)
		translation.GET("/stats", controllers.GetStats)
		translation.GET("/history", controllers.GetHistory)
	}
}
