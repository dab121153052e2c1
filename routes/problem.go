package routes

import (
	"hanbridge/controllers"

	"github.com/gin-gonic/gin"
)

// SetupProblemRoutes sets up the problem generation and listing routes
func SetupProblemRoutes(router *gin.RouterGroup) {
	problems := router.Group("/problems")
	{
		problems.POST("/generate", controllers.GenerateProblems)
		problems.GET("", controllers.ListProblems)
	}
}
