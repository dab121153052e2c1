package controllers

import (
	"context"
	"log"
	"net/http"
	"time"

	"hanbridge/db"
	"hanbridge/internal/ratelimit"
	"hanbridge/models"
	"hanbridge/services"

	"github.com/gin-gonic/gin"
)

const maxBatchSize = 5

type generateProblemRequest struct {
	Count        int               `json:"count"`
	Field        string            `json:"field"`
	Difficulty   models.Difficulty `json:"difficulty"`
	CustomPrompt string            `json:"customPrompt"`
}

// GenerateProblems produces fresh translation problems with the model
// chain and stores them for reuse.
func GenerateProblems(ctx *gin.Context) {
	email := ctx.GetString("userEmail")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request generateProblemRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	count := request.Count
	if count < 1 {
		count = 1
	}
	if count > maxBatchSize {
		count = maxBatchSize
	}
	difficulty := request.Difficulty
	if difficulty == "" {
		difficulty = models.DifficultyMid
	}

	limiter := ratelimit.NewLimiter()
	if limiter.Available() {
		allowed, err := limiter.CheckGeneration(email)
		if err != nil {
			log.Printf("Rate limit check failed: %v", err)
		} else if !allowed {
			ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Generation limit reached, try again later"})
			return
		}
	}

	problems := services.GenerateProblems(ctx.Request.Context(), count, request.Field, difficulty, request.CustomPrompt)

	if limiter.Available() {
		if err := limiter.RecordGeneration(email); err != nil {
			log.Printf("Failed to record generation call: %v", err)
		}
	}

	if len(problems) == 0 {
		ctx.JSON(http.StatusServiceUnavailable, gin.H{"error": "Problem generation failed, try the sample set"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.InsertProblems(dbCtx, problems); err != nil {
		log.Printf("Failed to persist generated problems: %v", err)
	}

	ctx.JSON(http.StatusOK, gin.H{"problems": problems})
}

// ListProblems returns stored problems, optionally filtered by difficulty
// via the query string.
func ListProblems(ctx *gin.Context) {
	difficulty := models.Difficulty(ctx.Query("difficulty"))

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	problems, err := db.ListProblems(dbCtx, difficulty, 50)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching problems"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"problems": problems})
}
