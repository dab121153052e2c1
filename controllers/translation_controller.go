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

type submitExchangeRequest struct {
	ProblemID  string            `json:"problemId" binding:"required"`
	Korean     string            `json:"korean" binding:"required"`
	Chinese    string            `json:"chinese" binding:"required"`
	UserKoToZh string            `json:"userKoToZh"`
	UserZhToKo string            `json:"userZhToKo"`
	Difficulty models.Difficulty `json:"difficulty"`
	Field      string            `json:"field"`
	TimeSpent  int               `json:"timeSpent"`
}

type feedbackRequest struct {
	ProblemID       string                      `json:"problemId"`
	OriginalText    string                      `json:"originalText" binding:"required"`
	UserTranslation string                      `json:"userTranslation" binding:"required"`
	Direction       models.TranslationDirection `json:"direction" binding:"required"`
}

type improvementRequest struct {
	Original  string `json:"original"`
	Improved  string `json:"improved"`
	Reference string `json:"reference" binding:"required"`
}

// SubmitExchange scores both halves of a completed round trip and records
// the exchange in the user's sequence.
func SubmitExchange(ctx *gin.Context) {
	email := ctx.GetString("userEmail")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request submitExchangeRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	exchange := models.Exchange{
		Email:       email,
		ProblemID:   request.ProblemID,
		Korean:      request.Korean,
		Chinese:     request.Chinese,
		UserKoToZh:  request.UserKoToZh,
		UserZhToKo:  request.UserZhToKo,
		KoToZhScore: services.Score(request.UserKoToZh, request.Chinese, request.Difficulty),
		ZhToKoScore: services.Score(request.UserZhToKo, request.Korean, request.Difficulty),
		Difficulty:  request.Difficulty,
		Field:       request.Field,
		CompletedAt: time.Now(),
		TimeSpent:   request.TimeSpent,
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.SaveExchange(dbCtx, exchange); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save exchange"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"koToZhScore": exchange.KoToZhScore,
		"zhToKoScore": exchange.ZhToKoScore,
		"exchange":    exchange,
	})
}

// GetFeedback requests an AI critique of one translation attempt. The
// response is always a complete feedback record, recovered or defaulted
// when the model output is damaged.
func GetFeedback(ctx *gin.Context) {
	email := ctx.GetString("userEmail")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var request feedbackRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}
	if request.Direction != models.DirectionKoToZh && request.Direction != models.DirectionZhToKo {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid direction"})
		return
	}

	limiter := ratelimit.NewLimiter()
	if limiter.Available() {
		allowed, err := limiter.CheckFeedback(email)
		if err != nil {
			log.Printf("Rate limit check failed: %v", err)
		} else if !allowed {
			ctx.JSON(http.StatusTooManyRequests, gin.H{"error": "Feedback limit reached, try again later"})
			return
		}
	}

	feedback := services.GetAIFeedback(ctx.Request.Context(), request.OriginalText, request.UserTranslation, request.Direction)

	if limiter.Available() {
		if err := limiter.RecordFeedback(email); err != nil {
			log.Printf("Failed to record feedback call: %v", err)
		}
	}

	doc := models.FeedbackDocument{
		Email:           email,
		ProblemID:       request.ProblemID,
		OriginalText:    request.OriginalText,
		UserTranslation: request.UserTranslation,
		Direction:       request.Direction,
		Feedback:        feedback,
		CreatedAt:       time.Now(),
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := db.SaveFeedback(dbCtx, doc); err != nil {
		// The critique is still useful without the record.
		log.Printf("Failed to persist feedback: %v", err)
	}

	ctx.JSON(http.StatusOK, feedback)
}

// AnalyzeImprovement compares a revised attempt against the original one.
func AnalyzeImprovement(ctx *gin.Context) {
	var request improvementRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input", "message": err.Error()})
		return
	}

	result := services.AnalyzeImprovement(request.Original, request.Improved, request.Reference)
	ctx.JSON(http.StatusOK, result)
}

// GetStats aggregates the user's full exchange sequence into session
// statistics.
func GetStats(ctx *gin.Context) {
	email := ctx.GetString("userEmail")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exchanges, err := db.ListExchanges(dbCtx, email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching exchanges"})
		return
	}

	ctx.JSON(http.StatusOK, services.AggregateSession(exchanges))
}

// GetHistory returns the user's exchanges in completion order.
func GetHistory(ctx *gin.Context) {
	email := ctx.GetString("userEmail")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exchanges, err := db.ListExchanges(dbCtx, email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching exchanges"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"exchanges": exchanges})
}
