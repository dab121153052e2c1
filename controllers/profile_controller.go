package controllers

import (
	"context"
	"net/http"
	"time"

	"hanbridge/db"
	"hanbridge/models"
	"hanbridge/services"
	"hanbridge/utils"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProfile retrieves and returns user profile data together with a
// summary of their practice so far.
func GetProfile(ctx *gin.Context) {
	email := ctx.GetString("userEmail")

	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Fetch user profile
	var user models.User
	err := db.UsersCollection.FindOne(dbCtx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		} else {
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	// Set avatar URL with DiceBear fallback
	profileAvatarURL := user.AvatarURL
	if profileAvatarURL == "" {
		profileName := user.DisplayName
		if profileName == "" {
			profileName = utils.ExtractNameFromEmail(email)
		}
		profileAvatarURL = "https://api.dicebear.com/9.x/adventurer/svg?seed=" + profileName
	}

	exchanges, err := db.ListExchanges(dbCtx, email)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching practice history"})
		return
	}

	stats := services.AggregateSession(exchanges)

	// Most recent attempts first for the history panel
	recent := exchanges
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	history := make([]models.Exchange, 0, len(recent))
	for i := len(recent) - 1; i >= 0; i-- {
		history = append(history, recent[i])
	}

	response := gin.H{
		"profile": gin.H{
			"displayName": user.DisplayName,
			"email":       user.Email,
			"bio":         user.Bio,
			"avatarUrl":   profileAvatarURL,
		},
		"recentExchanges": history,
		"stats":           stats,
	}
	ctx.JSON(http.StatusOK, response)
}

// UpdateProfile modifies user display name and bio
func UpdateProfile(ctx *gin.Context) {
	email := ctx.GetString("userEmail")
	if email == "" {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Missing user email in context"})
		return
	}

	var updateData struct {
		DisplayName string `json:"displayName"`
		Bio         string `json:"bio"`
	}
	if err := ctx.ShouldBindJSON(&updateData); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	dbCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	filter := bson.M{"email": email}
	update := bson.M{"$set": bson.M{
		"displayName": updateData.DisplayName,
		"bio":         updateData.Bio,
	}}
	_, err := db.UsersCollection.UpdateOne(dbCtx, filter, update)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Profile updated successfully"})
}
