package websocket

import (
	"log"
	"net/http"

	"hanbridge/models"
	"hanbridge/services"
	"hanbridge/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var chatUpgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Keep the assistant prompt bounded on long sessions.
const maxChatHistory = 20

// chatRequest is one incoming message from the learner.
type chatRequest struct {
	Message string `json:"message"`
	Context string `json:"context,omitempty"` // current problem text, if any
	Step    string `json:"step,omitempty"`    // which half of the round trip
}

// chatResponse is the assistant's reply, or an error the client can show.
type chatResponse struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// ChatHandler runs the study-assistant conversation over a WebSocket.
// History lives on the connection; a reconnect starts a fresh thread.
func ChatHandler(c *gin.Context) {
	// Get token from query parameter
	token := c.Query("token")
	if token == "" {
		c.String(http.StatusUnauthorized, "No token provided")
		return
	}

	valid, email, err := utils.ValidateTokenAndFetchEmail(token)
	if err != nil || !valid || email == "" {
		c.String(http.StatusUnauthorized, "Invalid token")
		return
	}

	conn, err := chatUpgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("Error upgrading WebSocket:", err)
		return
	}
	defer conn.Close()

	log.Printf("Chat session started for %s", email)

	var history []models.ChatMessage
	for {
		var req chatRequest
		if err := conn.ReadJSON(&req); err != nil {
			if websocket.IsCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("Chat session closed for %s", email)
			} else {
				log.Printf("Error reading chat message from %s: %v", email, err)
			}
			return
		}

		if req.Message == "" {
			conn.WriteJSON(chatResponse{Type: "error", Error: "Empty message"})
			continue
		}

		reply, err := services.ChatReply(c.Request.Context(), req.Context, req.Step, history, req.Message)
		if err != nil {
			log.Printf("Chat reply failed for %s: %v", email, err)
			conn.WriteJSON(chatResponse{Type: "error", Error: "Assistant unavailable, try again"})
			continue
		}

		history = append(history,
			models.ChatMessage{Role: "user", Content: req.Message},
			models.ChatMessage{Role: "assistant", Content: reply},
		)
		if len(history) > maxChatHistory {
			history = history[len(history)-maxChatHistory:]
		}

		if err := conn.WriteJSON(chatResponse{Type: "message", Message: reply}); err != nil {
			log.Printf("Error writing chat reply to %s: %v", email, err)
			return
		}
	}
}
