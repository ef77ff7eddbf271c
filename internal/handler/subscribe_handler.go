package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/serpstrategist/site/internal/waitlist"
)

const defaultSubscribeSource = "website"

type subscribeRequest struct {
	Email  string `json:"email"`
	Source string `json:"source"`
}

// Subscribe adds an email to the waitlist. Duplicates are a 409, not a failure
// of the server.
func (a *API) Subscribe(c *gin.Context) {
	var req subscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Please provide a valid email address")
		return
	}

	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		respondError(c, http.StatusBadRequest, "Please provide a valid email address")
		return
	}

	source := strings.TrimSpace(req.Source)
	if source == "" {
		source = defaultSubscribeSource
	}

	result := a.waitlist.AddSubscriber(c.Request.Context(), email, waitlist.Metadata{
		Source:    source,
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	})
	if !result.Success {
		switch result.Code {
		case waitlist.CodeDuplicate:
			c.JSON(http.StatusConflict, gin.H{
				"error":             "This email is already on the waitlist",
				"alreadySubscribed": true,
			})
		default:
			respondError(c, http.StatusInternalServerError, "Failed to join waitlist. Please try again.")
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Successfully joined the waitlist!",
	})
}

// ListSubscribers returns every signup from the active backend.
func (a *API) ListSubscribers(c *gin.Context) {
	subscribers, err := a.waitlist.Subscribers(c.Request.Context())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to fetch subscribers")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subscribers": subscribers,
		"total":       len(subscribers),
		"backend":     a.waitlist.Backend(),
	})
}
