package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tictacroom/internal/api/middleware"
	"tictacroom/internal/api/response"
	"tictacroom/internal/history"
)

// HistoryController serves a user's finished-game records.
type HistoryController struct {
	recorder *history.Recorder
}

// NewHistoryController creates a new HistoryController.
func NewHistoryController(recorder *history.Recorder) *HistoryController {
	return &HistoryController{
		recorder: recorder,
	}
}

// History returns the authenticated user's past games, oldest first.
func (hc *HistoryController) History(c *gin.Context) {
	username := c.GetString(middleware.UsernameKey)

	records, err := hc.recorder.Read(c.Request.Context(), username)
	if err != nil {
		response.ErrorResponse(c, http.StatusInternalServerError, "error fetching history")
		return
	}

	response.SuccessResponse(c, gin.H{"games": records})
}
