package handler

import (
	"main/repository"
	"main/utils"

	"github.com/gin-gonic/gin"
)

// GetSessionsHandler lists the caller's recorded login sessions.
func GetSessionsHandler(c *gin.Context, sessionsRepo *repository.SessionsRepo) {
	userID := c.GetString("user_id")

	sessions, err := sessionsRepo.GetUserSessions(c.Request.Context(), userID)
	if err != nil {
		utils.InternalError(c, "Failed to fetch sessions")
		return
	}

	utils.Success(c, gin.H{"sessions": sessions})
}
