package controllers

import (
	"net/http"

	"campus-governance-api/services"
	"campus-governance-api/utils"

	"github.com/gin-gonic/gin"
)

// POST /api/v1/events/:id/lock
func LockScores(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}
	comment, ok := bindOptionalComment(c)
	if !ok {
		return
	}

	lock, err := services.NewScoreLockService(nil, nil).Lock(c.Request.Context(), eventID, actor, utils.SanitizeInput(comment))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Scores locked; certificate generation requested",
		"lock":    lock,
	})
}

// GET /api/v1/events/:id/lock
func GetScoreLock(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}

	lock, err := services.NewScoreLockService(nil, nil).GetLock(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"locked":  lock != nil && lock.Locked,
		"lock":    lock,
	})
}

// GET /api/v1/events/:id/leaderboard
func GetLeaderboard(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}

	entries, err := services.NewLeaderboardService(nil).GetLeaderboard(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "leaderboard": entries, "total": len(entries)})
}
