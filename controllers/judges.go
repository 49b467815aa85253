package controllers

import (
	"net/http"

	"campus-governance-api/services"

	"github.com/gin-gonic/gin"
)

type assignJudgeRequest struct {
	JudgeID int `json:"judge_id" binding:"required,gt=0"`
}

// POST /api/v1/events/:id/judges
func AssignJudge(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req assignJudgeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "judge_id is required"})
		return
	}

	assignment, err := services.NewJudgeService(nil).AssignJudge(c.Request.Context(), eventID, req.JudgeID, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "assignment": assignment})
}

// GET /api/v1/events/:id/judges
func ListJudges(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}

	assignments, err := services.NewJudgeService(nil).ListAssignments(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "assignments": assignments, "total": len(assignments)})
}

// DELETE /api/v1/events/:id/judges/:judge_id
func UnassignJudge(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}
	judgeID, ok := paramID(c, "judge_id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	assignment, err := services.NewJudgeService(nil).UnassignJudge(c.Request.Context(), eventID, judgeID, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "assignment": assignment})
}
