package controllers

import (
	"net/http"

	"campus-governance-api/services"
	"campus-governance-api/utils"

	"github.com/gin-gonic/gin"
)

type createSubmissionRequest struct {
	Title      string `json:"title" binding:"required,max=255"`
	TeamName   string `json:"team_name" binding:"max=255"`
	ProjectURL string `json:"project_url" binding:"omitempty,url"`
}

// POST /api/v1/events/:id/submissions
func CreateSubmission(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req createSubmissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	submission, err := services.NewSubmissionService(nil).CreateSubmission(c.Request.Context(), actor, eventID, services.CreateSubmissionInput{
		Title:      utils.SanitizeInput(req.Title),
		TeamName:   utils.SanitizeInput(req.TeamName),
		ProjectURL: req.ProjectURL,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "submission": submission})
}
