package controllers

import (
	"net/http"

	"campus-governance-api/models"
	"campus-governance-api/services"
	"campus-governance-api/utils"

	"github.com/gin-gonic/gin"
)

type submitScoreRequest struct {
	CriteriaScores models.CriteriaScores `json:"criteria_scores"`
	TotalScore     *float64              `json:"total_score" binding:"required"`
	Feedback       string                `json:"feedback" binding:"max=5000"`
	IsDraft        bool                  `json:"is_draft"`
}

// PUT /api/v1/submissions/:id/score
func SubmitScore(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	judge, ok := requireActor(c)
	if !ok {
		return
	}

	var req submitScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return
	}

	score, err := services.NewScoringService(nil).SubmitScore(c.Request.Context(), judge, services.ScoreInput{
		SubmissionID: submissionID,
		Criteria:     req.CriteriaScores,
		TotalScore:   *req.TotalScore,
		Feedback:     utils.SanitizeInput(req.Feedback),
		IsDraft:      req.IsDraft,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	message := "Score submitted"
	if req.IsDraft {
		message = "Draft saved"
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "score": score})
}

// GET /api/v1/submissions/:id/score
func GetMyScore(c *gin.Context) {
	submissionID, ok := paramID(c, "id")
	if !ok {
		return
	}
	judge, ok := requireActor(c)
	if !ok {
		return
	}

	score, err := services.NewScoringService(nil).GetScore(c.Request.Context(), judge.UserID, submissionID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "score": score})
}
