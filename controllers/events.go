package controllers

import (
	"net/http"

	"campus-governance-api/models"
	"campus-governance-api/services"
	"campus-governance-api/utils"

	"github.com/gin-gonic/gin"
)

type createEventRequest struct {
	Title     string `json:"title" binding:"required,max=255"`
	Kind      string `json:"kind" binding:"omitempty,oneof=event hackathon"`
	CollegeID *int   `json:"college_id"`
}

// POST /api/v1/events
func CreateEvent(c *gin.Context) {
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	var req createEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	event, err := services.NewWorkflowService(nil).CreateEvent(c.Request.Context(), actor, services.CreateEventInput{
		Title:     utils.SanitizeInput(req.Title),
		Kind:      req.Kind,
		CollegeID: req.CollegeID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"success": true, "event": event})
}

// GET /api/v1/events/:id
func GetEvent(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}

	event, err := services.NewWorkflowService(nil).GetEvent(c.Request.Context(), eventID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "event": event})
}

type eventTransitionFunc func(svc *services.WorkflowService, c *gin.Context, eventID int, actor services.Actor, comment string) (*models.Event, error)

func handleEventTransition(message string, apply eventTransitionFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
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

		event, err := apply(services.NewWorkflowService(nil), c, eventID, actor, utils.SanitizeInput(comment))
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": message,
			"status":  event.Status,
			"event":   event,
		})
	}
}

// POST /api/v1/events/:id/submit
var SubmitEventForApproval = handleEventTransition("Event submitted for approval",
	func(svc *services.WorkflowService, c *gin.Context, eventID int, actor services.Actor, _ string) (*models.Event, error) {
		return svc.SubmitForApproval(c.Request.Context(), eventID, actor)
	})

// POST /api/v1/events/:id/approve
var ApproveEvent = handleEventTransition("Event approved",
	func(svc *services.WorkflowService, c *gin.Context, eventID int, actor services.Actor, comment string) (*models.Event, error) {
		return svc.Approve(c.Request.Context(), eventID, actor, comment)
	})

// POST /api/v1/events/:id/return
var ReturnEventToDraft = handleEventTransition("Event returned to organizer",
	func(svc *services.WorkflowService, c *gin.Context, eventID int, actor services.Actor, comment string) (*models.Event, error) {
		return svc.ReturnToDraft(c.Request.Context(), eventID, actor, comment)
	})

// POST /api/v1/events/:id/complete
var CompleteEvent = handleEventTransition("Event completed",
	func(svc *services.WorkflowService, c *gin.Context, eventID int, actor services.Actor, comment string) (*models.Event, error) {
		return svc.Complete(c.Request.Context(), eventID, actor, comment)
	})

// GET /api/v1/events/:id/governance-log
func GetEventGovernanceLog(c *gin.Context) {
	eventID, ok := paramID(c, "id")
	if !ok {
		return
	}
	actor, ok := requireActor(c)
	if !ok {
		return
	}

	entries, err := services.NewGovernanceLogService(nil).AuditTrail(c.Request.Context(), eventID, actor)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "entries": entries, "total": len(entries)})
}
