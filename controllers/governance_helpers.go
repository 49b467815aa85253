package controllers

import (
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"

	"campus-governance-api/middleware"
	"campus-governance-api/services"

	"github.com/gin-gonic/gin"
)

// respondError maps service failures to HTTP statuses.
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, services.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, services.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, services.ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, services.ErrValidation):
		status = http.StatusUnprocessableEntity
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		log.Printf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
		message = "Internal server error"
	}
	c.JSON(status, gin.H{"success": false, "error": message})
}

func paramID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid " + name})
		return 0, false
	}
	return id, true
}

func requireActor(c *gin.Context) (services.Actor, bool) {
	actor, ok := middleware.CurrentActor(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "User context missing"})
		return services.Actor{}, false
	}
	return actor, true
}

type commentRequest struct {
	Comment string `json:"comment" binding:"max=2000"`
}

// bindOptionalComment accepts an empty body.
func bindOptionalComment(c *gin.Context) (string, bool) {
	var req commentRequest
	if c.Request.ContentLength == 0 {
		return "", true
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return "", true
		}
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request body"})
		return "", false
	}
	return req.Comment, true
}
