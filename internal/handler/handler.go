package handler

import (
	"expoflow/internal/middleware"
	"expoflow/internal/model"
	"expoflow/pkg/apperror"
	"expoflow/pkg/response"

	"github.com/gin-gonic/gin"
)

func currentActor(c *gin.Context) *model.Actor {
	return middleware.CurrentActor(c)
}

// respondError writes err using the apperror kind to pick the status.
func respondError(c *gin.Context, err error) {
	status, body := response.FromError(err)
	c.JSON(status, body)
}

// bindJSON binds the body into req and answers 400 on failure.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondError(c, apperror.Validation("Invalid request payload: %v", err))
		return false
	}
	return true
}
