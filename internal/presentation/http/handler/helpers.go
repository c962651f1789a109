package handler

import (
	"github.com/LouisLibre/BorderPOS/internal/presentation/http/dto/response"
	"github.com/LouisLibre/BorderPOS/pkg/apperror"
	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body into req and writes a 400 when it does not fit.
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// errorWithData renders err and attaches data, keeping any details already set.
func errorWithData(c *gin.Context, err error, data interface{}) {
	appErr := apperror.GetAppError(err)
	if appErr.Details == nil && data != nil {
		appErr = appErr.WithDetails(data)
	}
	response.Error(c, appErr)
}
