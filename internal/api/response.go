package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/saadjs/fitquest/internal/service"
	"github.com/saadjs/fitquest/internal/tracker"
)

// Response is the envelope of every JSON reply.
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

// Fail maps tracker errors onto status codes. Anything unexpected is logged
// and reported as a bare 500.
func Fail(c *gin.Context, log *zap.Logger, err error) {
	var verr *tracker.ValidationError
	switch {
	case errors.As(err, &verr):
		BadRequest(c, verr.Error())
	case errors.Is(err, tracker.ErrNotFound):
		Error(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrStaleSnapshot):
		Error(c, http.StatusConflict, "Tracker state changed on disk, retry the request")
	default:
		log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		Error(c, http.StatusInternalServerError, "Internal server error")
	}
}
