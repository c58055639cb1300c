package handler

import (
	"errors"
	"net/http"

	"github.com/rpjengaard/bluebridge-volunteer-2025/internal/service"

	"github.com/gin-gonic/gin"
)

// fail 工作流错误翻译成 HTTP 状态码 + 可展示文案
func fail(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"msg": service.MsgFor(err)})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrJobNotFound),
		errors.Is(err, service.ErrApplicationNotFound),
		errors.Is(err, service.ErrMemberNotFound),
		errors.Is(err, service.ErrReviewerNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrJobClosed),
		errors.Is(err, service.ErrNoCapacity),
		errors.Is(err, service.ErrDuplicateApplication),
		errors.Is(err, service.ErrConcurrentUpdate):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
