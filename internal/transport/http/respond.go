package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/HughSean/MiniProgram-Backend/internal/domain"
)

// Response envelope kept from the original API: code 0 means success,
// anything else is an error with a human-readable msg.

func ok(c *gin.Context, status int, msg string, data any) {
	if data == nil {
		c.JSON(status, gin.H{"code": 0, "msg": msg})
		return
	}
	c.JSON(status, gin.H{"code": 0, "msg": msg, "data": data})
}

func fail(c *gin.Context, err error) {
	if e, isDomain := err.(*domain.Error); isDomain {
		c.JSON(kindToHTTP(e.Kind), gin.H{"code": e.Code, "msg": e.Message})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"code": -1, "msg": "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"code": -1, "msg": msg})
}

func kindToHTTP(k domain.ErrKind) int {
	switch k {
	case domain.KindInvalidInterval, domain.KindInvalidResource:
		return http.StatusBadRequest
	case domain.KindConflict:
		return http.StatusConflict
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindNotFound:
		return http.StatusNotFound
	case domain.KindUnauthorized:
		return http.StatusUnauthorized
	case domain.KindStorage:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
