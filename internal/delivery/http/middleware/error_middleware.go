package middleware

import (
	"errors"

	"a4-contact-backend/internal/delivery/http/response"
	"a4-contact-backend/pkg/apperror"
	"a4-contact-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error attached with c.Error as the standard envelope.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if !errors.As(err, &appErr) {
			// Unknown errors never leak details to the client.
			appErr = apperror.Internal(err)
		}
		if appErr.Err != nil {
			logger.Log.Error("Request failed",
				"request_id", GetRequestID(c),
				"path", c.FullPath(),
				"status", appErr.Code,
				"error", appErr.Err,
			)
		}
		response.Error(c, appErr.Code, appErr.Message, appErr.Detail)
	}
}
