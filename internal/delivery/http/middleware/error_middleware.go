package middleware

import (
	"errors"
	"net/http"

	"go-jobmatch-backend/internal/delivery/http/response"
	"go-jobmatch-backend/pkg/apperror"
	"go-jobmatch-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// errorBody is the machine-readable part of an error response.
type errorBody struct {
	Kind   apperror.Kind `json:"kind"`
	Reason string        `json:"reason,omitempty"`
}

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Kind == apperror.KindInternal || appErr.Kind == apperror.KindStoreUnavailable {
				// Log the wrapped cause server-side only; clients never see
				// storage error details.
				logger.Log.Error("request failed", "kind", appErr.Kind, "error", appErr.Err)
			}
			response.Error(c, appErr.Code, appErr.Message, errorBody{Kind: appErr.Kind, Reason: appErr.Reason})
			return
		}

		logger.Log.Error("unhandled error", "error", err)
		response.Error(c, http.StatusInternalServerError,
			"An unexpected error occurred. Please try again later.", nil)
	}
}
