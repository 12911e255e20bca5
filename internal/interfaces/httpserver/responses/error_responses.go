package responses

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"assistant-server/internal/utils/platformerrors"
)

// ErrorResponse is the uniform error envelope.
type ErrorResponse struct {
	Error     string         `json:"error"`
	Details   map[string]any `json:"details,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
}

// HandleError serializes a domain error with its taxonomy status code.
func HandleError(reqCtx *gin.Context, err error, message string) {
	var platformErr *platformerrors.PlatformError
	if errors.As(err, &platformErr) {
		statusCode := platformerrors.ErrorTypeToHTTPStatus(platformErr.GetErrorType())

		errorMessage := platformErr.Message
		if errorMessage == "" {
			errorMessage = message
		}

		reqCtx.AbortWithStatusJSON(statusCode, ErrorResponse{
			Error:     errorMessage,
			Details:   platformErr.Details,
			RequestID: platformErr.GetRequestID(),
		})
		return
	}

	// Non-platform errors surface as internal with the original message
	// attached for diagnostics.
	details := map[string]any{}
	if err != nil {
		details["reason"] = err.Error()
	}
	reqCtx.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
		Error:   message,
		Details: details,
	})
}

// HandleNewError creates a typed error at the handler layer and serializes it.
func HandleNewError(reqCtx *gin.Context, errorType platformerrors.ErrorType, message string) {
	ctx := reqCtx.Request.Context()
	err := platformerrors.NewError(ctx, platformerrors.LayerHandler, errorType, message, nil)

	reqCtx.AbortWithStatusJSON(platformerrors.ErrorTypeToHTTPStatus(errorType), ErrorResponse{
		Error:     message,
		RequestID: err.GetRequestID(),
	})
}
