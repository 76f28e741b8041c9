package middleware

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/alumnet/internal/app/models/dto"
	"github.com/yigit/alumnet/internal/pkg/apperrors"
	"github.com/yigit/alumnet/internal/pkg/logger"
)

// HandleAPIError handles common API errors and returns appropriate responses
func HandleAPIError(c *gin.Context, err error) {
	HandleAPIErrorWithData(c, err, nil)
}

// HandleAPIErrorWithData responds with the error for err and, when data is
// non-nil, the state the client should render alongside it
func HandleAPIErrorWithData(c *gin.Context, err error, data interface{}) {
	status, detail := ErrorDetailFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error().Err(err).Str("path", c.FullPath()).Int("status", status).Msg("Request failed")
		if gin.Mode() != gin.ReleaseMode {
			detail.WithDebugInfo("%v", err)
		}
	}
	c.AbortWithStatusJSON(status, dto.APIResponse{
		Success:   false,
		Data:      data,
		Error:     detail,
		Timestamp: time.Now(),
	})
}

// ErrorDetailFor maps an application error to its HTTP status and error detail
func ErrorDetailFor(err error) (int, *dto.ErrorDetail) {
	switch {
	case errors.Is(err, apperrors.ErrNetworkOrServer):
		detail := dto.NewErrorDetail(dto.ErrorCodeExternalServiceError, "Upstream service unavailable, please try again").
			WithDetails(retryDetails(err, true))
		return http.StatusBadGateway, detail
	case errors.Is(err, apperrors.ErrValidation):
		return http.StatusBadRequest, dto.NewErrorDetail(dto.ErrorCodeValidationFailed, messageOr(err, "Validation failed")).
			WithSeverity(dto.ErrorSeverityWarning)
	case errors.Is(err, apperrors.ErrMessagingNotPermitted):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeMessagingNotPermitted, messageOr(err, "Messaging not permitted")).
			WithSeverity(dto.ErrorSeverityInfo).
			WithDetails(retryDetails(err, false))
	case errors.Is(err, apperrors.ErrNotFound):
		return http.StatusNotFound, dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, messageOr(err, "Resource not found"))
	case errors.Is(err, apperrors.ErrPermissionDenied):
		return http.StatusForbidden, dto.NewErrorDetail(dto.ErrorCodeForbidden, messageOr(err, "Permission denied"))
	case errors.Is(err, apperrors.ErrRequestInFlight):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeRequestInFlight, messageOr(err, "Request already in progress")).
			WithSeverity(dto.ErrorSeverityInfo)
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict, dto.NewErrorDetail(dto.ErrorCodeConflict, messageOr(err, "Conflict"))
	case errors.Is(err, apperrors.ErrTokenExpired):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")
	case errors.Is(err, apperrors.ErrTokenNotFound):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeTokenNotFound, "Authentication required")
	case apperrors.Is(err, apperrors.ErrTokenInvalid, apperrors.ErrInvalidFormat):
		return http.StatusUnauthorized, dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")
	case errors.Is(err, apperrors.ErrDatabase):
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Content store query failed").
			WithSeverity(dto.ErrorSeverityCritical)
	default:
		return http.StatusInternalServerError, dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error").
			WithSeverity(dto.ErrorSeverityCritical)
	}
}

// messageOr returns the CustomError message carried by err, or fallback
func messageOr(err error, fallback string) string {
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Message != "" {
		return ce.Message
	}
	return fallback
}

func retryDetails(err error, retryable bool) map[string]interface{} {
	details := map[string]interface{}{"retryable": retryable}
	var ce *apperrors.CustomError
	if errors.As(err, &ce) && ce.Code != "" {
		details["reason"] = ce.Code
	}
	return details
}
