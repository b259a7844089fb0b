package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"stock-api/internal/domain"
)

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

const internalErrorMessage = "An unexpected error occurred"

// respondError translates err into the JSON error body. Unknown errors are
// logged and replaced by a generic message.
func (h *Handler) respondError(c *gin.Context, err error) {
	status, code, msg := classifyError(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Error("request failed")
	}
	c.JSON(status, errorResponse{Success: false, Error: code, Message: msg})
}

func classifyError(err error) (int, string, string) {
	var (
		validationErr *domain.ValidationError
		existsErr     *domain.UserAlreadyExistsError
	)
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "InvalidCredentials", err.Error()
	case errors.As(err, &existsErr):
		return http.StatusConflict, "UserAlreadyExists", existsErr.Error()
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict, "UserAlreadyExists", err.Error()
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, "ValidationError", validationErr.Error()
	case errors.Is(err, domain.ErrInvalidReference):
		return http.StatusBadRequest, "InvalidReference", err.Error()
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized", err.Error()
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, "UserNotFound", err.Error()
	case errors.Is(err, domain.ErrStockMoveNotFound):
		return http.StatusNotFound, "StockMoveNotFound", err.Error()
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "StorageUnavailable", err.Error()
	default:
		return http.StatusInternalServerError, "InternalServerError", internalErrorMessage
	}
}

// bindError converts a gin binding failure into a *domain.ValidationError.
func bindError(err error) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &domain.ValidationError{
			Field:   fe.Field(),
			Message: fmt.Sprintf("failed %q rule", fe.Tag()),
		}
	}
	return &domain.ValidationError{Message: "invalid request: " + err.Error()}
}
