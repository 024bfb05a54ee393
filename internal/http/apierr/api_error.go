package apierr

import (
	"errors"
	"fmt"
	"net/http"

	govalidator "github.com/go-playground/validator/v10"

	"github.com/tuanvumaihuynh/stock-ledger/internal/apperr"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/validator"
	"github.com/tuanvumaihuynh/stock-ledger/pkg/zerror"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ErrorResponse is the error response for the API.
type ErrorResponse struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`

	// StatusCode is the status code for the error response.
	StatusCode int `json:"-"`
}

// BindError reports a path parameter, query parameter or request body that
// could not be decoded.
type BindError struct {
	Param string
	Err   error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("invalid format for parameter %s: %v", e.Param, e.Err)
}

func (e *BindError) Unwrap() error {
	return e.Err
}

func New(err error) ErrorResponse {
	return errorToErrorResponse(err)
}

var InternalServerErr = ErrorResponse{
	Code:       "internalServerError",
	Message:    "an unknown error occurred",
	StatusCode: http.StatusInternalServerError,
}

var RouteNotFoundErr = ErrorResponse{
	Code:       "routeNotFound",
	Message:    "route not found",
	StatusCode: http.StatusNotFound,
}

var MethodNotAllowedErr = ErrorResponse{
	Code:       "methodNotAllowed",
	Message:    "method not allowed",
	StatusCode: http.StatusMethodNotAllowed,
}

func errorToErrorResponse(err error) ErrorResponse {
	var zErr zerror.ZError
	if errors.As(err, &zErr) {
		res := ErrorResponse{
			Code:       zErr.Code(),
			Message:    zErr.Msg(),
			StatusCode: ZErrorStatusToHTTPStatus(zErr.Status()),
		}
		if zErr.Status() == zerror.StatusValidationFailed {
			res.Details = details(zErr.Parent())
		}
		return res
	}

	if d := details(err); d != nil {
		return ErrorResponse{
			Code:       apperr.ValidationErrorCode,
			Message:    "validation error",
			Details:    d,
			StatusCode: http.StatusBadRequest,
		}
	}

	return InternalServerErr
}

// details extracts per-field messages from validator and binding errors.
func details(err error) []FieldError {
	if err == nil {
		return nil
	}

	var validationErrs govalidator.ValidationErrors
	if errors.As(err, &validationErrs) {
		res := make([]FieldError, len(validationErrs))
		for i, fe := range validationErrs {
			res[i] = FieldError{
				Field:   fe.Field(),
				Message: validator.ValidationErrorMessage(fe),
			}
		}
		return res
	}

	var bindErr *BindError
	if errors.As(err, &bindErr) {
		return []FieldError{{
			Field:   bindErr.Param,
			Message: bindErr.Err.Error(),
		}}
	}

	return nil
}

func ZErrorStatusToHTTPStatus(status zerror.Status) int {
	switch status {
	case zerror.StatusUnauthorized:
		return http.StatusUnauthorized
	case zerror.StatusForbidden:
		return http.StatusForbidden
	case zerror.StatusNotFound:
		return http.StatusNotFound
	case zerror.StatusUnprocessableEntity:
		return http.StatusUnprocessableEntity
	case zerror.StatusConflict:
		return http.StatusConflict
	case zerror.StatusTooManyRequests:
		return http.StatusTooManyRequests
	case zerror.StatusBadRequest, zerror.StatusValidationFailed:
		return http.StatusBadRequest
	case zerror.StatusUnknown, zerror.StatusInternalServerError:
		return http.StatusInternalServerError
	case zerror.StatusTimeout:
		return http.StatusGatewayTimeout
	case zerror.StatusNotImplemented:
		return http.StatusNotImplemented
	case zerror.StatusBadGateway:
		return http.StatusBadGateway
	case zerror.StatusServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
