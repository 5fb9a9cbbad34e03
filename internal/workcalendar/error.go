package workcalendar

import (
	"errors"
	"fmt"
	"net/http"
)

type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string     { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError { return &APIError{Code: CodeInvalidArgument, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) && api.Code == CodeInvalidArgument {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

type errorDTO struct {
	Error *APIError `json:"error"`
}

func errorFromErr(err error) errorDTO {
	var api *APIError
	if errors.As(err, &api) {
		return errorDTO{Error: api}
	}
	return errorDTO{Error: &APIError{Code: CodeInternal, Message: "calendar unavailable"}}
}
