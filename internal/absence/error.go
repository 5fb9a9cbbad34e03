package absence

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrRunInProgress is returned when a run is requested while another one is
// still executing in this process.
var ErrRunInProgress = errors.New("absence detection already running")

// ===== Error model (sysclock/attendance と同型) =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string     { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError { return &APIError{Code: CodeInvalidArgument, Message: msg} }

func toHTTPStatus(err error) int {
	if errors.Is(err, ErrRunInProgress) {
		return http.StatusConflict
	}
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return http.StatusBadRequest
		case CodeConflict:
			return http.StatusConflict
		}
	}
	return http.StatusInternalServerError
}

type errorDTO struct {
	Error *APIError `json:"error"`
}

func errorFromErr(err error) errorDTO {
	if errors.Is(err, ErrRunInProgress) {
		return errorDTO{Error: &APIError{Code: CodeConflict, Message: err.Error()}}
	}
	var api *APIError
	if errors.As(err, &api) {
		return errorDTO{Error: api}
	}
	// 詳細はサーバーログのみ
	return errorDTO{Error: &APIError{Code: CodeInternal, Message: "absence detection failed"}}
}
