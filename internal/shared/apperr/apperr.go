package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies failures that reach a user-facing surface.
type Kind string

const (
	ConnectionFailure  Kind = "connection_failure"
	Timeout            Kind = "timeout"
	ServerError        Kind = "server_error"
	InvalidModelOutput Kind = "invalid_model_output"
	UnsupportedFormat  Kind = "unsupported_format"
	NotFound           Kind = "not_found"
	ExtractionError    Kind = "extraction_error"
	ConfigInvalid      Kind = "config_invalid"
	Unknown            Kind = "unknown"
)

// Error is a typed failure with the original cause attached.
type Error struct {
	Kind       Kind
	Op         string
	Message    string
	StatusCode int
	Err        error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a typed error.
func New(kind Kind, op, message string, err error) *Error {
	return &Error{Kind: kind, Op: op, Message: message, Err: err}
}

// Server builds a ServerError carrying the endpoint's status code.
func Server(op string, status int, body string) *Error {
	return &Error{
		Kind:       ServerError,
		Op:         op,
		Message:    fmt.Sprintf("endpoint returned status %d: %s", status, body),
		StatusCode: status,
	}
}

// KindOf reports the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// Hints returns the troubleshooting tips shown next to a failure.
func Hints(kind Kind) []string {
	switch kind {
	case ConnectionFailure:
		return []string{
			"Ensure the generation server (e.g. LM Studio) is running with a model loaded",
			"Check that the API server is enabled and base_url in the profile is correct",
			"Run `jobapp doctor` to probe the endpoint",
		}
	case Timeout:
		return []string{
			"The model took too long to answer; try a smaller or already loaded model",
			"Lower max_tokens in generation_settings",
		}
	case ServerError:
		return []string{
			"Check the generation server logs for the failing request",
			"Verify the model name in generation_settings matches a loaded model",
			"Run `jobapp models` to list available models",
		}
	case InvalidModelOutput:
		return []string{
			"The model did not return the expected JSON; retry or use a stronger model",
			"Lower the temperature in generation_settings for more consistent output",
		}
	case UnsupportedFormat:
		return []string{
			"Only .pdf and .docx resumes are supported",
		}
	case NotFound:
		return []string{
			"Check the file path and try again",
		}
	case ExtractionError:
		return []string{
			"The file may be scanned, encrypted or malformed; export it again as PDF or DOCX",
			"Make sure the document contains selectable text",
		}
	case ConfigInvalid:
		return []string{
			"The profile file is not valid JSON; fix it or restore the .backup copy",
			"Run `jobapp setup` to recreate a default profile",
		}
	default:
		return []string{
			"Check the logs for details",
		}
	}
}

// HTTPStatus maps a kind onto the status used by the HTTP surface.
func HTTPStatus(kind Kind) int {
	switch kind {
	case ConnectionFailure, ServerError, InvalidModelOutput:
		return http.StatusBadGateway
	case Timeout:
		return http.StatusGatewayTimeout
	case UnsupportedFormat, ExtractionError:
		return http.StatusUnprocessableEntity
	case NotFound:
		return http.StatusNotFound
	case ConfigInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
