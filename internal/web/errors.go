package web

// errors.go maps handler errors to JSON error responses.
//
// Every error is logged server-side with the request ID and answered with a
// stable code clients can branch on:
//
//	REQ001  bad request (unknown kind, bad column spec, bad parameter)  400
//	REQ002  request body too large                                      413
//	REQ003  request timed out                                           504
//	IMP001  CSV header is missing a declared column                     422
//	IMP002  CSV row could not be read or stored                         422
//	IMP003  CSV has more rows than allowed                              413
//	IMP004  too many imports running, retry later                       429
//	DB001   no database configured                                      503
//	DB002   COPY into the database failed                               502
//	SRV001  anything else                                               500

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/S-e-t/SimpleExtensions/internal/importer"
	"github.com/S-e-t/SimpleExtensions/internal/logging"
	"github.com/S-e-t/SimpleExtensions/table"
)

var (
	errBadRequest = errors.New("bad request")
	errNoDatabase = errors.New("no database configured")
	errCopyFailed = errors.New("copy failed")
)

// ErrorResponse is the JSON body of every error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

// UserMessage is the client-facing description of an error.
type UserMessage struct {
	Message string
	Action  string
	Code    string
	Status  int
}

type errorMapping struct {
	match func(error) bool
	msg   UserMessage
}

func is(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}

func as[T error](err error) bool {
	var target T
	return errors.As(err, &target)
}

// errorMappings is checked in order; the first match wins.
var errorMappings = []errorMapping{
	{is(errNoDatabase), UserMessage{
		Message: "No database is configured", Action: "Set DATABASE_URL and restart the service",
		Code: "DB001", Status: http.StatusServiceUnavailable,
	}},
	{is(errCopyFailed), UserMessage{
		Message: "Copying rows into the database failed", Action: "Check that the target table and columns exist",
		Code: "DB002", Status: http.StatusBadGateway,
	}},
	{as[*http.MaxBytesError], UserMessage{
		Message: "Request body is too large", Action: "Split the file into smaller parts",
		Code: "REQ002", Status: http.StatusRequestEntityTooLarge,
	}},
	{is(importer.ErrBusy), UserMessage{
		Message: "Too many imports are running", Action: "Wait a moment and try again",
		Code: "IMP004", Status: http.StatusTooManyRequests,
	}},
	{is(importer.ErrTooManyRows), UserMessage{
		Message: "File has too many rows", Action: "Split the file into smaller parts",
		Code: "IMP003", Status: http.StatusRequestEntityTooLarge,
	}},
	{is(importer.ErrMissingColumn), UserMessage{
		Message: "A declared column is missing from the CSV header", Action: "Check the header row against the columns parameter",
		Code: "IMP001", Status: http.StatusUnprocessableEntity,
	}},
	{is(importer.ErrMissingHeader), UserMessage{
		Message: "The CSV has no header row", Action: "Add a header row naming each column",
		Code: "IMP001", Status: http.StatusUnprocessableEntity,
	}},
	{as[*csv.ParseError], UserMessage{
		Message: "The CSV could not be read", Action: "Check quoting and delimiters",
		Code: "IMP002", Status: http.StatusUnprocessableEntity,
	}},
	{func(err error) bool {
		return errors.Is(err, table.ErrTypeMismatch) ||
			errors.Is(err, table.ErrNullNotAllowed) ||
			errors.Is(err, table.ErrTooManyValues)
	}, UserMessage{
		Message: "A row could not be stored", Action: "Check the row against the declared column kinds",
		Code: "IMP002", Status: http.StatusUnprocessableEntity,
	}},
	{func(err error) bool {
		return errors.Is(err, errBadRequest) ||
			errors.Is(err, importer.ErrInvalidSpec) ||
			errors.Is(err, importer.ErrNoColumns) ||
			errors.Is(err, table.ErrDuplicateColumn)
	}, UserMessage{
		Message: "The request is invalid", Action: "Check the query parameters",
		Code: "REQ001", Status: http.StatusBadRequest,
	}},
	{is(context.DeadlineExceeded), UserMessage{
		Message: "The request timed out", Action: "Try a smaller file or try again later",
		Code: "REQ003", Status: http.StatusGatewayTimeout,
	}},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred", Action: "Try again; quote the request ID if it persists",
	Code: "SRV001", Status: http.StatusInternalServerError,
}

// MapError returns the client-facing message for err.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}
	for _, m := range errorMappings {
		if m.match(err) {
			return m.msg
		}
	}
	return defaultMessage
}

// respondError logs err with request context and writes its JSON response.
// Client errors keep the technical detail in the error field; server errors
// do not expose it.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	msg := MapError(err)

	logger := logging.FromContext(r.Context())
	level := logger.Warn
	if msg.Status >= http.StatusInternalServerError {
		level = logger.Error
	}
	level("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", msg.Status,
		"code", msg.Code,
		"error", err.Error(),
	)

	detail := err.Error()
	if msg.Status >= http.StatusInternalServerError {
		detail = msg.Message
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(msg.Status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Error:   detail,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	})
}
