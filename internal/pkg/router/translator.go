package router

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
)

const (
	msgInvalidJSON    = "Invalid JSON"
	msgInternalServer = "Internal Server Error"
)

var errNilTranslated = errors.New("router: nil error reached the translator")

type errorResponse struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

// ErrorTranslator turns any error that reaches the edge of a request into
// exactly one JSON response.
type ErrorTranslator struct {
	logger *slog.Logger
}

// NewErrorTranslator builds a translator that reports unknown failures to
// logger. A nil logger falls back to slog.Default.
func NewErrorTranslator(logger *slog.Logger) *ErrorTranslator {
	if logger == nil {
		logger = slog.Default()
	}
	return &ErrorTranslator{logger: logger}
}

// Translate writes the response for err.
//
// Validation and domain errors answer with their own status, message and
// field errors. Malformed bodies answer 400 "Invalid JSON". Anything else is
// logged once and answers 500 without leaking details.
//
// This is the only place unknown failures are logged; use cases wrap them
// with goerror.NewServer and return.
func (t *ErrorTranslator) Translate(ctx context.Context, w http.ResponseWriter, err error) {
	if err == nil {
		err = errNilTranslated
	}

	if setter, ok := w.(interface{ SetError(error) }); ok {
		setter.SetError(err)
	}

	switch goerror.KindOf(err) {
	case goerror.KindValidation, goerror.KindDomain:
		var gerr *goerror.Error
		errors.As(err, &gerr)
		writeJSON(w, errorResponse{Message: gerr.Msg(), Errors: gerr.Details()}, gerr.StatusCode())

	case goerror.KindMalformedInput:
		writeJSON(w, errorResponse{Message: msgInvalidJSON}, http.StatusBadRequest)

	default:
		t.logUnknown(ctx, err)
		writeJSON(w, errorResponse{Message: msgInternalServer}, http.StatusInternalServerError)
	}
}

// logUnknown logs the cause a server error hides behind its public message.
func (t *ErrorTranslator) logUnknown(ctx context.Context, err error) {
	var gerr *goerror.Error
	if errors.As(err, &gerr) && gerr.Unwrap() != nil {
		t.logger.ErrorContext(ctx, gerr.Unwrap().Error(), "error", gerr)
		return
	}
	t.logger.ErrorContext(ctx, err.Error(), "error", err)
}
