package goerror

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"reflect"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default status code", func(t *testing.T) {
		err := New("Test error")

		if err.Msg() != "Test error" {
			t.Fatalf("msg = %q", err.Msg())
		}
		if err.StatusCode() != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", err.StatusCode())
		}
		if err.Details() != nil {
			t.Fatalf("details = %v, want nil", err.Details())
		}
	})

	t.Run("custom status code", func(t *testing.T) {
		err := New("Not found", WithStatus(http.StatusNotFound))

		if err.StatusCode() != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", err.StatusCode())
		}
		if err.Details() != nil {
			t.Fatalf("details = %v, want nil", err.Details())
		}
	})

	t.Run("details kept as given", func(t *testing.T) {
		details := map[string][]string{"field": {"Invalid value"}}
		err := New("Validation failed", WithStatus(http.StatusBadRequest), WithDetails(details))

		if !reflect.DeepEqual(err.Details(), details) {
			t.Fatalf("details = %v, want %v", err.Details(), details)
		}
	})
}

func TestKindOf(t *testing.T) {
	var syntaxErr error
	{
		var v map[string]any
		syntaxErr = json.Unmarshal([]byte(`{"a":}`), &v)
	}

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "validation", err: NewValidation(map[string][]string{"a": {"b"}}), want: KindValidation},
		{name: "business", err: NewBusiness("Post not found", http.StatusNotFound), want: KindDomain},
		{name: "wrapped business", err: fmt.Errorf("ctx: %w", NewBusiness("x", http.StatusConflict)), want: KindDomain},
		{name: "malformed", err: NewMalformedInput(syntaxErr), want: KindMalformedInput},
		{name: "raw syntax error", err: syntaxErr, want: KindMalformedInput},
		{name: "unexpected eof", err: io.ErrUnexpectedEOF, want: KindMalformedInput},
		{name: "server", err: NewServer(errors.New("db down")), want: KindUnknown},
		{name: "plain", err: errors.New("boom"), want: KindUnknown},
		{name: "nil", err: nil, want: KindUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := KindOf(tt.err); got != tt.want {
				t.Fatalf("KindOf() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestNewServer_HidesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewServer(cause)

	var gerr *Error
	if !errors.As(err, &gerr) {
		t.Fatal("expected *Error")
	}
	if gerr.Msg() != "Internal Server Error" {
		t.Fatalf("msg = %q", gerr.Msg())
	}
	if gerr.StatusCode() != http.StatusInternalServerError {
		t.Fatalf("status = %d", gerr.StatusCode())
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause must stay reachable through Unwrap")
	}
}

func TestError_LogValue(t *testing.T) {
	// Arrange
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(buf, nil))
	err := NewServer(errors.New("re-parse still invalid"))

	// Act
	logger.Error("failed", "error", err)

	// Assert
	var line struct {
		Error map[string]any `json:"error"`
	}
	if jerr := json.Unmarshal(buf.Bytes(), &line); jerr != nil {
		t.Fatalf("decode %q: %v", buf.String(), jerr)
	}
	if line.Error["cause"] != "re-parse still invalid" {
		t.Fatalf("error attr = %v, want the cause", line.Error)
	}
	if line.Error["kind"] != "ERROR_KIND_UNKNOWN" || line.Error["status"] != float64(http.StatusInternalServerError) {
		t.Fatalf("error attr = %v", line.Error)
	}
}
