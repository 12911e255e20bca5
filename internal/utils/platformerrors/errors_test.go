package platformerrors_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"assistant-server/internal/utils/platformerrors"
)

func TestErrorTypeToHTTPStatus(t *testing.T) {
	tests := []struct {
		errorType platformerrors.ErrorType
		want      int
	}{
		{platformerrors.ErrorTypeNotFound, http.StatusNotFound},
		{platformerrors.ErrorTypeValidation, http.StatusBadRequest},
		{platformerrors.ErrorTypeUnauthorized, http.StatusUnauthorized},
		{platformerrors.ErrorTypeForbidden, http.StatusForbidden},
		{platformerrors.ErrorTypeUnsupportedMedia, http.StatusUnsupportedMediaType},
		{platformerrors.ErrorTypeMethodNotAllowed, http.StatusMethodNotAllowed},
		{platformerrors.ErrorTypeInternal, http.StatusInternalServerError},
		{platformerrors.ErrorTypeExternal, http.StatusInternalServerError},
		{platformerrors.ErrorTypeDatabaseError, http.StatusInternalServerError},
		{platformerrors.ErrorType("unknown"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			if got := platformerrors.ErrorTypeToHTTPStatus(tt.errorType); got != tt.want {
				t.Errorf("ErrorTypeToHTTPStatus(%s) = %d, want %d", tt.errorType, got, tt.want)
			}
		})
	}
}

func TestAsErrorPreservesType(t *testing.T) {
	ctx := context.Background()
	original := platformerrors.NewError(ctx, platformerrors.LayerRepository,
		platformerrors.ErrorTypeNotFound, "document not found", nil)

	wrapped := platformerrors.AsError(ctx, platformerrors.LayerDomain, original, "load document")
	if wrapped.Type != platformerrors.ErrorTypeNotFound {
		t.Errorf("wrapped type = %s, want NOT_FOUND", wrapped.Type)
	}
	if !platformerrors.IsErrorType(wrapped, platformerrors.ErrorTypeNotFound) {
		t.Error("IsErrorType(wrapped, NOT_FOUND) = false, want true")
	}
}

func TestAsErrorWrapsUnknownAsInternal(t *testing.T) {
	ctx := context.Background()
	plain := errors.New("connection refused")

	wrapped := platformerrors.AsError(ctx, platformerrors.LayerDomain, plain, "load settings")
	if wrapped.Type != platformerrors.ErrorTypeInternal {
		t.Errorf("wrapped type = %s, want INTERNAL", wrapped.Type)
	}
	if wrapped.Details["reason"] != "connection refused" {
		t.Errorf("reason detail = %v, want original message", wrapped.Details["reason"])
	}
	if !errors.Is(wrapped, plain) {
		t.Error("wrapped error does not unwrap to the original")
	}
}

func TestAsErrorNil(t *testing.T) {
	if got := platformerrors.AsError(context.Background(), platformerrors.LayerDomain, nil, "noop"); got != nil {
		t.Errorf("AsError(nil) = %v, want nil", got)
	}
}

func TestRequestIDPropagation(t *testing.T) {
	ctx := platformerrors.WithRequestID(context.Background(), "req-123")
	err := platformerrors.NewError(ctx, platformerrors.LayerHandler,
		platformerrors.ErrorTypeValidation, "bad input", nil)
	if err.GetRequestID() != "req-123" {
		t.Errorf("request id = %q, want req-123", err.GetRequestID())
	}
}
