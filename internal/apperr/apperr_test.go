package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindOfUnwrapsChains(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("Order not found"))
	if KindOf(err) != KindNotFound {
		t.Fatalf("expected %s, got %s", KindNotFound, KindOf(err))
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	if KindOf(errors.New("driver exploded")) != KindInternal {
		t.Fatal("plain errors must map to the internal kind")
	}
}

func TestStatusMapping(t *testing.T) {
	tests := []struct {
		kind   Kind
		status int
	}{
		{KindValidation, http.StatusBadRequest},
		{KindAuth, http.StatusUnauthorized},
		{KindConflict, http.StatusConflict},
		{KindNotFound, http.StatusNotFound},
		{KindForbidden, http.StatusForbidden},
		{KindEmail, http.StatusInternalServerError},
		{KindInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := Status(tt.kind); got != tt.status {
			t.Fatalf("Status(%s) = %d, want %d", tt.kind, got, tt.status)
		}
	}
}

func TestMessageHidesInternalDetail(t *testing.T) {
	if Message(errors.New("dsn=mongodb://secret")) != "internal server error" {
		t.Fatal("unexpected internal detail leaked to the caller")
	}

	wrapped := Wrap(KindEmail, "Failed to send verification code", errors.New("smtp timeout"))
	if Message(wrapped) != "Failed to send verification code" {
		t.Fatalf("expected client-safe message, got %q", Message(wrapped))
	}
}

func TestErrorStringIncludesCause(t *testing.T) {
	wrapped := Wrap(KindEmail, "send failed", errors.New("smtp timeout"))
	if wrapped.Error() != "send failed: smtp timeout" {
		t.Fatalf("unexpected error string: %q", wrapped.Error())
	}
	if !errors.Is(wrapped, wrapped.Err) {
		t.Fatal("wrapped cause should be reachable via errors.Is")
	}
}
