package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindHTTPStatus(t *testing.T) {
	cases := map[Kind]int{
		KindValidation:      http.StatusBadRequest,
		KindUnauthorized:    http.StatusUnauthorized,
		KindForbidden:       http.StatusForbidden,
		KindNotFound:        http.StatusNotFound,
		KindConflict:        http.StatusConflict,
		KindTooManyRequests: http.StatusTooManyRequests,
		KindInternal:        http.StatusInternalServerError,
	}

	for kind, want := range cases {
		if got := kind.HTTPStatus(); got != want {
			t.Errorf("kind %d: got status %d, want %d", kind, got, want)
		}
	}
}

func TestKindOfUnknownErrorIsInternal(t *testing.T) {
	if got := KindOf(errors.New("boom")); got != KindInternal {
		t.Fatalf("got kind %d, want internal", got)
	}
}

func TestKindOfWrappedError(t *testing.T) {
	err := fmt.Errorf("handler: %w", NotFound("User not found"))

	if got := KindOf(err); got != KindNotFound {
		t.Fatalf("got kind %d, want not found", got)
	}

	e := As(err)
	if e == nil || e.Message != "User not found" {
		t.Fatalf("As failed to recover wrapped error: %+v", e)
	}
}

func TestInternalKeepsCauseOutOfMessage(t *testing.T) {
	cause := errors.New("pq: connection refused")
	err := Internal("Internal server error", cause)

	if !errors.Is(err, cause) {
		t.Fatal("cause should be reachable via errors.Is")
	}

	if err.Message != "Internal server error" {
		t.Fatalf("message leaked detail: %q", err.Message)
	}
}
