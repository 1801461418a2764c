package loginlimit

import (
	"strings"
	"testing"
	"time"
)

// Without redis the limiter must be a no-op: logins always allowed,
// record/reset never panic.
func TestDisabledLimiterAllowsEverything(t *testing.T) {
	limiters := []*Limiter{
		nil,
		New(nil, 10, time.Minute),
		New(nil, 0, time.Minute),
	}

	for _, l := range limiters {
		if !l.Allow(t.Context(), "ann@x.com", "127.0.0.1") {
			t.Error("disabled limiter blocked a login")
		}

		l.RecordFailure(t.Context(), "ann@x.com", "127.0.0.1")
		l.Reset(t.Context(), "ann@x.com", "127.0.0.1")
	}
}

func TestKeyNeverContainsEmail(t *testing.T) {
	l := New(nil, 10, time.Minute)

	key := l.key("Ann@X.com ", "10.0.0.1")

	if !strings.HasPrefix(key, "login:fail:v1:") {
		t.Fatalf("unexpected key prefix: %q", key)
	}

	if strings.Contains(strings.ToLower(key), "ann@x.com") {
		t.Errorf("key leaks the email: %q", key)
	}
}

func TestKeyNormalizesEmail(t *testing.T) {
	l := New(nil, 10, time.Minute)

	if l.key("ann@x.com", "10.0.0.1") != l.key("  ANN@X.COM ", "10.0.0.1") {
		t.Error("case/space variants of one email should map to one key")
	}
}
