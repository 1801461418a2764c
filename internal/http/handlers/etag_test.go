package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gfranca/userhub/internal/domain/user"
)

func conditionalGet(router http.Handler, path, token, ifNoneMatch string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.Header.Set("Authorization", "Bearer "+token)

	if ifNoneMatch != "" {
		req.Header.Set("If-None-Match", ifNoneMatch)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestGetUserHonorsIfNoneMatch(t *testing.T) {
	env := setupEnv(t)
	u := env.seedUser(t, "Ann", "ann@x.com", "secret1", user.RoleUser)
	token := env.tokenFor(t, u)

	first := conditionalGet(env.router, "/user?id="+u.ID, token, "")

	if first.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", first.Code, first.Body.String())
	}

	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("response carries no ETag")
	}

	second := conditionalGet(env.router, "/user?id="+u.ID, token, etag)

	if second.Code != http.StatusNotModified {
		t.Fatalf("got status %d, want 304", second.Code)
	}

	if second.Body.Len() != 0 {
		t.Errorf("304 response has a body: %s", second.Body.String())
	}

	// a stale validator still gets the full representation
	third := conditionalGet(env.router, "/user?id="+u.ID, token, `"deadbeef"`)

	if third.Code != http.StatusOK {
		t.Errorf("stale ETag: got status %d, want 200", third.Code)
	}
}

func TestListUsersHonorsIfNoneMatch(t *testing.T) {
	env := setupEnv(t)
	admin := env.seedUser(t, "Root", "root@x.com", "secret1", user.RoleAdmin)
	env.seedUser(t, "Ann", "ann@x.com", "secret1", user.RoleUser)
	token := env.tokenFor(t, admin)

	first := conditionalGet(env.router, "/users", token, "")

	if first.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", first.Code, first.Body.String())
	}

	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatal("list response carries no ETag")
	}

	second := conditionalGet(env.router, "/users", token, etag)

	if second.Code != http.StatusNotModified {
		t.Fatalf("got status %d, want 304", second.Code)
	}
}
