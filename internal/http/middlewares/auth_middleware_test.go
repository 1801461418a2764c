package middlewares_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gfranca/userhub/internal/auth"
	"github.com/gfranca/userhub/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeVerifier lets each test decide what a token means.
type fakeVerifier struct {
	claims *auth.Claims
	err    error
}

func (f *fakeVerifier) Verify(token string) (*auth.Claims, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.claims, nil
}

func protectedRouter(verifier middlewares.TokenVerifier, roles ...string) *gin.Engine {
	mw := middlewares.NewAuthMiddleware(verifier)

	r := gin.New()

	chain := []gin.HandlerFunc{mw.RequireAuth()}
	if len(roles) > 0 {
		chain = append(chain, mw.RequireRoles(roles...))
	}
	chain = append(chain, func(c *gin.Context) {
		id, _ := middlewares.UserIDFromContext(c)
		role, _ := middlewares.RoleFromContext(c)
		c.JSON(http.StatusOK, gin.H{"id": id, "role": role})
	})

	r.GET("/protected", chain...)

	return r
}

func get(router http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)

	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func messageOf(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body %q: %v", w.Body.String(), err)
	}

	return body.Message
}

func TestRequireAuthHeaderShapes(t *testing.T) {
	okClaims := &auth.Claims{UserID: "id-1", Email: "a@b.com", Role: "USER"}

	tests := []struct {
		name        string
		header      string
		verifier    *fakeVerifier
		wantStatus  int
		wantMessage string
	}{
		{"missing header", "", &fakeVerifier{claims: okClaims}, http.StatusUnauthorized, "Token not provided"},
		{"wrong scheme", "Basic abc123", &fakeVerifier{claims: okClaims}, http.StatusUnauthorized, "Token not provided"},
		{"bearer no token", "Bearer ", &fakeVerifier{claims: okClaims}, http.StatusUnauthorized, "Token not provided"},
		{"verifier rejects", "Bearer bad", &fakeVerifier{err: errors.New("nope")}, http.StatusUnauthorized, "Invalid token"},
		{"happy path", "Bearer good", &fakeVerifier{claims: okClaims}, http.StatusOK, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := get(protectedRouter(tc.verifier), tc.header)

			if w.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantMessage != "" {
				if got := messageOf(t, w); got != tc.wantMessage {
					t.Errorf("got message %q, want %q", got, tc.wantMessage)
				}
			}
		})
	}
}

func TestRequireAuthStashesIdentity(t *testing.T) {
	verifier := &fakeVerifier{claims: &auth.Claims{UserID: "id-42", Email: "a@b.com", Role: "ADMIN"}}

	w := get(protectedRouter(verifier), "Bearer good")

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var body struct {
		ID   string `json:"id"`
		Role string `json:"role"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}

	if body.ID != "id-42" || body.Role != "ADMIN" {
		t.Errorf("identity not stashed: %+v", body)
	}
}

func TestRequireRolesAllowList(t *testing.T) {
	tests := []struct {
		name       string
		role       string
		allowed    []string
		wantStatus int
	}{
		{"role in list", "ADMIN", []string{"ADMIN"}, http.StatusOK},
		{"role not in list", "USER", []string{"ADMIN"}, http.StatusForbidden},
		{"multi-role list", "USER", []string{"ADMIN", "USER"}, http.StatusOK},
		{"empty list means any", "USER", nil, http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			verifier := &fakeVerifier{claims: &auth.Claims{UserID: "id-1", Email: "a@b.com", Role: tc.role}}

			mw := middlewares.NewAuthMiddleware(verifier)
			r := gin.New()
			r.GET("/protected", mw.RequireAuth(), mw.RequireRoles(tc.allowed...), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			w := get(r, "Bearer good")

			if w.Code != tc.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tc.wantStatus, w.Body.String())
			}

			if tc.wantStatus == http.StatusForbidden {
				if got := messageOf(t, w); got != "Insufficient permissions" {
					t.Errorf("got message %q", got)
				}
			}
		})
	}
}

// Expired tokens go through the real codec to make sure the gate reports
// them exactly like any other invalid token.
func TestRequireAuthExpiredTokenIsInvalid(t *testing.T) {
	expiredIssuer := auth.NewManager("test-secret-key", -1)

	token, err := expiredIssuer.Generate("id-1", "a@b.com", "USER")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	w := get(protectedRouter(auth.NewManager("test-secret-key", 0)), "Bearer "+token)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("got status %d, want 401", w.Code)
	}

	if got := messageOf(t, w); got != "Invalid token" {
		t.Errorf("got message %q, want %q", got, "Invalid token")
	}
}
