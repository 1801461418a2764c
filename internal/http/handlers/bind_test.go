package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gfranca/userhub/internal/domain/user"
	"github.com/gfranca/userhub/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

func bindRouter() *gin.Engine {
	r := gin.New()
	r.POST("/user", func(ctx *gin.Context) {
		var req user.CreateUserRequest
		if !handlers.BindJSON(ctx, &req) {
			return
		}
		ctx.Status(http.StatusCreated)
	})

	return r
}

func postJSON(router http.Handler, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/user", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	return w
}

func TestBindJSONFieldErrorsUseJSONNames(t *testing.T) {
	w := postJSON(bindRouter(), `{"name":"Ann"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var resp handlers.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if resp.Message != "Invalid data" {
		t.Fatalf("unexpected message: %q", resp.Message)
	}

	for _, field := range []string{"email", "password"} {
		if _, ok := resp.Fields[field]; !ok {
			t.Errorf("expected field %q in %v", field, resp.Fields)
		}
	}

	if _, ok := resp.Fields["Email"]; ok {
		t.Error("fields keyed by struct name instead of json name")
	}
}

func TestBindJSONTypeMismatch(t *testing.T) {
	w := postJSON(bindRouter(), `{"name":"Ann","email":"a@x.com","password":123456}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var resp handlers.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if _, ok := resp.Fields["password"]; !ok {
		t.Errorf("expected type error on password, got %v", resp.Fields)
	}
}

func TestBindJSONSyntaxError(t *testing.T) {
	w := postJSON(bindRouter(), `{"name": "Ann"`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400, body=%s", w.Code, w.Body.String())
	}

	var resp handlers.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if _, ok := resp.Fields["body"]; !ok {
		t.Errorf("expected generic body error, got %v", resp.Fields)
	}
}
