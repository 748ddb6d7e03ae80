package v1

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shuyuzheng19/go-blog-api/internal/domain"
	"github.com/shuyuzheng19/go-blog-api/internal/transport/web/mw"
)

func TestMapDomainError(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   int
	}{
		{domain.ErrBadParams, http.StatusBadRequest, domain.ErrCodeBadParams},
		{domain.ErrUnauth, http.StatusUnauthorized, domain.ErrCodeUnauth},
		{domain.ErrForbidden, http.StatusForbidden, domain.ErrCodeForbidden},
		{domain.ErrNotFound, http.StatusNotFound, domain.ErrCodeNotFound},
		{domain.ErrMethodNotAllowed, http.StatusMethodNotAllowed, domain.ErrCodeMethodNotAllowed},
		{domain.ErrUnexpected, http.StatusInternalServerError, domain.ErrCodeUnexpected},
	}
	for _, c := range cases {
		status, env := MapDomainError(c.err)
		if status != c.status {
			t.Fatalf("%v: status = %d, want %d", c.err, status, c.status)
		}
		if env.Error == nil || env.Error.Code != c.code {
			t.Fatalf("%v: envelope code = %+v, want %d", c.err, env.Error, c.code)
		}
	}
}

func TestWriteEnvelopeSetsRequestID(t *testing.T) {
	h := mw.WithRequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteOKData(w, r, "hello")
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Fatal("X-Request-ID header is empty")
	}

	var env domain.APIEnvelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatal(err)
	}
	if env.Data != "hello" || env.Error != nil {
		t.Fatalf("envelope = %+v", env)
	}
}

func TestWriteEnvelopeHeadHasNoBody(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteOKData(rec, httptest.NewRequest("HEAD", "/", nil), "hello")

	if rec.Body.Len() != 0 {
		t.Fatalf("HEAD body = %q, want empty", rec.Body.String())
	}
}
