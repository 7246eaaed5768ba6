package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if len(req.Messages) != 1 || req.Messages[0].Content != "hola" {
			t.Errorf("unexpected messages %+v", req.Messages)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestHTTPClientGenerate(t *testing.T) {
	cases := []struct {
		name    string
		status  int
		body    string
		want    string
		wantErr error
	}{
		{name: "ok", status: 200, body: `{"choices":[{"message":{"role":"assistant","content":"analisis"}}]}`, want: "analisis"},
		{name: "server error", status: 503, body: `oops`, wantErr: ErrTransport},
		{name: "api error", status: 200, body: `{"error":{"message":"quota"}}`, wantErr: ErrTransport},
		{name: "not json", status: 200, body: `<html>`, wantErr: ErrMalformedResponse},
		{name: "no choices", status: 200, body: `{"choices":[]}`, wantErr: ErrMalformedResponse},
		{name: "blank content", status: 200, body: `{"choices":[{"message":{"content":"  "}}]}`, wantErr: ErrEmptyGeneration},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := newTestServer(t, tc.status, tc.body)
			c := NewHTTPClient(srv.URL+"/", "test-key", "m", time.Second, zap.NewNop())

			got, err := c.Generate(context.Background(), "hola")
			if tc.wantErr != nil {
				if !errors.Is(err, tc.wantErr) {
					t.Fatalf("expected %v, got %v", tc.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestHTTPClientUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, "k", "m", time.Second, nil)
	_, err := c.Generate(context.Background(), "hola")
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if ClassifyFailure(err) != FailureTransport {
		t.Fatalf("expected transport classification")
	}
}

func TestClassifyFailure(t *testing.T) {
	cases := map[string]error{
		FailureTransport: context.DeadlineExceeded,
		FailureMalformed: errors.Join(errors.New("x"), ErrMalformedResponse),
		FailureEmpty:     ErrEmptyGeneration,
	}
	for want, err := range cases {
		if got := ClassifyFailure(err); got != want {
			t.Fatalf("ClassifyFailure(%v) = %s, want %s", err, got, want)
		}
	}
}
