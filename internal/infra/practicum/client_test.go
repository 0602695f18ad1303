package practicum

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewClient(srv.URL+"/api/user_api/homework_statuses/", "secret-token", srv.Client(), logger), srv
}

func TestFetchSendsCursorAndAuth(t *testing.T) {
	var gotAuth, gotFrom, gotPath string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"homeworks":[],"current_date":1700000000}`))
	})

	body, err := client.Fetch(context.Background(), 1699999000)
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if gotAuth != "OAuth secret-token" {
		t.Fatalf("unexpected Authorization header: %q", gotAuth)
	}
	if gotFrom != "1699999000" {
		t.Fatalf("unexpected from_date: %q", gotFrom)
	}
	if gotPath != "/api/user_api/homework_statuses/" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if string(body) != `{"homeworks":[],"current_date":1700000000}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestFetchHTTPFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusServiceUnavailable)
	})

	_, err := client.Fetch(context.Background(), 1)
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %v", err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status code: %d", httpErr.StatusCode)
	}
	if !strings.Contains(httpErr.Body, "upstream down") {
		t.Fatalf("expected body excerpt, got %q", httpErr.Body)
	}
	if strings.Contains(err.Error(), "secret-token") {
		t.Fatalf("error leaks the token: %v", err)
	}
}

func TestFetchApplicationFailure(t *testing.T) {
	cases := map[string]struct {
		body string
		code string
		msg  string
	}{
		"code only":       {`{"code":"not_authenticated"}`, "not_authenticated", ""},
		"error only":      {`{"error":"bad from_date"}`, "", "bad from_date"},
		"code and error":  {`{"code":"UnknownError","error":{"message":"boom"}}`, "UnknownError", "boom"},
		"numeric failure": {`{"code":401}`, "401", ""},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			})

			_, err := client.Fetch(context.Background(), 1)
			var appErr *ApplicationError
			if !errors.As(err, &appErr) {
				t.Fatalf("expected ApplicationError, got %v", err)
			}
			if appErr.Code != tc.code || appErr.Message != tc.msg {
				t.Fatalf("unexpected error fields: code=%q msg=%q", appErr.Code, appErr.Message)
			}
		})
	}
}

func TestFetchPassesThroughNonObjects(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[1,2,3]`))
	})

	body, err := client.Fetch(context.Background(), 1)
	if err != nil {
		t.Fatalf("expected body to be left for the validator, got %v", err)
	}
	if string(body) != `[1,2,3]` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestFetchCodeOKIsNotAFailure(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code":200,"homeworks":[]}`))
	})

	if _, err := client.Fetch(context.Background(), 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestFetchTransportFailure(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, err := client.Fetch(context.Background(), 1)
	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestTransportErrorTextIsStableAcrossCalls(t *testing.T) {
	client, srv := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})
	srv.Close()

	_, first := client.Fetch(context.Background(), 42)
	_, second := client.Fetch(context.Background(), 42)
	if first == nil || second == nil {
		t.Fatalf("expected both calls to fail")
	}
	if first.Error() != second.Error() {
		t.Fatalf("error text differs between identical failures:\n%v\n%v", first, second)
	}
}
