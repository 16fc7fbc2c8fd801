package relay

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestUnwrapJSONEnvelope(t *testing.T) {
	body := `{"contents":"<html>hello</html>","status":{"http_code":200}}`
	if got := Unwrap(body); got != "<html>hello</html>" {
		t.Fatalf("Unwrap envelope = %q", got)
	}
}

func TestUnwrapRawBody(t *testing.T) {
	raw := "<html>raw page</html>"
	if got := Unwrap(raw); got != raw {
		t.Fatalf("Unwrap raw = %q, want unchanged", got)
	}
}

func TestUnwrapMalformedJSONFallsBackToRaw(t *testing.T) {
	body := `{"contents": truncated`
	if got := Unwrap(body); got != body {
		t.Fatalf("Unwrap malformed json = %q, want body unchanged", got)
	}
}

func TestGetPassesTargetAndUnwraps(t *testing.T) {
	var gotTarget string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotTarget = r.URL.Query().Get("url")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"contents":"<rss>payload</rss>"}`))
	}))
	defer ts.Close()

	c := New(ts.URL+"/get?url=", 5*time.Second)
	got, err := c.Get(context.Background(), "https://t.me/s/somechannel")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got != "<rss>payload</rss>" {
		t.Fatalf("Get = %q", got)
	}
	if gotTarget != "https://t.me/s/somechannel" {
		t.Fatalf("relay received target %q", gotTarget)
	}
}

func TestGetNonOKStatusIsError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	c := New(ts.URL+"/get?url=", 5*time.Second)
	if _, err := c.Get(context.Background(), "https://t.me/s/somechannel"); err == nil {
		t.Fatalf("expected error for non-OK status")
	}
}
