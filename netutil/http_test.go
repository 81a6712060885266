// This code is available on the terms of the project LICENSE.md file,
// also available online at https://blueoakcouncil.org/license/1.0.0.

package netutil

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGet(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Token")
		w.Write([]byte(`{"answer":42}`))
	}))
	defer srv.Close()

	var thing struct {
		Answer int `json:"answer"`
	}
	if err := Get(context.Background(), srv.URL, &thing, WithRequestHeader("X-Token", "abc")); err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if thing.Answer != 42 {
		t.Fatalf("answer = %d", thing.Answer)
	}
	if gotHeader != "abc" {
		t.Fatalf("header = %q", gotHeader)
	}

	// A response past the size limit is a decode error, not a silent
	// truncation.
	if err := Get(context.Background(), srv.URL, &thing, WithSizeLimit(5)); err == nil {
		t.Fatalf("no error for truncated response")
	}

	// nil thing skips decoding entirely.
	if err := Get(context.Background(), srv.URL, nil, WithSizeLimit(5)); err != nil {
		t.Fatalf("Get with nil thing error: %v", err)
	}
}

func TestGetStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "nope", http.StatusTeapot)
	}))
	defer srv.Close()
	if err := Get(context.Background(), srv.URL, nil); err == nil {
		t.Fatalf("no error for non-200 status")
	}
}
