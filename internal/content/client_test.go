// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pdiddy/scholar-engine/internal/httputil"
	"github.com/pdiddy/scholar-engine/pkg/types"
)

func fastRetries(t *testing.T) {
	t.Helper()
	old := httputil.RetryBaseDelay
	httputil.RetryBaseDelay = time.Millisecond
	t.Cleanup(func() { httputil.RetryBaseDelay = old })
}

func TestRecordText(t *testing.T) {
	tests := []struct {
		name string
		rec  Record
		want string
	}{
		{"content preferred", Record{Content: "body", Description: "summary"}, "body"},
		{"description fallback", Record{Description: "summary"}, "summary"},
		{"both empty", Record{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rec.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFetchIdea(t *testing.T) {
	var gotPath, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(Record{
			ID:    "idea-1",
			Title: "Machine Learning in Healthcare",
			Tags:  []string{"ml", "health"},
		})
	}))
	defer srv.Close()

	c := NewClient(types.ContentConfig{
		HTTPConfig: types.HTTPConfig{UserAgent: "test/0.1"},
		BaseURL:    srv.URL,
		APIToken:   "tok_123",
	})
	rec, err := c.Fetch(context.Background(), types.SourceIdeas, "idea-1")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotPath != "/ideas/idea-1" {
		t.Errorf("path = %q", gotPath)
	}
	if gotAuth != "Bearer tok_123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if rec.Title != "Machine Learning in Healthcare" || len(rec.Tags) != 2 {
		t.Errorf("rec = %+v", rec)
	}
}

func TestFetchBuilderDocumentPath(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(Record{Title: "Draft chapter"})
	}))
	defer srv.Close()

	c := NewClient(types.ContentConfig{BaseURL: srv.URL})
	rec, err := c.Fetch(context.Background(), types.SourceBuilder, "doc-9")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if gotPath != "/builder/documents/doc-9" {
		t.Errorf("path = %q", gotPath)
	}
	// A response without an id keeps the requested one.
	if rec.ID != "doc-9" {
		t.Errorf("ID = %q, want doc-9", rec.ID)
	}
}

func TestFetchUnknownSource(t *testing.T) {
	c := NewClient(types.ContentConfig{BaseURL: "http://unused.invalid"})
	_, err := c.Fetch(context.Background(), types.ContentSource("wiki"), "x")
	if !errors.Is(err, types.ErrInvalidRequest) {
		t.Errorf("err = %v, want ErrInvalidRequest", err)
	}
}

func TestFetchFailuresWrapUpstreamUnavailable(t *testing.T) {
	fastRetries(t)

	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"not found", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			c := NewClient(types.ContentConfig{BaseURL: srv.URL})
			_, err := c.Fetch(context.Background(), types.SourceIdeas, "x")
			if !errors.Is(err, types.ErrUpstreamUnavailable) {
				t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
			}
		})
	}
}

func TestFetchUnreachableHost(t *testing.T) {
	c := NewClient(types.ContentConfig{BaseURL: "http://127.0.0.1:1"})
	_, err := c.Fetch(context.Background(), types.SourceIdeas, "x")
	if !errors.Is(err, types.ErrUpstreamUnavailable) {
		t.Errorf("err = %v, want ErrUpstreamUnavailable", err)
	}
}
