package lrclib

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL+"/api/"), WithTimeout(2*time.Second))
}

func TestGet_SendsParameters(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/get" {
			t.Errorf("path = %q, want /api/get", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("artist_name") != "Artist" || q.Get("track_name") != "Title" {
			t.Errorf("unexpected query: %v", q)
		}
		if q.Get("album_name") != "Album" {
			t.Errorf("album_name = %q, want Album", q.Get("album_name"))
		}
		if q.Get("duration") != "215" {
			t.Errorf("duration = %q, want 215", q.Get("duration"))
		}
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("User-Agent = %q", ua)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":7,"trackName":"Title","artistName":"Artist","syncedLyrics":"[00:01.00]Hi"}`))
	})

	res, err := c.Get(context.Background(), "Artist", "Title", "Album", 215*time.Second)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if res.ID != 7 || !res.HasSyncedLyrics() {
		t.Errorf("unexpected result: %+v", res)
	}
	if res.Text() != "[00:01.00]Hi" {
		t.Errorf("Text() = %q", res.Text())
	}
}

func TestGet_NotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})

	_, err := c.Get(context.Background(), "A", "B", "", 0)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestGet_ServerError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := c.Get(context.Background(), "A", "B", "", 0)
	if err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want status error", err)
	}
}

func TestSearch(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("q") != "some song" {
			t.Errorf("q = %q", r.URL.Query().Get("q"))
		}
		_, _ = w.Write([]byte(`[{"id":1,"trackName":"A","plainLyrics":"la la"},{"id":2,"trackName":"B"}]`))
	})

	results, err := c.Search(context.Background(), "some song")
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}
	if !results[0].HasPlainLyrics() || results[0].Text() != "la la" {
		t.Errorf("results[0] = %+v", results[0])
	}
	if results[1].HasPlainLyrics() || results[1].HasSyncedLyrics() {
		t.Errorf("results[1] should have no lyrics: %+v", results[1])
	}
}

func TestNew_Defaults(t *testing.T) {
	c := New()
	if c.baseURL != DefaultBaseURL {
		t.Errorf("baseURL = %q, want %q", c.baseURL, DefaultBaseURL)
	}
	if c.httpClient.Timeout != DefaultTimeout {
		t.Errorf("timeout = %v, want %v", c.httpClient.Timeout, DefaultTimeout)
	}
}
