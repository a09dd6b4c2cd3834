package youtube

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_Search(t *testing.T) {
	var gotQuery, gotKey, gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		q := r.URL.Query()
		gotQuery = q.Get("q")
		gotKey = q.Get("key")
		gotMax = q.Get("maxResults")

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[
			{"id":{"videoId":"aaaaaaaaaaa"}},
			{"id":{"videoId":""}},
			{"id":{"videoId":"bbbbbbbbbbb"}}
		]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	ids, err := client.Search(context.Background(), "some query", 5)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotQuery != "some query" || gotKey != "test-key" || gotMax != "5" {
		t.Errorf("query params = (%q, %q, %q)", gotQuery, gotKey, gotMax)
	}
	if len(ids) != 2 {
		t.Fatalf("got %d ids, want 2 (empty id skipped)", len(ids))
	}
	if ids[0] != "aaaaaaaaaaa" || ids[1] != "bbbbbbbbbbb" {
		t.Errorf("ids = %v", ids)
	}
}

func TestClient_Videos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/videos" {
			t.Errorf("path = %q, want /videos", r.URL.Path)
		}
		if got := r.URL.Query().Get("id"); got != "aaaaaaaaaaa,bbbbbbbbbbb" {
			t.Errorf("id param = %q", got)
		}
		if got := r.URL.Query().Get("part"); !strings.Contains(got, "contentDetails") {
			t.Errorf("part param = %q, missing contentDetails", got)
		}

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{
			"id":"aaaaaaaaaaa",
			"snippet":{
				"title":"Track A",
				"channelTitle":"Channel A",
				"publishedAt":"2023-05-01T12:00:00Z",
				"thumbnails":{"high":{"url":"https://img/h.jpg"}}
			},
			"contentDetails":{"duration":"PT5M9S"},
			"statistics":{"viewCount":"12345"}
		}]}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	videos, err := client.Videos(context.Background(), []string{"aaaaaaaaaaa", "bbbbbbbbbbb"})
	if err != nil {
		t.Fatalf("Videos() error = %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("got %d videos, want 1", len(videos))
	}

	v := videos[0]
	if v.Snippet.Title != "Track A" || v.ContentDetails.Duration != "PT5M9S" || v.Statistics.ViewCount != "12345" {
		t.Errorf("video = %+v", v)
	}
	if v.Snippet.Thumbnails.High == nil || v.Snippet.Thumbnails.High.URL != "https://img/h.jpg" {
		t.Errorf("thumbnails = %+v", v.Snippet.Thumbnails)
	}
}

func TestClient_VideosEmptyIDs(t *testing.T) {
	client := NewClient(Config{APIKey: "test-key"})
	videos, err := client.Videos(context.Background(), nil)
	if err != nil {
		t.Fatalf("Videos(nil) error = %v", err)
	}
	if videos != nil {
		t.Errorf("Videos(nil) = %v, want nil without a network call", videos)
	}
}

func TestClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":{"message":"quotaExceeded"}}`))
	}))
	defer srv.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL})
	_, err := client.Search(context.Background(), "q", 5)
	if err == nil {
		t.Fatal("Search() expected error")
	}
	if !strings.Contains(err.Error(), "403") || !strings.Contains(err.Error(), "quotaExceeded") {
		t.Errorf("error %q should embed status and body", err)
	}
}
