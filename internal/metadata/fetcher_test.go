package metadata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/bookmarks-rocks/api/internal/metadata"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
<title>  REST — Wikipedia  </title>
<meta name="description" content="Representational State Transfer is a software architecture style.">
<meta name="keywords" content="rest, http , architecture,">
<meta property="og:title" content="REST (og)">
<meta property="og:description" content="og description">
</head>
<body><h1>REST</h1></body>
</html>`

func TestParse_TitleDescriptionKeywords(t *testing.T) {
	meta, err := metadata.Parse(strings.NewReader(samplePage))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	if meta.Title != "REST — Wikipedia" {
		t.Errorf("title = %q", meta.Title)
	}
	if meta.Description != "Representational State Transfer is a software architecture style." {
		t.Errorf("description = %q", meta.Description)
	}
	want := []string{"rest", "http", "architecture"}
	if len(meta.Tags) != len(want) {
		t.Fatalf("tags = %v, want %v", meta.Tags, want)
	}
	for i := range want {
		if meta.Tags[i] != want[i] {
			t.Errorf("tags[%d] = %q, want %q", i, meta.Tags[i], want[i])
		}
	}
}

func TestParse_FallsBackToOpenGraph(t *testing.T) {
	page := `<html><head>
		<meta property="og:title" content="OG Title">
		<meta property="og:description" content="OG description">
	</head><body></body></html>`

	meta, err := metadata.Parse(strings.NewReader(page))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if meta.Title != "OG Title" {
		t.Errorf("title = %q, want OG Title", meta.Title)
	}
	if meta.Description != "OG description" {
		t.Errorf("description = %q", meta.Description)
	}
}

func TestParse_EmptyPage(t *testing.T) {
	meta, err := metadata.Parse(strings.NewReader("<html></html>"))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if meta.Title != "" || meta.Description != "" || meta.Tags != nil {
		t.Errorf("expected empty metadata, got %+v", meta)
	}
}

func TestFetch_ExtractsFromLivePage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	f := metadata.NewFetcher(5 * time.Second)
	meta, err := f.Fetch(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if meta.Title != "REST — Wikipedia" {
		t.Errorf("title = %q", meta.Title)
	}
}

func TestFetch_Non200IsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	f := metadata.NewFetcher(5 * time.Second)
	if _, err := f.Fetch(context.Background(), srv.URL); err == nil {
		t.Fatal("expected error for 410 response")
	}
}

func TestFetch_TimeoutOnSlowServer(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
	}))
	defer func() {
		close(release)
		srv.Close()
	}()

	f := metadata.NewFetcher(100 * time.Millisecond)

	start := time.Now()
	_, err := f.Fetch(context.Background(), srv.URL)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("fetch took %s, timeout not applied", elapsed)
	}
}

func TestFetch_BadURL(t *testing.T) {
	f := metadata.NewFetcher(time.Second)
	if _, err := f.Fetch(context.Background(), "http://127.0.0.1:0"); err == nil {
		t.Fatal("expected connection error")
	}
}
