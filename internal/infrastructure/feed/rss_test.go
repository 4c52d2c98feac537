package feed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"JobSniper/internal/domain"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
  <channel>
    <title>Freelance Jobs</title>
    <item>
      <title>  Python   Scraper
      Needed </title>
      <link>https://example.com/jobs/1</link>
      <pubDate>Mon, 02 Jan 2006 15:04:05 GMT</pubDate>
      <description><![CDATA[<p>Build a <b>scraping</b> bot for product data.</p>]]></description>
    </item>
    <item>
      <title>No Link Job</title>
      <description>this one is broken</description>
    </item>
    <item>
      <title>Second Job</title>
      <link>https://example.com/jobs/2</link>
    </item>
  </channel>
</rss>`

func TestFetchParsesAndNormalizes(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ua := r.Header.Get("User-Agent"); ua != userAgent {
			t.Errorf("expected browser user agent, got %q", ua)
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	fetcher := NewRSSFetcher(server.Client(), nil)
	jobs, err := fetcher.Fetch(context.Background(), domain.Feed{Name: "Example", URL: server.URL + "/rss"})
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}

	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs (linkless entry dropped), got %d", len(jobs))
	}

	first := jobs[0]
	if first.ID != "https://example.com/jobs/1" {
		t.Fatalf("unexpected id: %s", first.ID)
	}
	if first.Title != "Python Scraper Needed" {
		t.Fatalf("whitespace not collapsed: %q", first.Title)
	}
	if first.Summary != "Build a scraping bot for product data." {
		t.Fatalf("html not stripped: %q", first.Summary)
	}
	if first.Published != "Mon, 02 Jan 2006 15:04:05 GMT" {
		t.Fatalf("unexpected published: %q", first.Published)
	}
	if first.Source != "Example" {
		t.Fatalf("unexpected source label: %q", first.Source)
	}

	if jobs[1].Published != noPublished {
		t.Fatalf("missing pubDate should use placeholder, got %q", jobs[1].Published)
	}
}

func TestFetchHTTPErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer server.Close()

	fetcher := NewRSSFetcher(server.Client(), nil)
	if _, err := fetcher.Fetch(context.Background(), domain.Feed{Name: "Example", URL: server.URL}); err == nil {
		t.Fatal("expected error on 403")
	}
}

func TestFetchInvalidURL(t *testing.T) {
	t.Parallel()

	fetcher := NewRSSFetcher(nil, nil)
	if _, err := fetcher.Fetch(context.Background(), domain.Feed{Name: "Bad", URL: "not a url"}); err == nil {
		t.Fatal("expected error for malformed url")
	}
}

func TestFetchUnparseableBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not xml"))
	}))
	defer server.Close()

	fetcher := NewRSSFetcher(server.Client(), nil)
	if _, err := fetcher.Fetch(context.Background(), domain.Feed{Name: "Example", URL: server.URL}); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestStripHTMLPassthrough(t *testing.T) {
	t.Parallel()

	if got := stripHTML("plain text summary"); got != "plain text summary" {
		t.Fatalf("plain text must pass through unchanged, got %q", got)
	}
}
