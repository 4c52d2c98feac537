package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"

	"JobSniper/internal/domain"
	"JobSniper/internal/ports"
)

// Browser-like headers; several job boards reject default Go client UAs.
const (
	userAgent    = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"
	acceptHeader = "application/rss+xml, application/xml, text/xml, */*"
)

const noPublished = "date not available"

// RSSFetcher pulls and normalizes postings from RSS/Atom feeds.
type RSSFetcher struct {
	client *http.Client
	parser *gofeed.Parser
	logger *slog.Logger
}

var _ ports.JobSource = (*RSSFetcher)(nil)

// NewRSSFetcher wires an HTTP client; the default carries a 15s timeout.
func NewRSSFetcher(client *http.Client, logger *slog.Logger) *RSSFetcher {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RSSFetcher{
		client: client,
		parser: gofeed.NewParser(),
		logger: logger,
	}
}

// Fetch retrieves one feed and returns its postings in feed-native order.
// Entries lacking a usable link or title are dropped here.
func (f *RSSFetcher) Fetch(ctx context.Context, feed domain.Feed) ([]domain.Job, error) {
	if _, err := url.ParseRequestURI(feed.URL); err != nil {
		return nil, fmt.Errorf("invalid feed url %q: %w", feed.URL, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned %s", feed.Name, resp.Status)
	}

	parsed, err := f.parser.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse feed %s: %w", feed.Name, err)
	}

	jobs := make([]domain.Job, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		job, ok := f.toJob(item, feed.Name)
		if !ok {
			f.logger.Debug("dropping entry without link or title", "feed", feed.Name)
			continue
		}
		jobs = append(jobs, job)
	}

	f.logger.Debug("feed parsed", "feed", feed.Name, "entries", len(parsed.Items), "jobs", len(jobs))
	return jobs, nil
}

func (f *RSSFetcher) toJob(item *gofeed.Item, source string) (domain.Job, bool) {
	link := strings.TrimSpace(item.Link)
	title := cleanText(item.Title)
	if link == "" || title == "" {
		return domain.Job{}, false
	}

	summary := item.Description
	if summary == "" {
		summary = item.Content
	}

	published := strings.TrimSpace(item.Published)
	if published == "" {
		published = noPublished
	}

	return domain.Job{
		ID:        link,
		Title:     title,
		Summary:   cleanText(stripHTML(summary)),
		Published: published,
		Source:    source,
	}, true
}

// stripHTML flattens markup that job boards embed in summaries.
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return s
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	return doc.Text()
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
