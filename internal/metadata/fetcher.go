package metadata

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bookmarks-rocks/api/internal/domain"
	"golang.org/x/net/html"
)

const (
	// maxBodyBytes caps how much of a page is read for parsing.
	maxBodyBytes = 128 * 1024

	// Some sites block obvious non-browser clients.
	userAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
)

// Fetcher retrieves a page and extracts title, description and keyword
// tags from its markup. Every fetch runs under the configured timeout
// so a hanging remote endpoint cannot pin a worker.
type Fetcher struct {
	client  *http.Client
	timeout time.Duration
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{}, // per-fetch deadline comes from the context
		timeout: timeout,
	}
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (domain.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("do request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return domain.Metadata{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	meta, err := Parse(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return domain.Metadata{}, fmt.Errorf("parse page: %w", err)
	}
	return meta, nil
}

// Parse extracts metadata from an HTML document. <title> wins over
// og:title and twitter:title; plain meta description wins over the
// Open Graph and Twitter variants; tags come from meta keywords.
func Parse(r io.Reader) (domain.Metadata, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return domain.Metadata{}, err
	}

	var title, ogTitle, description, ogDescription, keywords string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "title":
				if title == "" && n.FirstChild != nil {
					title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				var name, property, content string
				for _, attr := range n.Attr {
					switch attr.Key {
					case "name":
						name = strings.ToLower(attr.Val)
					case "property":
						property = strings.ToLower(attr.Val)
					case "content":
						content = attr.Val
					}
				}

				switch {
				case name == "description":
					description = content
				case name == "keywords":
					keywords = content
				case property == "og:title", name == "twitter:title":
					if ogTitle == "" {
						ogTitle = content
					}
				case property == "og:description", name == "twitter:description":
					if ogDescription == "" {
						ogDescription = content
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	if title == "" {
		title = strings.TrimSpace(ogTitle)
	}
	if description == "" {
		description = ogDescription
	}

	return domain.Metadata{
		Title:       title,
		Description: strings.TrimSpace(description),
		Tags:        splitKeywords(keywords),
	}, nil
}

func splitKeywords(s string) []string {
	if s == "" {
		return nil
	}
	var tags []string
	for _, part := range strings.Split(s, ",") {
		if tag := strings.TrimSpace(part); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
