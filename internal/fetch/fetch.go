// Package fetch retrieves remote pages for the URL-derived sections and
// the sitemap driver.
//
// Retrieval is bounded: a per-request timeout and a small fixed retry
// count. Exhausting the retries is a fatal error for the requesting
// section, never a silent skip.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"github.com/repopdf/repopdf/internal/assemble"
)

// Sentinel errors for retrieval and conversion.
var (
	ErrFetch      = errors.New("fetch failed")
	ErrConversion = errors.New("content conversion failed")
)

const (
	defaultTimeout = 20 * time.Second
	maxAttempts    = 3
	retryDelay     = 2 * time.Second
	maxBodyBytes   = 10 << 20 // 10 MiB cap on fetched pages
	userAgent      = "repopdf/1.0 (+https://github.com/repopdf/repopdf)"
)

// Client fetches pages with bounded timeout and retries.
type Client struct {
	http     *http.Client
	attempts int
	delay    time.Duration
}

// NewClient creates a Client. A non-positive timeout selects the default.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (max 5)")
				}
				return nil
			},
		},
		attempts: maxAttempts,
		delay:    retryDelay,
	}
}

// Get retrieves a URL, retrying transient failures. Client errors (4xx)
// fail immediately; network errors and 5xx responses are retried until the
// attempt budget runs out.
func (c *Client) Get(ctx context.Context, rawURL string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= c.attempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.delay):
			}
		}

		body, retryable, err := c.get(ctx, rawURL)
		if err == nil {
			return body, nil
		}
		lastErr = err
		if !retryable {
			break
		}
	}
	return nil, fmt.Errorf("%w: %s: %v", ErrFetch, rawURL, lastErr)
}

func (c *Client) get(ctx context.Context, rawURL string) (body []byte, retryable bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, true, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode >= 500:
		return nil, true, fmt.Errorf("server error: %s", resp.Status)
	case resp.StatusCode >= 400:
		return nil, false, fmt.Errorf("request failed: %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, true, err
	}
	return data, false, nil
}

// PageMeta fetches a page and extracts title and description metadata.
func (c *Client) PageMeta(ctx context.Context, rawURL string) (*assemble.PageMeta, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	meta := &assemble.PageMeta{URL: rawURL}
	parsed, _ := url.Parse(rawURL)
	if article, err := readability.FromReader(strings.NewReader(string(body)), parsed); err == nil {
		meta.Title = strings.TrimSpace(article.Title)
		meta.Description = strings.TrimSpace(article.Excerpt)
	}
	if meta.Title == "" {
		meta.Title = HTMLTitle(body)
	}
	return meta, nil
}

// PageBody fetches a page and converts its content to Markdown.
func (c *Client) PageBody(ctx context.Context, rawURL string) (*assemble.PageBody, error) {
	body, err := c.Get(ctx, rawURL)
	if err != nil {
		return nil, err
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}

	converter := md.NewConverter(parsed.Host, true, nil)
	converter.Use(plugin.GitHubFlavored())

	markdown, err := converter.ConvertString(string(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConversion, err)
	}

	return &assemble.PageBody{
		Host:     parsed.Host,
		URL:      rawURL,
		Markdown: strings.TrimSpace(markdown),
	}, nil
}

// HTMLTitle extracts the <title> text from an HTML document, or "".
func HTMLTitle(body []byte) string {
	doc, err := html.Parse(strings.NewReader(string(body)))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if title != "" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}
