// Package ingest fetches job description pages and reduces them to plain text
// suitable for ranking prompts.
package ingest

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"

	"github.com/jonathan/candidate-ranker/internal/sanitize"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; CandidateRanker/1.0)"

// maxDescriptionChars caps the extracted text so a pathological page cannot
// blow up prompt size downstream.
const maxDescriptionChars = 20000

// Error represents a failure fetching or parsing a job description page.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("ingest error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("ingest error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Fetcher retrieves job description pages over HTTP.
type Fetcher struct {
	http *resty.Client
}

// NewFetcher creates a Fetcher with the given request timeout. A zero timeout
// uses DefaultTimeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Fetcher{
		http: resty.New().
			SetTimeout(timeout).
			SetHeader("User-Agent", DefaultUserAgent),
	}
}

// JobDescription fetches the page at urlStr and returns its main body text.
func (f *Fetcher) JobDescription(ctx context.Context, urlStr string) (string, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return "", &Error{URL: urlStr, Message: "invalid URL", Cause: err}
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("unsupported scheme %q", parsed.Scheme)}
	}

	resp, err := f.http.R().SetContext(ctx).Get(urlStr)
	if err != nil {
		return "", &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	if resp.StatusCode() != 200 {
		return "", &Error{URL: urlStr, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode())}
	}

	text, err := ExtractMainText(string(resp.Body()), JobPostingSelectors())
	if err != nil {
		return "", &Error{URL: urlStr, Message: "failed to parse HTML", Cause: err}
	}
	if strings.TrimSpace(text) == "" {
		return "", &Error{URL: urlStr, Message: "page contained no extractable text"}
	}
	return sanitize.Truncate(text, maxDescriptionChars), nil
}

// ExtractMainText parses HTML and returns the main body text. Noise elements
// are stripped first; contentSelectors are tried in order and the body element
// is the fallback when none match.
func ExtractMainText(html string, contentSelectors []string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()

	var mainContent *goquery.Selection
	for _, selector := range contentSelectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			mainContent = selection.First()
			break
		}
	}
	if mainContent == nil {
		mainContent = doc.Find("body")
	}

	return cleanWhitespace(mainContent.Text()), nil
}

// JobPostingSelectors returns selectors tried in order on job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace trims each line and drops empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
