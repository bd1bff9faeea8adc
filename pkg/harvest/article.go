package harvest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"

	"github.com/go-shiori/go-readability"
)

// DefaultMaxBodyBytes caps fetched pages at 10 MB.
const DefaultMaxBodyBytes = 10 * 1024 * 1024

// Article is the readable part of a web page.
type Article struct {
	Title    string
	Byline   string
	SiteName string
	Text     string
}

// Fetch downloads rawURL with browser-like headers to avoid being blocked.
// Bodies larger than maxBytes are rejected; maxBytes <= 0 means
// DefaultMaxBodyBytes.
func Fetch(ctx context.Context, client *http.Client, rawURL string, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ja;q=0.8")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch %s: got status code %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > maxBytes {
		return nil, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBytes)
	}

	// Read one byte past the limit to tell a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("response body exceeded maximum size limit of %d bytes", maxBytes)
	}
	return body, nil
}

// Extract strips ruby annotations from html and pulls out the readable
// article.
func Extract(html []byte, pageURL string) (Article, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("invalid page url %q: %w", pageURL, err)
	}
	article, err := readability.FromReader(bytes.NewReader(SanitizeRuby(html)), parsed)
	if err != nil {
		return Article{}, fmt.Errorf("failed to extract article: %w", err)
	}
	return Article{
		Title:    article.Title,
		Byline:   article.Byline,
		SiteName: article.SiteName,
		Text:     article.TextContent,
	}, nil
}

var (
	// (?s) allows dot to match newlines
	// (?i) makes it case-insensitive
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses
// (<rp>...</rp>). Readability keeps furigana as plain text, so "漢字" would
// otherwise come out as "漢字かんじ".
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, nil)
	return reRP.ReplaceAll(cleaned, nil)
}
