package ingest

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"synaptiq-be/internal/apperror"
)

// Document is the loaded content of one source.
type Document struct {
	Title string
	Text  string
}

var (
	scriptPattern = regexp.MustCompile(`(?is)<(script|style|noscript)[^>]*>.*?</(script|style|noscript)>`)
	tagPattern    = regexp.MustCompile(`(?s)<[^>]+>`)
	spacePattern  = regexp.MustCompile(`\s+`)
	titlePattern  = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
)

// WebpageLoader fetches a page and reduces it to plain text.
type WebpageLoader struct {
	Client *http.Client
}

func NewWebpageLoader() *WebpageLoader {
	return &WebpageLoader{
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

func (l *WebpageLoader) Load(ctx context.Context, pageURL string) (*Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, apperror.NewValidation("invalid web page url: %s", pageURL)
	}
	req.Header.Set("User-Agent", "synaptiq-ingest/1.0")

	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, apperror.NewUpstream("failed to fetch web page", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.NewUpstream(fmt.Sprintf("web page returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.NewUpstream("failed to read web page body", err)
	}

	raw := string(body)
	title := pageURL
	if match := titlePattern.FindStringSubmatch(raw); len(match) == 2 {
		if t := strings.TrimSpace(html.UnescapeString(match[1])); t != "" {
			title = t
		}
	}

	return &Document{Title: title, Text: StripHTML(raw)}, nil
}

// StripHTML removes markup and collapses whitespace.
func StripHTML(raw string) string {
	cleaned := scriptPattern.ReplaceAllString(raw, " ")
	cleaned = tagPattern.ReplaceAllString(cleaned, " ")
	cleaned = html.UnescapeString(cleaned)
	cleaned = spacePattern.ReplaceAllString(cleaned, " ")
	return strings.TrimSpace(cleaned)
}
