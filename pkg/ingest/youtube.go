package ingest

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"synaptiq-be/internal/apperror"
)

// YoutubeLoader pulls the caption track and title of a video. Only videos
// with an available transcript can be ingested.
type YoutubeLoader struct {
	Client *http.Client
}

func NewYoutubeLoader() *YoutubeLoader {
	return &YoutubeLoader{
		Client: &http.Client{Timeout: 30 * time.Second},
	}
}

type timedTextBody struct {
	Texts []timedTextEntry `xml:"text"`
}

type timedTextEntry struct {
	Value string `xml:",chardata"`
}

type oembedBody struct {
	Title string `json:"title"`
}

func (l *YoutubeLoader) Load(ctx context.Context, videoURL string) (*Document, error) {
	videoId, err := extractVideoId(videoURL)
	if err != nil {
		return nil, err
	}

	transcript, err := l.fetchTranscript(ctx, videoId)
	if err != nil {
		return nil, err
	}

	title, err := l.fetchTitle(ctx, videoURL)
	if err != nil {
		// The transcript is the payload; a missing title falls back to the id.
		title = videoId
	}

	return &Document{Title: title, Text: transcript}, nil
}

func (l *YoutubeLoader) fetchTranscript(ctx context.Context, videoId string) (string, error) {
	endpoint := fmt.Sprintf("https://video.google.com/timedtext?lang=en&v=%s", url.QueryEscape(videoId))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return "", apperror.NewUpstream("failed to fetch transcript", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apperror.NewUpstream(fmt.Sprintf("transcript endpoint returned status %d", resp.StatusCode), nil)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", apperror.NewUpstream("failed to read transcript body", err)
	}

	var parsed timedTextBody
	if err := xml.Unmarshal(body, &parsed); err != nil {
		return "", apperror.NewUpstream("failed to parse transcript", err)
	}
	if len(parsed.Texts) == 0 {
		return "", apperror.NewUpstream("video has no transcript", nil)
	}

	lines := make([]string, 0, len(parsed.Texts))
	for _, entry := range parsed.Texts {
		line := strings.TrimSpace(html.UnescapeString(entry.Value))
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, " "), nil
}

func (l *YoutubeLoader) fetchTitle(ctx context.Context, videoURL string) (string, error) {
	endpoint := fmt.Sprintf("https://www.youtube.com/oembed?url=%s&format=json", url.QueryEscape(videoURL))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", err
	}

	resp, err := l.Client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("oembed returned status %d", resp.StatusCode)
	}

	var parsed oembedBody
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", err
	}
	return parsed.Title, nil
}

func extractVideoId(videoURL string) (string, error) {
	parsed, err := url.Parse(videoURL)
	if err != nil {
		return "", apperror.NewValidation("invalid youtube url: %s", videoURL)
	}

	switch {
	case strings.Contains(parsed.Host, "youtu.be"):
		id := strings.TrimPrefix(parsed.Path, "/")
		if id != "" {
			return id, nil
		}
	case strings.Contains(parsed.Host, "youtube.com"):
		if id := parsed.Query().Get("v"); id != "" {
			return id, nil
		}
		if strings.HasPrefix(parsed.Path, "/shorts/") || strings.HasPrefix(parsed.Path, "/embed/") {
			parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
			if len(parts) == 2 && parts[1] != "" {
				return parts[1], nil
			}
		}
	}
	return "", apperror.NewValidation("could not extract video id from url: %s", videoURL)
}
