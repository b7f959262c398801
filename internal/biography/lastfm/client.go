package lastfm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"rcg/internal/gender"
)

// errorArtistNotFound is Last.fm's "invalid parameters" code returned for
// unknown artists.
const errorArtistNotFound = 6

const readMorePrefix = `<a href="https://www.last.fm/music/`

var htmlTag = regexp.MustCompile(`<[^>]+>`)

// Bio models the biography block of artist.getInfo.
type Bio struct {
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// Artist models the artist block of artist.getInfo.
type Artist struct {
	Name string `json:"name"`
	MBID string `json:"mbid"`
	URL  string `json:"url"`
	Bio  Bio    `json:"bio"`
}

type infoResponse struct {
	Artist  *Artist `json:"artist"`
	Error   int     `json:"error"`
	Message string  `json:"message"`
}

// APIError is a Last.fm error payload.
type APIError struct {
	Code    int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("lastfm error %d: %s", e.Code, e.Message)
}

// Client provides access to the Last.fm API.
type Client struct {
	apiKey     string
	baseURL    string
	language   string
	httpClient *http.Client
}

var _ gender.BiographySource = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a Last.fm client.
func New(apiKey, baseURL, language string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("lastfm api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("lastfm base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    baseURL,
		language:   strings.TrimSpace(language),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the source in logs and audit columns.
func (c *Client) Name() string { return "lastfm" }

// ArtistInfo calls artist.getInfo for name.
func (c *Client) ArtistInfo(ctx context.Context, name string) (*Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, errors.New("artist name must not be empty")
	}
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse lastfm url: %w", err)
	}
	params := url.Values{}
	params.Set("method", "artist.getinfo")
	params.Set("artist", name)
	params.Set("api_key", c.apiKey)
	params.Set("autocorrect", "1")
	params.Set("format", "json")
	if c.language != "" {
		params.Set("lang", c.language)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return nil, fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	var payload infoResponse
	decodeErr := json.NewDecoder(resp.Body).Decode(&payload)
	if decodeErr == nil && payload.Error != 0 {
		apiErr := &APIError{Code: payload.Error, Message: payload.Message}
		if payload.Error == errorArtistNotFound {
			return nil, fmt.Errorf("%w: %w", gender.ErrNotFound, apiErr)
		}
		return nil, apiErr
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lastfm artist.getinfo returned %d (latency=%v)", resp.StatusCode, latency)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode lastfm response: %w", decodeErr)
	}
	if payload.Artist == nil {
		return nil, fmt.Errorf("%s: %w", name, gender.ErrNotFound)
	}
	return payload.Artist, nil
}

// Biography returns the artist's plain-text biography.
func (c *Client) Biography(ctx context.Context, artistName string) (string, error) {
	artist, err := c.ArtistInfo(ctx, artistName)
	if err != nil {
		return "", err
	}
	text := PlainText(artist.Bio.Content)
	if text == "" {
		return "", fmt.Errorf("%s: %w", artistName, gender.ErrNoBio)
	}
	return text, nil
}

// PlainText drops the trailing "Read more on Last.fm" link and any markup.
// Content that starts with that link carries no biography and yields "".
func PlainText(content string) string {
	content = strings.TrimSpace(content)
	if idx := strings.Index(content, readMorePrefix); idx >= 0 {
		content = content[:idx]
	}
	return strings.TrimSpace(htmlTag.ReplaceAllString(content, " "))
}
