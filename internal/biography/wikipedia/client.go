package wikipedia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"rcg/internal/gender"
	"rcg/internal/textutil"
)

// Page is the subset of a MediaWiki page record the classifier needs.
type Page struct {
	PageID       int64             `json:"pageid"`
	Title        string            `json:"title"`
	Missing      bool              `json:"missing"`
	Invalid      bool              `json:"invalid"`
	Extract      string            `json:"extract"`
	PageProps    map[string]string `json:"pageprops"`
	Links        []Link            `json:"links"`
	Disambiguous bool              `json:"-"`
}

// Link is an outgoing page link.
type Link struct {
	NS    int    `json:"ns"`
	Title string `json:"title"`
}

type queryResponse struct {
	Query struct {
		Pages []Page `json:"pages"`
	} `json:"query"`
	Error *struct {
		Code string `json:"code"`
		Info string `json:"info"`
	} `json:"error"`
}

// Client provides access to the MediaWiki action API.
type Client struct {
	baseURL    string
	userAgent  string
	hint       string
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

// New creates a Wikipedia client. hint selects the disambiguation option to
// retry; an empty hint disables the retry.
func New(baseURL, userAgent, hint string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("wikipedia base url required")
	}
	client := &Client{
		baseURL:    baseURL,
		userAgent:  strings.TrimSpace(userAgent),
		hint:       strings.TrimSpace(hint),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Name identifies the source in logs and audit columns.
func (c *Client) Name() string { return "wikipedia" }

// Biography returns the plain-text extract for artistName.
func (c *Client) Biography(ctx context.Context, artistName string) (string, error) {
	artistName = strings.TrimSpace(artistName)
	if artistName == "" {
		return "", errors.New("artist name must not be empty")
	}
	page, err := c.Page(ctx, artistName)
	if err != nil {
		return "", err
	}
	if page.Disambiguous {
		option, ok, err := c.disambiguationOption(ctx, page.Title)
		if err != nil {
			return "", err
		}
		if !ok {
			return "", fmt.Errorf("%s: %w", artistName, gender.ErrDisambiguous)
		}
		page, err = c.Page(ctx, option)
		if err != nil {
			return "", err
		}
		if page.Disambiguous {
			return "", fmt.Errorf("%s: %w", option, gender.ErrDisambiguous)
		}
	}
	text := strings.TrimSpace(page.Extract)
	if text == "" {
		return "", fmt.Errorf("%s: %w", page.Title, gender.ErrNoBio)
	}
	return text, nil
}

// Page fetches the extract for an exact title, following redirects.
func (c *Client) Page(ctx context.Context, title string) (Page, error) {
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "extracts|pageprops")
	params.Set("ppprop", "disambiguation")
	params.Set("explaintext", "1")
	params.Set("redirects", "1")
	params.Set("titles", title)

	var payload queryResponse
	if err := c.get(ctx, params, &payload); err != nil {
		return Page{}, err
	}
	if len(payload.Query.Pages) == 0 {
		return Page{}, fmt.Errorf("%s: %w", title, gender.ErrPageError)
	}
	page := payload.Query.Pages[0]
	if page.Missing || page.Invalid {
		return Page{}, fmt.Errorf("%s: %w", title, gender.ErrPageError)
	}
	_, page.Disambiguous = page.PageProps["disambiguation"]
	return page, nil
}

func (c *Client) disambiguationOption(ctx context.Context, title string) (string, bool, error) {
	if c.hint == "" {
		return "", false, nil
	}
	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "links")
	params.Set("plnamespace", "0")
	params.Set("pllimit", "max")
	params.Set("titles", title)

	var payload queryResponse
	if err := c.get(ctx, params, &payload); err != nil {
		return "", false, err
	}
	for _, page := range payload.Query.Pages {
		for _, link := range page.Links {
			if textutil.ContainsFold(link.Title, c.hint) {
				return link.Title, true, nil
			}
		}
	}
	return "", false, nil
}

func (c *Client) get(ctx context.Context, params url.Values, out *queryResponse) error {
	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return fmt.Errorf("parse wikipedia url: %w", err)
	}
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return fmt.Errorf("execute request (latency=%v): %w", latency, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("wikipedia query returned %d (latency=%v)", resp.StatusCode, latency)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode wikipedia response: %w", err)
	}
	if out.Error != nil {
		return fmt.Errorf("wikipedia error %s: %s", out.Error.Code, out.Error.Info)
	}
	return nil
}
