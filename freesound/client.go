package freesound

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"soundvault/sound"
)

const (
	defaultBaseURL     = "https://freesound.org"
	defaultUserAgent   = "SoundVault/dev"
	defaultHTTPTimeout = 30 * time.Second
	defaultPageSize    = 25
	maxPageSize        = 150

	maxAttempts    = 3
	initialBackoff = 500 * time.Millisecond
	maxBackoff     = 5 * time.Second

	searchFields = "id,name,tags,description,duration,license,username,previews"
)

// Config describes the Freesound client configuration.
type Config struct {
	APIKey     string
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Client wraps the Freesound v2 REST API.
type Client struct {
	apiKey    string
	userAgent string
	baseURL   *url.URL
	http      *http.Client
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, sound.Wrap(sound.ErrConfiguration, "freesound client", "api key is required", nil)
	}
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = defaultBaseURL
	}
	baseURL, err := url.Parse(strings.TrimRight(base, "/"))
	if err != nil {
		return nil, sound.Wrap(sound.ErrConfiguration, "freesound client", "parse base url", err)
	}
	userAgent := strings.TrimSpace(cfg.UserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultHTTPTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{
		apiKey:    apiKey,
		userAgent: userAgent,
		baseURL:   baseURL,
		http:      httpClient,
	}, nil
}

// SearchRequest describes a remote discovery query. Filter and Sort use the
// service's own expression syntax and pass through verbatim.
type SearchRequest struct {
	Query    string
	Filter   string
	Sort     string
	Page     int
	PageSize int
}

// SoundResult is one remote search hit.
type SoundResult struct {
	ID          int64
	Name        string
	Tags        []string
	Description string
	Duration    float64
	License     string
	Username    string
	PreviewURL  string
}

// SourceID returns the remote identifier in the form the catalog stores.
func (r SoundResult) SourceID() string {
	return strconv.FormatInt(r.ID, 10)
}

// Entity converts the hit into a transient remote sound.
func (r SoundResult) Entity() sound.Sound {
	meta := sound.Metadata{
		Name:        r.Name,
		Tags:        r.Tags,
		Description: r.Description,
		Duration:    r.Duration,
		License:     r.License,
	}
	if r.Username != "" {
		meta.Custom = map[string]string{"author": r.Username}
	}
	return sound.NewRemoteSound(r.SourceID(), meta, r.PreviewURL)
}

// SearchResponse bundles one page of search hits.
type SearchResponse struct {
	Sounds  []SoundResult
	Total   int
	Page    int
	HasMore bool
}

type previewPayload struct {
	HQMP3 string `json:"preview-hq-mp3"`
	LQMP3 string `json:"preview-lq-mp3"`
	HQOGG string `json:"preview-hq-ogg"`
	LQOGG string `json:"preview-lq-ogg"`
}

func (p previewPayload) best() string {
	for _, candidate := range []string{p.HQMP3, p.LQMP3, p.HQOGG, p.LQOGG} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

type soundPayload struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Tags        []string       `json:"tags"`
	Description string         `json:"description"`
	Duration    float64        `json:"duration"`
	License     string         `json:"license"`
	Username    string         `json:"username"`
	Previews    previewPayload `json:"previews"`
}

func (p soundPayload) result() SoundResult {
	return SoundResult{
		ID:          p.ID,
		Name:        p.Name,
		Tags:        p.Tags,
		Description: p.Description,
		Duration:    p.Duration,
		License:     p.License,
		Username:    p.Username,
		PreviewURL:  p.Previews.best(),
	}
}

type searchPayload struct {
	Count   int            `json:"count"`
	Next    string         `json:"next"`
	Results []soundPayload `json:"results"`
}

// Search queries the text search endpoint. Either Query or Filter must be
// set.
func (c *Client) Search(ctx context.Context, req SearchRequest) (SearchResponse, error) {
	if c == nil {
		return SearchResponse{}, errors.New("freesound: client is nil")
	}
	query := strings.TrimSpace(req.Query)
	filter := strings.TrimSpace(req.Filter)
	if query == "" && filter == "" {
		return SearchResponse{}, errors.New("freesound: query or filter required")
	}

	endpoint := c.baseURL.JoinPath("apiv2", "search", "text", "/")
	params := url.Values{}
	params.Set("query", query)
	params.Set("fields", searchFields)
	if filter != "" {
		params.Set("filter", filter)
	}
	if sort := strings.TrimSpace(req.Sort); sort != "" {
		params.Set("sort", sort)
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	params.Set("page", strconv.Itoa(page))
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	params.Set("page_size", strconv.Itoa(pageSize))
	endpoint.RawQuery = params.Encode()

	resp, err := c.get(ctx, endpoint.String(), "remote search")
	if err != nil {
		return SearchResponse{}, err
	}
	defer resp.Body.Close()

	var payload searchPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return SearchResponse{}, sound.Wrap(sound.ErrInvalidResponse, "remote search", "decode search payload", err)
	}

	sounds := make([]SoundResult, 0, len(payload.Results))
	for _, entry := range payload.Results {
		sounds = append(sounds, entry.result())
	}
	return SearchResponse{
		Sounds:  sounds,
		Total:   payload.Count,
		Page:    page,
		HasMore: payload.Next != "",
	}, nil
}

// SoundByID fetches the detail record for one remote sound.
func (c *Client) SoundByID(ctx context.Context, sourceID string) (*SoundResult, error) {
	if c == nil {
		return nil, errors.New("freesound: client is nil")
	}
	id, err := parseSourceID(sourceID)
	if err != nil {
		return nil, err
	}

	endpoint := c.baseURL.JoinPath("apiv2", "sounds", strconv.FormatInt(id, 10), "/")
	params := url.Values{}
	params.Set("fields", searchFields)
	endpoint.RawQuery = params.Encode()

	resp, err := c.get(ctx, endpoint.String(), "remote lookup")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload soundPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, sound.Wrap(sound.ErrInvalidResponse, "remote lookup", "decode sound payload", err)
	}
	if payload.ID == 0 {
		return nil, sound.Wrap(sound.ErrInvalidResponse, "remote lookup", "payload missing id", nil)
	}
	result := payload.result()
	return &result, nil
}

// DownloadResult carries a fetched preview payload.
type DownloadResult struct {
	Sound SoundResult
	Data  []byte
	Ext   string
}

// Download resolves a sound's best preview rendition and fetches its bytes.
// The returned Ext reflects the rendition format.
func (c *Client) Download(ctx context.Context, sourceID string) (DownloadResult, error) {
	result, err := c.SoundByID(ctx, sourceID)
	if err != nil {
		return DownloadResult{}, err
	}
	if result.PreviewURL == "" {
		return DownloadResult{}, sound.Wrap(sound.ErrInvalidResponse, "remote download",
			fmt.Sprintf("sound %s offers no preview rendition", sourceID), nil)
	}

	previewURL, err := c.baseURL.Parse(result.PreviewURL)
	if err != nil {
		return DownloadResult{}, sound.Wrap(sound.ErrInvalidResponse, "remote download", "parse preview url", err)
	}
	resp, err := c.get(ctx, previewURL.String(), "remote download")
	if err != nil {
		return DownloadResult{}, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return DownloadResult{}, sound.Wrap(sound.ErrRemoteUnavailable, "remote download", "read preview payload", err)
	}
	return DownloadResult{
		Sound: *result,
		Data:  data,
		Ext:   previewExt(previewURL.Path),
	}, nil
}

// Ping issues a minimal search to verify reachability and the credential.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.Search(ctx, SearchRequest{Query: "test", PageSize: 1})
	return err
}

// get performs an authenticated GET, retrying transient failures with
// doubling backoff. Definite failures (404, 401) report immediately.
func (c *Client) get(ctx context.Context, endpoint, op string) (*http.Response, error) {
	backoff := initialBackoff
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			if err := sleepWithContext(ctx, backoff); err != nil {
				return nil, sound.Wrap(sound.ErrRemoteUnavailable, op, "wait for retry", err)
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, sound.Wrap(sound.ErrRemoteUnavailable, op, "build request", err)
		}
		c.applyHeaders(req)

		resp, err := c.http.Do(req)
		if err != nil {
			lastErr = sound.Wrap(sound.ErrRemoteUnavailable, op, "execute request", err)
			if !isRetriable(err) {
				return nil, lastErr
			}
			continue
		}
		if resp.StatusCode == http.StatusOK {
			return resp, nil
		}
		statusErr := c.errorFromStatus(op, resp)
		resp.Body.Close()
		if !retriableStatus(resp.StatusCode) {
			return nil, statusErr
		}
		lastErr = statusErr
	}
	return nil, lastErr
}

func (c *Client) applyHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Token "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
}

func (c *Client) errorFromStatus(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	detail := strings.TrimSpace(string(body))
	switch resp.StatusCode {
	case http.StatusNotFound:
		return sound.Wrap(sound.ErrNotFoundUpstream, op, resp.Status, nil)
	case http.StatusUnauthorized, http.StatusForbidden:
		return sound.Wrap(sound.ErrRemoteUnavailable, op, "credential rejected: "+resp.Status, nil)
	case http.StatusTooManyRequests:
		return sound.Wrap(sound.ErrRemoteUnavailable, op, "rate limited: "+resp.Status, nil)
	default:
		return sound.Wrap(sound.ErrRemoteUnavailable, op, fmt.Sprintf("%s: %s", resp.Status, detail), nil)
	}
}

func retriableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= 500
}

func isRetriable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	message := strings.ToLower(err.Error())
	for _, token := range []string{
		"timeout",
		"deadline exceeded",
		"connection reset",
		"connection refused",
		"temporary failure",
		"awaiting headers",
	} {
		if strings.Contains(message, token) {
			return true
		}
	}
	return false
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func parseSourceID(sourceID string) (int64, error) {
	trimmed := strings.TrimSpace(sourceID)
	if trimmed == "" {
		return 0, errors.New("freesound: source id required")
	}
	id, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || id <= 0 {
		return 0, sound.Wrap(sound.ErrInvalidResponse, "parse source id",
			fmt.Sprintf("%q is not a freesound id", sourceID), err)
	}
	return id, nil
}

func previewExt(urlPath string) string {
	ext := strings.ToLower(path.Ext(urlPath))
	if ext == "" {
		return ".mp3"
	}
	return ext
}
