// Package meetingbaas is the REST client for the MeetingBaas recording provider.
package meetingbaas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

const (
	DefaultBaseURL = "https://api.meetingbaas.com"
	apiKeyHeader   = "x-meeting-baas-api-key"

	maxErrorBody      = 4 << 10
	maxTranscriptBody = 64 << 20
)

var (
	ErrNotConfigured = errors.New("meetingbaas api key not configured")
	ErrNotFound      = errors.New("meetingbaas resource not found")
)

// APIError is a non-2xx answer from the provider.
type APIError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("meetingbaas %s: status %d: %s", e.Op, e.StatusCode, e.Body)
}

func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

type Config struct {
	APIKey     string
	BaseURL    string
	Timeout    time.Duration
	MaxRetries int
}

type Client struct {
	http    *retryablehttp.Client
	baseURL string
	apiKey  string
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	httpClient := retryablehttp.NewClient()
	httpClient.RetryMax = cfg.MaxRetries
	httpClient.RetryWaitMin = 250 * time.Millisecond
	httpClient.RetryWaitMax = 2 * time.Second
	httpClient.Logger = slog.Default()
	// Hand back the last response instead of a generic "giving up" error so
	// callers see the provider's status and body.
	httpClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	if cfg.Timeout > 0 {
		httpClient.HTTPClient.Timeout = cfg.Timeout
	}

	return &Client{
		http:    httpClient,
		baseURL: baseURL,
		apiKey:  cfg.APIKey,
	}
}

func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// GetBot reads the provider's current view of a bot.
func (c *Client) GetBot(ctx context.Context, botID string) (*Bot, error) {
	var env envelope[Bot]
	if err := c.do(ctx, "get bot", http.MethodGet, "/v2/bots/"+url.PathEscape(botID), nil, &env); err != nil {
		return nil, err
	}
	bot := env.Data
	if bot.BotID == "" {
		bot.BotID = botID
	}
	return &bot, nil
}

// CreateBot sends a bot into a meeting.
func (c *Client) CreateBot(ctx context.Context, req CreateBotRequest) (*CreateBotResponse, error) {
	var env envelope[CreateBotResponse]
	if err := c.do(ctx, "create bot", http.MethodPost, "/v2/bots", req, &env); err != nil {
		return nil, err
	}
	if env.Data.BotID == "" {
		return nil, fmt.Errorf("meetingbaas create bot: response has no bot_id")
	}
	return &env.Data, nil
}

// ListBots returns the provider's bot list unchanged.
func (c *Client) ListBots(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.do(ctx, "list bots", http.MethodGet, "/v2/bots", nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListCalendarEvents lists events of a calendar, optionally bounded in time.
func (c *Client) ListCalendarEvents(ctx context.Context, calendarID string, opts ListEventsOptions) ([]CalendarEvent, error) {
	q := url.Values{}
	if !opts.Start.IsZero() {
		q.Set("start_time", opts.Start.UTC().Format(time.RFC3339))
	}
	if !opts.End.IsZero() {
		q.Set("end_time", opts.End.UTC().Format(time.RFC3339))
	}
	if opts.Limit > 0 {
		q.Set("limit", fmt.Sprint(opts.Limit))
	}
	path := "/v2/calendars/" + url.PathEscape(calendarID) + "/events"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var raw json.RawMessage
	if err := c.do(ctx, "list calendar events", http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}
	return decodeList[CalendarEvent](raw)
}

// CreateCalendarBot enables recording for every occurrence of an event series.
func (c *Client) CreateCalendarBot(ctx context.Context, calendarID string, req CreateCalendarBotRequest) error {
	path := "/v2/calendars/" + url.PathEscape(calendarID) + "/bots"
	return c.do(ctx, "create calendar bot", http.MethodPost, path, req, nil)
}

// FetchTranscriptDocument downloads a transcript from the pre-signed URL the
// provider hands out. The document is returned undecoded.
func (c *Client) FetchTranscriptDocument(ctx context.Context, rawURL string) (json.RawMessage, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return nil, fmt.Errorf("meetingbaas fetch transcript: invalid url %q", rawURL)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("meetingbaas fetch transcript: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("meetingbaas fetch transcript: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, apiError("fetch transcript", resp)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxTranscriptBody))
	if err != nil {
		return nil, fmt.Errorf("meetingbaas fetch transcript: read body: %w", err)
	}
	if !json.Valid(body) {
		return nil, fmt.Errorf("meetingbaas fetch transcript: body is not json")
	}
	return body, nil
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	if !c.Configured() {
		return ErrNotConfigured
	}

	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("meetingbaas %s: encode request: %w", op, err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("meetingbaas %s: %w", op, err)
	}
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("meetingbaas %s: %w", op, err)
	}
	defer resp.Body.Close()

	slog.DebugContext(ctx, "meetingbaas request completed",
		"op", op,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apiError(op, resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("meetingbaas %s: decode response: %w", op, err)
	}
	return nil
}

func apiError(op string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	text := strings.TrimSpace(string(body))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &APIError{Op: op, StatusCode: resp.StatusCode, Body: text}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// decodeList accepts both {"data":[...]} and a bare array.
func decodeList[T any](raw json.RawMessage) ([]T, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] == '[' {
		var items []T
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("decode list: %w", err)
		}
		return items, nil
	}
	var env envelope[[]T]
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	return env.Data, nil
}
