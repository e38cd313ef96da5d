// Package youtube looks up video durations from the YouTube Data API and,
// as a fallback, from the public watch page.
package youtube

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/watchstats/internal/duration"
)

const defaultBaseURL = "https://www.googleapis.com/youtube/v3"

// maxIDsPerRequest is the API limit for the id parameter of videos.list.
const maxIDsPerRequest = 50

// Client performs YouTube Data API v3 operations.
type Client interface {
	Videos(ctx context.Context, ids []string) (*VideoListResponse, error)
	Duration(ctx context.Context, videoID string) (int, error)
}

// VideoListResponse is the response from GET /videos.
type VideoListResponse struct {
	Items []Video `json:"items"`
}

// Video is one item of a videos.list response.
type Video struct {
	ID             string         `json:"id"`
	ContentDetails ContentDetails `json:"contentDetails"`
}

// ContentDetails holds the ISO 8601 duration of a video.
type ContentDetails struct {
	Duration string `json:"duration"`
}

type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL overrides the default API base URL.
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient overrides the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

type httpClient struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

// NewClient creates a YouTube Data API client.
func NewClient(apiKey string, opts ...Option) Client {
	c := &httpClient{
		apiKey:  apiKey,
		baseURL: defaultBaseURL,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *httpClient) Videos(ctx context.Context, ids []string) (*VideoListResponse, error) {
	if len(ids) == 0 {
		return &VideoListResponse{}, nil
	}
	if len(ids) > maxIDsPerRequest {
		return nil, eris.Errorf("youtube: at most %d ids per request, got %d", maxIDsPerRequest, len(ids))
	}
	label := strings.Join(ids, ",")

	q := url.Values{}
	q.Set("id", label)
	q.Set("part", "contentDetails")
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/videos?"+q.Encode(), nil)
	if err != nil {
		return nil, eris.Wrap(err, "youtube: create request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, transportError(label, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(label, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(label, resp.StatusCode, body)
	}

	var result VideoListResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, eris.Wrap(err, "youtube: unmarshal response")
	}
	return &result, nil
}

// Duration returns the duration of one video in seconds.
func (c *httpClient) Duration(ctx context.Context, videoID string) (int, error) {
	resp, err := c.Videos(ctx, []string{videoID})
	if err != nil {
		return 0, err
	}
	if len(resp.Items) == 0 {
		return 0, &FetchError{Kind: NotFound, VideoID: videoID}
	}
	raw := resp.Items[0].ContentDetails.Duration
	if raw == "" {
		return 0, &FetchError{Kind: NotFound, VideoID: videoID, Err: eris.New("empty duration")}
	}
	seconds, err := duration.ParseISO8601(raw)
	if err != nil {
		return 0, &FetchError{Kind: NotFound, VideoID: videoID, Err: err}
	}
	if seconds <= 0 {
		return 0, &FetchError{Kind: NotFound, VideoID: videoID, Err: eris.Errorf("zero duration %q", raw)}
	}
	return seconds, nil
}

func statusError(videoID string, status int, body []byte) *FetchError {
	fe := &FetchError{VideoID: videoID, StatusCode: status}

	var ae apiError
	msg := strings.TrimSpace(string(body))
	if json.Unmarshal(body, &ae) == nil && ae.Error.Message != "" {
		msg = ae.Error.Message
		if len(ae.Error.Errors) > 0 && ae.Error.Errors[0].Reason != "" {
			msg = ae.Error.Errors[0].Reason + ": " + msg
		}
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	fe.Err = eris.New(msg)

	switch {
	case status == http.StatusForbidden:
		fe.Kind = QuotaExceeded
	case status == http.StatusBadRequest:
		fe.Kind = BadRequest
	case status == http.StatusNotFound:
		fe.Kind = NotFound
	default:
		fe.Kind = Unavailable
	}
	return fe
}
