package truetime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

const maxPayloadSize = 64 << 10 // 64 KB

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrUnknownPayload   = errors.New("no known timestamp field in payload")
	ErrInvalidSource    = errors.New("invalid time source url")
)

// Source is a single trusted time endpoint.
type Source interface {
	Name() string
	FetchTime(ctx context.Context) (time.Time, error)
}

// HTTPSource reads the current time from a public JSON time API.
// It understands epoch seconds ({"unixtime": 1700000000}) and zone-less
// ISO datetimes ({"dateTime": "2024-03-01T12:00:00.123"}), the latter read as UTC.
type HTTPSource struct {
	url    string
	name   string
	client *http.Client
}

func NewHTTPSource(rawURL string, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSource, rawURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w %q", ErrInvalidSource, rawURL)
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPSource{
		url:    rawURL,
		name:   u.Host,
		client: client,
	}, nil
}

// NewHTTPSources builds sources for urls, preserving their order.
func NewHTTPSources(urls []string, client *http.Client) ([]Source, error) {
	sources := make([]Source, 0, len(urls))
	for _, raw := range urls {
		src, err := NewHTTPSource(raw, client)
		if err != nil {
			return nil, err
		}
		sources = append(sources, src)
	}
	return sources, nil
}

func (s *HTTPSource) Name() string { return s.name }

func (s *HTTPSource) FetchTime(ctx context.Context) (time.Time, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return time.Time{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return time.Time{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return time.Time{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var payload timePayload
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxPayloadSize)).Decode(&payload); err != nil {
		return time.Time{}, fmt.Errorf("decode time payload: %w", err)
	}
	return payload.timestamp()
}

type timePayload struct {
	UnixTime any    `json:"unixtime"`
	DateTime string `json:"dateTime"`
}

func (p timePayload) timestamp() (time.Time, error) {
	if p.UnixTime != nil {
		if secs, err := cast.ToInt64E(p.UnixTime); err == nil && secs != 0 {
			return time.Unix(secs, 0).UTC(), nil
		}
	}
	if p.DateTime != "" {
		return parseDateTime(p.DateTime)
	}
	return time.Time{}, ErrUnknownPayload
}

// parseDateTime reads a zone-less datetime as UTC and falls back to a full RFC 3339 value.
func parseDateTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s+"Z"); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse dateTime %q: %w", s, err)
	}
	return t.UTC(), nil
}
