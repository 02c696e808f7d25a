package fetch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrSourceUnavailable marks a page or image that could not be fetched.
var ErrSourceUnavailable = errors.New("source unavailable")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d for %s", e.StatusCode, e.URL)
}

func (e *StatusError) Unwrap() error {
	return ErrSourceUnavailable
}

// PageFetcher returns the HTML of a page.
type PageFetcher interface {
	FetchHTML(ctx context.Context, url string) (string, error)
}

// BinaryFetcher returns raw bytes and the declared content type.
type BinaryFetcher interface {
	FetchBinary(ctx context.Context, url string) (*Binary, error)
}

type Binary struct {
	Body        []byte
	ContentType string
}

type Options struct {
	UserAgent string
	// Timeout of zero leaves the transport default in place.
	Timeout time.Duration
}

// HTTPFetcher fetches pages and images over plain HTTP. It never retries.
type HTTPFetcher struct {
	client *resty.Client
	logger *slog.Logger
}

func NewHTTPFetcher(opts Options, logger *slog.Logger) *HTTPFetcher {
	client := resty.New()
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	if opts.Timeout > 0 {
		client.SetTimeout(opts.Timeout)
	}

	return &HTTPFetcher{
		client: client,
		logger: logger.With("component", "fetch"),
	}
}

func (f *HTTPFetcher) FetchHTML(ctx context.Context, url string) (string, error) {
	res, err := f.get(ctx, url, "text/html,application/xhtml+xml")
	if err != nil {
		return "", err
	}
	return res.String(), nil
}

func (f *HTTPFetcher) FetchBinary(ctx context.Context, url string) (*Binary, error) {
	res, err := f.get(ctx, url, "image/*")
	if err != nil {
		return nil, err
	}
	return &Binary{
		Body:        res.Body(),
		ContentType: res.Header().Get("Content-Type"),
	}, nil
}

func (f *HTTPFetcher) get(ctx context.Context, url string, accept string) (*resty.Response, error) {
	start := time.Now()
	res, err := f.client.R().
		SetContext(ctx).
		SetHeader("Accept", accept).
		Get(url)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, url, err)
	}

	f.logger.Debug("fetched", "url", url, "status", res.StatusCode(), "duration", time.Since(start))

	if res.IsError() || res.StatusCode() < 200 || res.StatusCode() >= 300 {
		return nil, &StatusError{URL: url, StatusCode: res.StatusCode()}
	}
	return res, nil
}
