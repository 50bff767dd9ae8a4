// Copyright 2026 The Themesync Authors
// SPDX-License-Identifier: Apache-2.0

package remotetheme

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/sethvargo/go-retry"

	"github.com/shopfront/themesync/lib/netutil"
)

// Fetch defaults.
const (
	DefaultFetchTimeout  = 5 * time.Second
	DefaultFetchAttempts = 3
	DefaultFetchBackoff  = 100 * time.Millisecond
)

// FetchConfig configures a Fetcher.
type FetchConfig struct {
	// Timeout bounds connecting, the TLS handshake, waiting for
	// response headers, and each read of the body.
	Timeout time.Duration

	// Attempts is the total number of tries for a request that times
	// out.
	Attempts int

	// Backoff is the pause between attempts.
	Backoff time.Duration

	// InsecureTLSFallback retries a request that failed certificate
	// verification once more with verification disabled.
	InsecureTLSFallback bool

	// TLSConfig is the base TLS configuration. Nil uses the system
	// roots.
	TLSConfig *tls.Config

	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Fetcher downloads asset content.
type Fetcher struct {
	config   FetchConfig
	client   *http.Client
	insecure *http.Client
	logger   *slog.Logger
}

// StatusError is a download answered with a non-200 status.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("fetching %s: status %d: %s", e.URL, e.StatusCode, e.Body)
}

// NewFetcher returns a fetcher, filling unset config fields with
// defaults.
func NewFetcher(config FetchConfig) *Fetcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultFetchTimeout
	}
	if config.Attempts <= 0 {
		config.Attempts = DefaultFetchAttempts
	}
	if config.Backoff <= 0 {
		config.Backoff = DefaultFetchBackoff
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	var base *tls.Config
	if config.TLSConfig != nil {
		base = config.TLSConfig.Clone()
	} else {
		base = &tls.Config{}
	}
	insecure := base.Clone()
	insecure.InsecureSkipVerify = true

	return &Fetcher{
		config:   config,
		client:   &http.Client{Transport: newTransport(config.Timeout, base)},
		insecure: &http.Client{Transport: newTransport(config.Timeout, insecure)},
		logger:   logger,
	}
}

func newTransport(timeout time.Duration, tlsConfig *tls.Config) *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           netutil.NewDeadlineDialer(timeout).DialContext,
		TLSClientConfig:       tlsConfig,
		TLSHandshakeTimeout:   timeout,
		ResponseHeaderTimeout: timeout,
		// Content-Encoding is negotiated and decoded by the fetcher.
		DisableCompression:  true,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
	}
}

// Fetch downloads href and returns the decoded body. Timeouts are
// retried. A certificate failure is tried once more without
// verification when the fallback is enabled.
func (f *Fetcher) Fetch(ctx context.Context, href string) ([]byte, error) {
	data, err := f.fetchWithRetry(ctx, f.client, href)
	if err == nil || !netutil.IsCertificateError(err) || !f.config.InsecureTLSFallback {
		return data, err
	}

	f.logger.Warn("TLS verification failed, retrying without certificate verification",
		"url", href,
		"error", err,
	)
	return f.fetchOnce(ctx, f.insecure, href)
}

// Open satisfies theme.Asset.Open for a remote file.
func (f *Fetcher) Open(href string) func(context.Context) (io.ReadCloser, error) {
	return func(ctx context.Context) (io.ReadCloser, error) {
		data, err := f.Fetch(ctx, href)
		if err != nil {
			return nil, err
		}
		return io.NopCloser(bytes.NewReader(data)), nil
	}
}

func (f *Fetcher) fetchWithRetry(ctx context.Context, client *http.Client, href string) ([]byte, error) {
	backoff := retry.WithMaxRetries(uint64(f.config.Attempts-1), retry.NewConstant(f.config.Backoff))

	var result []byte
	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		data, err := f.fetchOnce(ctx, client, href)
		if err != nil {
			if netutil.IsTimeout(err) && ctx.Err() == nil {
				f.logger.Debug("asset fetch timed out", "url", href, "attempt", attempt, "attempts", f.config.Attempts)
				return retry.RetryableError(err)
			}
			return err
		}
		result = data
		return nil
	})
	if err != nil {
		if netutil.IsTimeout(err) {
			return nil, fmt.Errorf("fetching %s: gave up after %d attempts: %w", href, attempt, err)
		}
		return nil, err
	}
	return result, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, client *http.Client, href string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, href, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request for %s: %w", href, err)
	}
	request.Header.Set("Accept-Encoding", "zstd, gzip")

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", href, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return nil, &StatusError{URL: href, StatusCode: response.StatusCode, Body: netutil.ErrorBody(response.Body)}
	}

	data, err := decode(response.Header.Get("Content-Encoding"), response.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", href, err)
	}
	return data, nil
}

func decode(encoding string, body io.Reader) ([]byte, error) {
	switch encoding {
	case "", "identity":
		return io.ReadAll(body)
	case "zstd":
		decoder, err := zstd.NewReader(body)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		return io.ReadAll(decoder)
	case "gzip":
		decoder, err := gzip.NewReader(body)
		if err != nil {
			return nil, err
		}
		defer decoder.Close()
		return io.ReadAll(decoder)
	default:
		return nil, fmt.Errorf("unsupported content encoding %q", encoding)
	}
}
