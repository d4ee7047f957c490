package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"product-scout/pkg/utils"
)

// htmlContentTypes lists acceptable Content-Type prefixes for page fetches.
// Anything else (images, PDFs, JSON APIs) is rejected before reading the body.
var htmlContentTypes = []string{
	"text/html",
	"application/xhtml+xml",
	"application/xml",
	"text/xml",
}

// Fetcher performs single-attempt page fetches with browser-like headers.
// There is deliberately no retry: a failed URL is skipped, not re-attempted,
// so one slow host cannot stall a bounded crawl.
type Fetcher struct {
	client         *http.Client
	userAgent      string
	acceptLanguage string
	timeout        time.Duration
	maxBodyBytes   int64
	log            *logrus.Logger
}

// NewFetcher creates a Fetcher. timeout bounds each individual request;
// maxBodyBytes caps how much of a response body is read.
func NewFetcher(client *http.Client, userAgent, acceptLanguage string, timeout time.Duration, maxBodyBytes int64, log *logrus.Logger) *Fetcher {
	return &Fetcher{
		client:         client,
		userAgent:      userAgent,
		acceptLanguage: acceptLanguage,
		timeout:        timeout,
		maxBodyBytes:   maxBodyBytes,
		log:            log,
	}
}

// FetchHTML performs one HTTP GET and returns the page text.
// Failures (non-2xx, network error, timeout, wrong content type) come back as
// errors wrapping the sentinel types in pkg/utils; callers are expected to
// treat any error as "no content" and continue with other URLs.
func (f *Fetcher) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	reqLog := f.log.WithField("url", rawURL)

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", utils.ErrRequestCreation, rawURL, err)
	}
	f.setHeaders(req)

	resp, err := f.client.Do(req)
	if err != nil {
		reqLog.Debugf("Fetch failed: %v", err)
		return "", fmt.Errorf("%w: %w", utils.ErrFetchFailed, err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	statusCode := resp.StatusCode
	switch {
	case statusCode >= 200 && statusCode < 300:
		// proceed
	case statusCode >= 500:
		reqLog.WithField("status_code", statusCode).Debug("Server error")
		return "", fmt.Errorf("%w: status %d %s", utils.ErrServerHTTPError, statusCode, resp.Status)
	case statusCode >= 400:
		reqLog.WithField("status_code", statusCode).Debug("Client error")
		return "", fmt.Errorf("%w: status %d %s", utils.ErrClientHTTPError, statusCode, resp.Status)
	default:
		reqLog.WithField("status_code", statusCode).Debug("Unexpected status")
		return "", fmt.Errorf("%w: status %d %s", utils.ErrOtherHTTPError, statusCode, resp.Status)
	}

	if ct := resp.Header.Get("Content-Type"); !acceptableContentType(ct) {
		reqLog.WithField("content_type", ct).Debug("Rejected non-HTML response")
		return "", fmt.Errorf("%w: %q", utils.ErrBadContentType, ct)
	}

	reader := io.Reader(resp.Body)
	if f.maxBodyBytes > 0 {
		reader = io.LimitReader(resp.Body, f.maxBodyBytes)
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return "", fmt.Errorf("%w: %w", utils.ErrResponseBodyRead, err)
	}

	reqLog.WithField("bytes", len(body)).Debug("Fetched page")
	return string(body), nil
}

// setHeaders applies realistic desktop-browser headers to reduce anti-bot
// blocking on retail sites
func (f *Fetcher) setHeaders(req *http.Request) {
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", f.acceptLanguage)
	req.Header.Set("Cache-Control", "no-cache")
}

func acceptableContentType(ct string) bool {
	if ct == "" {
		return true // some sites omit it; attempt parsing anyway
	}
	lower := strings.ToLower(ct)
	for _, allowed := range htmlContentTypes {
		if strings.HasPrefix(lower, allowed) {
			return true
		}
	}
	return false
}
