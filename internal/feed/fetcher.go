package feed

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pders01/riffle/internal/storage"
)

const (
	userAgent      = "riffle/1.0 (RSS reader; github.com/pders01/riffle)"
	acceptHeader   = "application/rss+xml, application/atom+xml, application/xml, text/xml"
	defaultTimeout = 30 * time.Second
)

// Fetcher retrieves feed documents with conditional requests so unchanged
// feeds cost a header exchange instead of a full download.
type Fetcher struct {
	client      *http.Client
	ignoreCache bool
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// SetIgnoreCache drops the ETag/Last-Modified headers from requests, forcing
// full responses even for unchanged feeds.
func (f *Fetcher) SetIgnoreCache(ignore bool) {
	f.ignoreCache = ignore
}

// SetTimeout adjusts the per-request timeout.
func (f *Fetcher) SetTimeout(timeout time.Duration) {
	if timeout > 0 {
		f.client.Timeout = timeout
	}
}

// Fetch issues a conditional GET for the source's feed document. A nil
// response with modified == false and no error means the feed has not
// changed since the last fetch. The caller owns the response body.
func (f *Fetcher) Fetch(ctx context.Context, source *storage.Source) (*http.Response, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source.URL, nil)
	if err != nil {
		return nil, false, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", acceptHeader)

	if !f.ignoreCache {
		if source.ETag != "" {
			req.Header.Set("If-None-Match", source.ETag)
		}
		if source.LastModified != "" {
			req.Header.Set("If-Modified-Since", source.LastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("fetching feed: %w", err)
	}

	if resp.StatusCode == http.StatusNotModified {
		resp.Body.Close()
		return nil, false, nil
	}

	if resp.StatusCode >= 400 {
		resp.Body.Close()
		return nil, false, fmt.Errorf("HTTP error: %d", resp.StatusCode)
	}

	return resp, true, nil
}

// ApplyResponseMetadata records the response's cache validators and the
// fetch time on the source.
func (f *Fetcher) ApplyResponseMetadata(source *storage.Source, resp *http.Response) {
	if etag := resp.Header.Get("ETag"); etag != "" {
		source.ETag = etag
	}
	if lastMod := resp.Header.Get("Last-Modified"); lastMod != "" {
		source.LastModified = lastMod
	}
	source.LastFetched = time.Now()
}
