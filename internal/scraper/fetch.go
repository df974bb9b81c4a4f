// Package scraper downloads the draw history page of a game and turns its
// table rows into draw records.
package scraper

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"

	"lottery-predictor/internal/logger"
	"lottery-predictor/internal/lottery"
)

// DefaultUserAgent mimics a desktop browser; the source site rejects bare clients.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

// ErrEmptyResponse is returned when the server answers with an empty body.
var ErrEmptyResponse = errors.New("no data received from the server")

// Options narrows a fetch to an issue range. Zero values fetch the latest page.
type Options struct {
	Start string
	End   string
}

// Fetcher downloads and parses history pages.
type Fetcher struct {
	Client    *http.Client
	UserAgent string
	// Encoding names the page charset ("gbk", "utf-8"...). Empty or "auto" sniffs it.
	Encoding string
}

// NewFetcher creates a fetcher with the given request timeout.
func NewFetcher(timeout time.Duration, userAgent, encoding string) *Fetcher {
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &Fetcher{
		Client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return errors.New("too many redirects")
				}
				return nil
			},
		},
		UserAgent: userAgent,
		Encoding:  encoding,
	}
}

// Fetch downloads the history page of game and returns its records.
func (f *Fetcher) Fetch(ctx context.Context, game lottery.Game, opts Options) ([]lottery.DrawRecord, error) {
	logger.Infof("fetching %s data...", game.Name)

	records, err := f.fetch(ctx, game, opts)
	if err != nil {
		logger.Errorf("error fetching %s data: %v", game.Name, err)
		return nil, err
	}

	logger.Infof("extracted %d %s records", len(records), game.Name)
	return records, nil
}

func (f *Fetcher) fetch(ctx context.Context, game lottery.Game, opts Options) ([]lottery.DrawRecord, error) {
	pageURL, err := SourceURL(game, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	// Set headers to mimic a real browser
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned non-OK status: %d", pageURL, resp.StatusCode)
	}

	body, err := readBody(resp)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%s: %w", game.Name, ErrEmptyResponse)
	}

	decoded, err := f.decodeBody(body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, err
	}

	records, err := ParseTable(decoded, game)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s HTML: %w", game.Name, err)
	}
	return records, nil
}

// SourceURL builds the page URL of game, adding the issue range when set.
func SourceURL(game lottery.Game, opts Options) (string, error) {
	u, err := url.Parse(game.SourceURL)
	if err != nil {
		return "", fmt.Errorf("invalid source URL %q: %w", game.SourceURL, err)
	}
	if opts.Start == "" && opts.End == "" {
		return u.String(), nil
	}
	q := u.Query()
	if opts.Start != "" {
		q.Set("start", opts.Start)
	}
	if opts.End != "" {
		q.Set("end", opts.End)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// readBody reads the response, undoing gzip when the server compresses anyway.
func readBody(resp *http.Response) ([]byte, error) {
	if strings.Contains(resp.Header.Get("Content-Encoding"), "gzip") {
		gzReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gzReader.Close()

		body, err := io.ReadAll(gzReader)
		if err != nil {
			return nil, fmt.Errorf("failed to read gzipped response body: %w", err)
		}
		return body, nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return body, nil
}

// decodeBody converts the page to UTF-8.
func (f *Fetcher) decodeBody(body []byte, contentType string) (io.Reader, error) {
	if f.Encoding == "" || strings.EqualFold(f.Encoding, "auto") {
		r, err := charset.NewReader(bytes.NewReader(body), contentType)
		if err != nil {
			return nil, fmt.Errorf("failed to detect page charset: %w", err)
		}
		return r, nil
	}

	enc, err := htmlindex.Get(f.Encoding)
	if err != nil {
		return nil, fmt.Errorf("unknown page encoding %q: %w", f.Encoding, err)
	}
	return transform.NewReader(bytes.NewReader(body), enc.NewDecoder()), nil
}
