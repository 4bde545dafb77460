// Package feeds retrieves metadata records from upstream APIs and local
// record files.
package feeds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sethgrid/pester"

	"github.com/miku/isokit"
)

var bNewline = []byte("\n")

// UserAgent is sent with every request.
var UserAgent = fmt.Sprintf("%s/%s", isokit.AppName, isokit.Version)

// Doer abstracts https://pkg.go.dev/net/http#Client.Do.
type Doer interface {
	Do(*http.Request) (*http.Response, error)
}

// NewClient returns a client with exponential backoff, which also retries on
// HTTP 429.
func NewClient(maxRetries int, timeout time.Duration) *pester.Client {
	client := pester.New()
	client.Backoff = pester.ExponentialBackoff
	client.MaxRetries = maxRetries
	client.RetryOnHTTP429 = true
	client.Timeout = timeout
	return client
}

// StatusError is returned for unexpected HTTP responses.
type StatusError struct {
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d while fetching %s: %s", e.StatusCode, e.URL, e.Body)
}

// get issues a GET request and returns the response body on HTTP 200.
// Callers need to close the body.
func get(ctx context.Context, client Doer, link string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", link, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Add("User-Agent", UserAgent)
	req.Header.Add("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s", link)
	}
	if resp.StatusCode != http.StatusOK {
		defer resp.Body.Close()
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{URL: link, StatusCode: resp.StatusCode, Body: string(b)}
	}
	return resp.Body, nil
}
