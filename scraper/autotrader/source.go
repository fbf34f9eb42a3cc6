package autotrader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxPageBytes caps how much of a response body is read.
const maxPageBytes = 10 << 20

// PageSource retrieves the raw HTML behind a URL in a single attempt.
type PageSource interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// StatusError reports a non-2xx HTTP response.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

// HTTPSource fetches pages with a plain HTTP client that presents itself as a
// desktop browser.
type HTTPSource struct {
	client  *http.Client
	headers map[string]string
}

// NewHTTPSource returns an HTTPSource whose requests time out after timeout
// and carry headers.
func NewHTTPSource(timeout time.Duration, headers map[string]string) *HTTPSource {
	h := make(map[string]string, len(headers))
	for k, v := range headers {
		h[k] = v
	}
	return &HTTPSource{
		client:  &http.Client{Timeout: timeout},
		headers: h,
	}
}

// Get issues one GET. Any status outside 2xx is returned as *StatusError.
func (s *HTTPSource) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request for %s: %w", url, err)
	}
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, &StatusError{URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("read body of %s: %w", url, err)
	}
	return body, nil
}

// IsStatus reports whether err is a *StatusError with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
