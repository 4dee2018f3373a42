// Package httpjson is the GET-and-decode helper shared by the upstream
// adapters. Bodies are decoded with sonic; a 404 maps to ports.ErrMiss.
package httpjson

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/bytedance/sonic"
	"github.com/corey/pokesrc/internal/ports"
)

// maxBody caps how much of an upstream response is read.
const maxBody = 4 << 20

// StatusError is returned for non-200 responses other than 404.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d", e.URL, e.Code)
}

// Get performs a GET request and decodes the JSON response into T.
func Get[T any](ctx context.Context, client *http.Client, url string) (T, error) {
	var result T

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return result, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return result, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return result, fmt.Errorf("GET %s: %w", url, ports.ErrMiss)
	case resp.StatusCode != http.StatusOK:
		return result, &StatusError{URL: url, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return result, fmt.Errorf("GET %s: read body: %w", url, err)
	}
	if err := sonic.Unmarshal(body, &result); err != nil {
		return result, fmt.Errorf("GET %s: decode: %w", url, err)
	}
	return result, nil
}
