package sources

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// getJSON performs a GET against endpoint with the given query parameters
// and headers and returns the raw response body. A transport error or a
// non-2xx status is wrapped in a SourceError for the given source.
func getJSON(ctx context.Context, client *http.Client, source Source, endpoint string, params url.Values, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, &SourceError{Source: source, Err: err}
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &SourceError{Source: source, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SourceError{Source: source, Err: fmt.Errorf("unexpected status %d", resp.StatusCode)}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &SourceError{Source: source, Err: fmt.Errorf("reading response: %w", err)}
	}
	return body, nil
}

// decodeTolerant unmarshals data into v, tolerating type mismatches:
// a malformed nested value degrades to its zero value instead of failing
// the whole payload. Only JSON syntax errors are reported.
func decodeTolerant(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
	}
	return nil
}
