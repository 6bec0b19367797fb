package relay

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// DefaultHTTPTimeout bounds a single provider request.
const DefaultHTTPTimeout = 30 * time.Second

// ClientOption is used to override defaults when creating a provider client
type ClientOption func(*httpSource)

// WithHTTPClient overrides the default HTTP client
func WithHTTPClient(c *http.Client) ClientOption {
	return func(s *httpSource) {
		if c != nil {
			s.client = c
		}
	}
}

// WithBaseURL overrides the provider endpoint
func WithBaseURL(u string) ClientOption {
	return func(s *httpSource) {
		if u != "" {
			s.baseURL = u
		}
	}
}

// httpSource holds what both provider clients need to issue a GET.
type httpSource struct {
	provider string
	baseURL  string
	apiKey   string
	client   *http.Client
}

func newHTTPSource(provider, baseURL, apiKey string, opts []ClientOption) httpSource {
	s := httpSource{
		provider: provider,
		baseURL:  baseURL,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: DefaultHTTPTimeout},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// getJSON issues a single GET and decodes a 200 response into v. Any other
// status is reported as a *StatusError. The URL is left out of errors as it
// carries the API key.
func (s httpSource) getJSON(ctx context.Context, rawURL string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return errors.Wrapf(err, "%s: build request", s.provider)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		var uErr *url.Error
		if errors.As(err, &uErr) {
			uErr.URL = stripQuery(uErr.URL)
		}
		return errors.Wrapf(err, "%s: request", s.provider)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return &StatusError{Provider: s.provider, StatusCode: resp.StatusCode}
	}

	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.Wrapf(err, "%s: decode body", s.provider)
	}
	return nil
}

func stripQuery(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	u.RawQuery = ""
	return u.String()
}
