package relay

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultSportsDataURL lists soccer games by date on SportsData.io.
	DefaultSportsDataURL = "https://api.sportsdata.io/v3/soccer/scores/json/GamesByDate"

	// DefaultArea is the competition area requested when none is configured.
	DefaultArea = "Europe"
)

// SportsDataClient fetches the soccer games of a day from SportsData.io.
type SportsDataClient struct {
	httpSource
	area string
}

// NewSportsDataClient returns a FixtureSource for area. An empty area falls
// back to DefaultArea.
func NewSportsDataClient(apiKey, area string, opts ...ClientOption) *SportsDataClient {
	if area == "" {
		area = DefaultArea
	}
	return &SportsDataClient{
		httpSource: newHTTPSource("sportsdata", DefaultSportsDataURL, apiKey, opts),
		area:       area,
	}
}

// Fetch issues one GET for date and returns the listed matches. A null body
// is reported as ErrMalformedPayload rather than as a day without matches.
func (c *SportsDataClient) Fetch(ctx context.Context, date string) ([]Match, error) {
	if date == "" {
		return nil, ErrEmptyUnit
	}

	values := url.Values{}
	values.Set("area", c.area)
	values.Set("key", c.apiKey)

	u := fmt.Sprintf("%s/%s?%s", strings.TrimSuffix(c.baseURL, "/"), url.PathEscape(date), values.Encode())

	var matches []Match
	if err := c.getJSON(ctx, u, &matches); err != nil {
		return nil, err
	}
	// "[]" decodes to an empty slice; only a null body leaves it nil
	if matches == nil {
		return nil, errors.Wrap(ErrMalformedPayload, "sportsdata: null body")
	}
	return matches, nil
}

var _ FixtureSource = (*SportsDataClient)(nil)
