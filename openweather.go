package relay

import (
	"context"
	"fmt"
	"net/url"
)

// DefaultOpenWeatherURL is the OpenWeather current weather endpoint.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherClient fetches current conditions, in imperial units, from OpenWeather.
type OpenWeatherClient struct {
	httpSource
}

// NewOpenWeatherClient returns a WeatherSource backed by OpenWeather. A missing
// API key is not checked here; the provider rejects the request.
func NewOpenWeatherClient(apiKey string, opts ...ClientOption) *OpenWeatherClient {
	return &OpenWeatherClient{
		httpSource: newHTTPSource("openweather", DefaultOpenWeatherURL, apiKey, opts),
	}
}

// Fetch issues one GET for city and returns the decoded body.
func (c *OpenWeatherClient) Fetch(ctx context.Context, city string) (*WeatherPayload, error) {
	if city == "" {
		return nil, ErrEmptyUnit
	}

	values := url.Values{}
	values.Set("q", city)
	values.Set("appid", c.apiKey)
	values.Set("units", "imperial")

	var payload WeatherPayload
	if err := c.getJSON(ctx, fmt.Sprintf("%s?%s", c.baseURL, values.Encode()), &payload); err != nil {
		return nil, err
	}
	return &payload, nil
}

var _ WeatherSource = (*OpenWeatherClient)(nil)
