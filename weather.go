package relay

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// Record timestamps carry microseconds, e.g. 2024-05-01T12:00:00.123456+00:00,
// and drop the fraction when it is zero: 2024-05-01T12:00:00+00:00.
const (
	timestampLayout        = "2006-01-02T15:04:05.000000-07:00"
	timestampLayoutSeconds = "2006-01-02T15:04:05-07:00"
)

func formatTimestamp(t time.Time) string {
	t = t.UTC()
	if t.Nanosecond()/int(time.Microsecond) == 0 {
		return t.Format(timestampLayoutSeconds)
	}
	return t.Format(timestampLayout)
}

// WeatherRecord is the snapshot uploaded for a city.
type WeatherRecord struct {
	City        string  `json:"city"`
	Temperature float64 `json:"temperature"`
	Humidity    float64 `json:"humidity"`
	Conditions  string  `json:"conditions"`
	Timestamp   string  `json:"timestamp"`
}

// WeatherPayload is the subset of the OpenWeather current weather response
// used by the transformer. Pointers distinguish absent fields from zero values.
type WeatherPayload struct {
	Main *struct {
		Temp     *float64 `json:"temp"`
		Humidity *float64 `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description *string `json:"description"`
	} `json:"weather"`
}

// WeatherSource fetches the current weather for a city.
type WeatherSource interface {
	Fetch(ctx context.Context, city string) (*WeatherPayload, error)
}

// TransformWeather maps a provider payload to a WeatherRecord stamped with now.
// A payload missing main.temp, main.humidity or weather[0].description yields
// ErrMalformedPayload.
func TransformWeather(city string, p *WeatherPayload, now time.Time) (WeatherRecord, error) {
	switch {
	case p == nil:
		return WeatherRecord{}, errors.Wrap(ErrMalformedPayload, "empty body")
	case p.Main == nil:
		return WeatherRecord{}, errors.Wrap(ErrMalformedPayload, "missing main")
	case p.Main.Temp == nil:
		return WeatherRecord{}, errors.Wrap(ErrMalformedPayload, "missing main.temp")
	case p.Main.Humidity == nil:
		return WeatherRecord{}, errors.Wrap(ErrMalformedPayload, "missing main.humidity")
	case len(p.Weather) == 0:
		return WeatherRecord{}, errors.Wrap(ErrMalformedPayload, "missing weather")
	case p.Weather[0].Description == nil:
		return WeatherRecord{}, errors.Wrap(ErrMalformedPayload, "missing weather[0].description")
	}

	return WeatherRecord{
		City:        city,
		Temperature: *p.Main.Temp,
		Humidity:    *p.Main.Humidity,
		Conditions:  *p.Weather[0].Description,
		Timestamp:   formatTimestamp(now),
	}, nil
}
