package relay

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// PipelineWeather names the weather relay in logs, metrics and checkpoints.
const PipelineWeather = "weather"

const contentTypeJSON = "application/json"

// DefaultCities is the city list polled when none is configured.
var DefaultCities = []string{"New York", "Los Angeles", "Chicago", "Houston", "Phoenix", "Accra"}

// Summary counts the outcome of a weather run. Units = Written + Skipped + Failed.
type Summary struct {
	Units   int
	Written int
	Skipped int
	Failed  int
}

// WeatherRelay fetches a snapshot per city and writes it to an ObjectWriter.
type WeatherRelay struct {
	source WeatherSource
	sink   ObjectWriter
	cities []string
	options
}

// NewWeatherRelay creates a weather relay for cities. Use Option to override
// any of the optional attributes.
func NewWeatherRelay(source WeatherSource, sink ObjectWriter, cities []string, opts ...Option) (*WeatherRelay, error) {
	if source == nil {
		return nil, errors.New("must provide weather source")
	}
	if sink == nil {
		return nil, errors.New("must provide object writer")
	}
	if len(cities) == 0 {
		return nil, errors.New("must provide at least one city")
	}

	r := &WeatherRelay{
		source:  source,
		sink:    sink,
		cities:  append([]string(nil), cities...),
		options: defaultOptions(),
	}
	if err := r.apply(opts); err != nil {
		return nil, err
	}
	return r, nil
}

// Run processes every city once, in order. A city whose fetch fails is
// skipped and a city whose upload fails is counted as failed; neither stops
// the run. The error is non-nil only when ctx is done before all cities have
// been processed.
func (r *WeatherRelay) Run(ctx context.Context) (Summary, error) {
	logger := r.logger.With().
		Str("pipeline", PipelineWeather).
		Str("run_id", uuid.NewString()).
		Logger()

	var sum Summary
	for _, city := range r.cities {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		sum.Units++

		log := logger.With().Str("city", city).Logger()
		if prev := r.lastCheckpoint(log, PipelineWeather, city); prev != "" {
			log.Info().Str("previous_key", prev).Msg("processing weather data")
		} else {
			log.Info().Msg("processing weather data")
		}

		record, now, err := r.fetch(ctx, city)
		if err != nil {
			if IsFetchFailure(err) {
				log.Warn().Err(err).Msg("failed to fetch data")
			} else {
				log.Error().Err(err).Msg("unexpected fetch error")
			}
			sum.Skipped++
			continue
		}

		key := ObjectKey(r.keyPrefix, city, now)
		if !r.upload(ctx, log, key, record) {
			log.Error().Msg("failed to process city")
			sum.Failed++
			continue
		}
		sum.Written++
		log.Info().Str("key", key).Msg("saved weather data")

		r.checkpoint(log, PipelineWeather, city, key)
		log.Info().Msg("successfully processed city")
	}

	logger.Info().
		Int("units", sum.Units).
		Int("written", sum.Written).
		Int("skipped", sum.Skipped).
		Int("failed", sum.Failed).
		Msg("weather run complete")

	return sum, nil
}

// fetch gets and transforms the payload for city. A malformed payload is
// reported like any other fetch failure so the city is skipped.
func (r *WeatherRelay) fetch(ctx context.Context, city string) (WeatherRecord, time.Time, error) {
	start := time.Now()
	payload, err := r.source.Fetch(ctx, city)
	collectorFetchSeconds.WithLabelValues(PipelineWeather).Observe(time.Since(start).Seconds())

	var record WeatherRecord
	now := r.clock()
	if err == nil {
		record, err = TransformWeather(city, payload, now)
	}
	counterFetches.WithLabelValues(PipelineWeather, fetchResult(err)).Inc()

	return record, now, err
}

// upload serializes record and writes it under key, reporting success as a bool.
func (r *WeatherRelay) upload(ctx context.Context, log zerolog.Logger, key string, record WeatherRecord) bool {
	body, err := json.Marshal(record)
	if err == nil {
		err = r.sink.Put(ctx, key, body, contentTypeJSON)
	}
	counterSinkWrites.WithLabelValues(PipelineWeather, resultLabel(err == nil)).Inc()

	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("failed to upload")
		return false
	}
	return true
}
