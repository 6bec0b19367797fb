package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// PipelineFixtures names the fixture relay in logs, metrics and checkpoints.
const PipelineFixtures = "fixtures"

const (
	// FixtureSubject is the subject line of every published message.
	FixtureSubject = "Soccer Match Updates"

	bodyFetchError   = "Error fetching data"
	bodyPublishError = "Error publishing to SNS"
	bodyOK           = "Data processed and sent to SNS"

	dateLayout = "2006-01-02"
)

// Response is returned to the function runtime.
type Response struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// FixtureRelay republishes the day's matches as one message.
type FixtureRelay struct {
	source    FixtureSource
	publisher Publisher
	options
}

// NewFixtureRelay creates a fixture relay. Use Option to override any of the
// optional attributes.
func NewFixtureRelay(source FixtureSource, publisher Publisher, opts ...Option) (*FixtureRelay, error) {
	if source == nil {
		return nil, errors.New("must provide fixture source")
	}
	if publisher == nil {
		return nil, errors.New("must provide publisher")
	}

	r := &FixtureRelay{
		source:    source,
		publisher: publisher,
		options:   defaultOptions(),
	}
	if err := r.apply(opts); err != nil {
		return nil, err
	}
	return r, nil
}

// Handle is the function entry point. The trigger event is not inspected and
// failures are reported through the Response, never the error.
func (r *FixtureRelay) Handle(ctx context.Context, _ json.RawMessage) (Response, error) {
	return r.Invoke(ctx), nil
}

// Invoke fetches the matches of the current UTC date and publishes them in a
// single message. The whole batch is published or nothing is.
func (r *FixtureRelay) Invoke(ctx context.Context) Response {
	date := r.clock().UTC().Format(dateLayout)
	log := r.logger.With().
		Str("pipeline", PipelineFixtures).
		Str("run_id", uuid.NewString()).
		Str("date", date).
		Logger()

	if prev := r.lastCheckpoint(log, PipelineFixtures, date); prev != "" {
		// a second invocation for the same day publishes again
		log.Info().Str("previous_message_id", prev).Msg("matches already published for date")
	}
	log.Info().Msg("fetching matches")

	start := time.Now()
	matches, err := r.source.Fetch(ctx, date)
	collectorFetchSeconds.WithLabelValues(PipelineFixtures).Observe(time.Since(start).Seconds())
	counterFetches.WithLabelValues(PipelineFixtures, fetchResult(err)).Inc()
	if err != nil {
		log.Error().Err(err).Bool("fetch_failure", IsFetchFailure(err)).Msg("error fetching data from provider")
		return Response{StatusCode: http.StatusInternalServerError, Body: bodyFetchError}
	}

	records := make([]FixtureRecord, 0, len(matches))
	for _, m := range matches {
		records = append(records, NewFixtureRecord(m))
	}
	message := BuildFixtureMessage(records)
	log.Info().Int("matches", len(records)).Str("message", message).Msg("match details")

	id, err := r.publisher.Publish(ctx, FixtureSubject, message)
	counterSinkWrites.WithLabelValues(PipelineFixtures, resultLabel(err == nil)).Inc()
	if err != nil {
		log.Error().Err(err).Msg("error publishing message")
		return Response{StatusCode: http.StatusInternalServerError, Body: bodyPublishError}
	}
	log.Info().Str("message_id", id).Int("matches", len(records)).Msg("message published")

	if id != "" {
		r.checkpoint(log, PipelineFixtures, date, id)
	}

	return Response{StatusCode: http.StatusOK, Body: bodyOK}
}
