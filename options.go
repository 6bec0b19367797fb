package relay

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Option is used to override defaults when creating a relay
type Option func(*options) error

type options struct {
	store     Store
	logger    zerolog.Logger
	clock     func() time.Time
	keyPrefix string
}

func defaultOptions() options {
	return options{
		store:     noopStore{},
		logger:    discardLogger(),
		clock:     time.Now,
		keyPrefix: DefaultKeyPrefix,
	}
}

func (o *options) apply(opts []Option) error {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return err
		}
	}
	return nil
}

// WithStore overrides the default (discarding) checkpoint store
func WithStore(store Store) Option {
	return func(o *options) error {
		if store != nil {
			o.store = store
		}
		return nil
	}
}

// WithLogger overrides the default logger
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}

// WithClock overrides the clock used for record timestamps, object keys and
// the fixture date
func WithClock(clock func() time.Time) Option {
	return func(o *options) error {
		if clock != nil {
			o.clock = clock
		}
		return nil
	}
}

// WithKeyPrefix overrides the object key prefix of the weather relay
func WithKeyPrefix(prefix string) Option {
	return func(o *options) error {
		if prefix != "" {
			o.keyPrefix = prefix
		}
		return nil
	}
}

// WithMetricRegistry registers the relay collectors with r
func WithMetricRegistry(r prometheus.Registerer) Option {
	return func(o *options) error {
		if r == nil {
			return nil
		}
		return registerMetrics(r)
	}
}
