package relay

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	labelPipeline = "pipeline"
	labelResult   = "result"

	resultOK     = "ok"
	resultFailed = "failed"
	resultError  = "error"
)

var (
	counterFetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "data",
		Subsystem: "relay",
		Name:      "fetches_total",
		Help:      "Number of provider requests issued, partitioned by outcome. Both failed (no data for the unit) and error (unclassified) skip the unit of work.",
	}, []string{
		labelPipeline,
		labelResult,
	})

	counterSinkWrites = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "data",
		Subsystem: "relay",
		Name:      "sink_writes_total",
		Help:      "Number of object writes or topic publishes attempted, partitioned by outcome.",
	}, []string{
		labelPipeline,
		labelResult,
	})

	counterCheckpointsWritten = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "data",
		Subsystem: "relay",
		Name:      "checkpoints_written_total",
		Help:      "Number of checkpoints recorded after a successful sink write.",
	}, []string{
		labelPipeline,
	})

	collectorFetchSeconds = prometheus.NewSummaryVec(prometheus.SummaryOpts{
		Namespace:  "data",
		Subsystem:  "relay",
		Name:       "fetch_duration_seconds",
		Help:       "Latency of provider requests, including body decoding.",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	}, []string{
		labelPipeline,
	})
)

// registerMetrics registers the relay collectors. Collectors that are already
// registered with r are left in place.
func registerMetrics(r prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		counterFetches,
		counterSinkWrites,
		counterCheckpointsWritten,
		collectorFetchSeconds,
	} {
		if err := r.Register(c); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				continue
			}
			return errors.Wrap(err, "register collector")
		}
	}
	return nil
}

// fetchResult labels a fetch outcome using IsFetchFailure.
func fetchResult(err error) string {
	switch {
	case err == nil:
		return resultOK
	case IsFetchFailure(err):
		return resultFailed
	default:
		return resultError
	}
}

func resultLabel(ok bool) string {
	if ok {
		return resultOK
	}
	return resultFailed
}
