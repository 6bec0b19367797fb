package relay

import "github.com/rs/zerolog"

// Store interface used to record the last successful write for a unit of work
type Store interface {
	GetCheckpoint(pipeline, unit string) (string, error)
	SetCheckpoint(pipeline, unit, value string) error
}

// noopStore implements the storage interface with discard
type noopStore struct{}

func (n noopStore) GetCheckpoint(string, string) (string, error) { return "", nil }
func (n noopStore) SetCheckpoint(string, string, string) error   { return nil }

// checkpoint records value for unit after a successful sink write. A store
// error never changes the outcome of the unit.
func (o *options) checkpoint(log zerolog.Logger, pipeline, unit, value string) {
	if _, ok := o.store.(noopStore); ok {
		return
	}
	if err := o.store.SetCheckpoint(pipeline, unit, value); err != nil {
		log.Warn().Err(err).Msg("set checkpoint error")
		return
	}
	counterCheckpointsWritten.WithLabelValues(pipeline).Inc()
}

// lastCheckpoint returns the value recorded for unit by an earlier run, or ""
// when there is none or the store cannot be read.
func (o *options) lastCheckpoint(log zerolog.Logger, pipeline, unit string) string {
	if _, ok := o.store.(noopStore); ok {
		return ""
	}
	val, err := o.store.GetCheckpoint(pipeline, unit)
	if err != nil {
		log.Warn().Err(err).Msg("get checkpoint error")
		return ""
	}
	return val
}
