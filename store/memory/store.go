// Package memory provides a checkpoint store that lives as long as the
// process. It suits tests and single runs; checkpoints are lost on exit.
package memory

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

type unitKey struct {
	namespace string
	unit      string
}

// Store keeps the last value written for each unit of a pipeline in memory.
// Values are namespaced "{app}-{pipeline}", as in the persistent backends.
type Store struct {
	appName string
	values  sync.Map
}

// New returns an empty store for appName.
func New(appName string) (*Store, error) {
	if appName == "" {
		return nil, errors.New("must provide app name")
	}
	return &Store{appName: appName}, nil
}

// SetCheckpoint stores the value for a unit, replacing any previous one.
func (s *Store) SetCheckpoint(pipeline, unit, value string) error {
	if value == "" {
		return errors.Errorf("empty checkpoint value for %s/%s", pipeline, unit)
	}
	s.values.Store(s.key(pipeline, unit), value)
	return nil
}

// GetCheckpoint returns the stored value for a unit, or "" when none exists.
func (s *Store) GetCheckpoint(pipeline, unit string) (string, error) {
	v, ok := s.values.Load(s.key(pipeline, unit))
	if !ok {
		return "", nil
	}
	return v.(string), nil
}

func (s *Store) key(pipeline, unit string) unitKey {
	return unitKey{namespace: fmt.Sprintf("%s-%s", s.appName, pipeline), unit: unit}
}
