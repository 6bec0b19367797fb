package relay

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func mustPayload(t *testing.T, body string) *WeatherPayload {
	t.Helper()
	var p WeatherPayload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	return &p
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

type fakeWeatherSource struct {
	payloads map[string]*WeatherPayload
	errs     map[string]error
	calls    []string
}

func (f *fakeWeatherSource) Fetch(_ context.Context, city string) (*WeatherPayload, error) {
	f.calls = append(f.calls, city)
	if err, ok := f.errs[city]; ok {
		return nil, err
	}
	if p, ok := f.payloads[city]; ok {
		return p, nil
	}
	return nil, &StatusError{Provider: "fake", StatusCode: 404}
}

type put struct {
	key         string
	body        []byte
	contentType string
}

type fakeObjectWriter struct {
	mu   sync.Mutex
	puts []put
	// cities whose uploads are rejected
	failFor map[string]bool
}

func (f *fakeObjectWriter) Put(_ context.Context, key string, body []byte, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for city := range f.failFor {
		prefix := DefaultKeyPrefix + "/" + strings.ReplaceAll(city, " ", "-") + "-"
		if strings.HasPrefix(key, prefix) {
			return fmt.Errorf("access denied")
		}
	}
	f.puts = append(f.puts, put{key: key, body: body, contentType: contentType})
	return nil
}

type fakeFixtureSource struct {
	matches []Match
	err     error
	dates   []string
}

func (f *fakeFixtureSource) Fetch(_ context.Context, date string) ([]Match, error) {
	f.dates = append(f.dates, date)
	return f.matches, f.err
}

type fakePublisher struct {
	subject string
	message string
	calls   int
	id      string
	err     error
}

func (f *fakePublisher) Publish(_ context.Context, subject, message string) (string, error) {
	f.calls++
	f.subject = subject
	f.message = message
	return f.id, f.err
}

type fakeStore struct {
	cache  map[string]string
	err    error
	getErr error
	gets   int
}

func (f *fakeStore) SetCheckpoint(pipeline, unit, value string) error {
	if f.err != nil {
		return f.err
	}
	f.cache[pipeline+":"+unit] = value
	return nil
}

func (f *fakeStore) GetCheckpoint(pipeline, unit string) (string, error) {
	f.gets++
	if f.getErr != nil {
		return "", f.getErr
	}
	return f.cache[pipeline+":"+unit], nil
}
