package redis

import (
	"testing"

	"github.com/alicebob/miniredis"
	"github.com/redis/go-redis/v9"
)

func newTestCheckpoint(t *testing.T) (*Checkpoint, *miniredis.Miniredis) {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis error: %v", err)
	}
	t.Cleanup(s.Close)

	c, err := New("app", WithClient(redis.NewClient(&redis.Options{Addr: s.Addr()})))
	if err != nil {
		t.Fatalf("new checkpoint error: %v", err)
	}
	return c, s
}

func Test_CheckpointOptions(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis error: %v", err)
	}
	defer s.Close()

	if _, err := New("app", WithAddress(s.Addr())); err != nil {
		t.Fatalf("new checkpoint error: %v", err)
	}
	if _, err := New("app", WithAddress("redis://"+s.Addr()+"/0")); err != nil {
		t.Fatalf("new checkpoint from url error: %v", err)
	}
	if _, err := New(""); err == nil {
		t.Fatalf("should require app name")
	}
}

func Test_CheckpointLifecycle(t *testing.T) {
	c, s := newTestCheckpoint(t)

	// set
	if err := c.SetCheckpoint("weather", "Accra", "weather-data/Accra-20240501-120000.json"); err != nil {
		t.Fatalf("set checkpoint error: %v", err)
	}

	// get
	val, err := c.GetCheckpoint("weather", "Accra")
	if err != nil {
		t.Fatalf("get checkpoint error: %v", err)
	}
	if val != "weather-data/Accra-20240501-120000.json" {
		t.Fatalf("checkpoint exists expected %s, got %s", "weather-data/Accra-20240501-120000.json", val)
	}

	// stored under the namespaced key
	got, err := s.Get("app:checkpoint:weather:Accra")
	if err != nil || got != val {
		t.Fatalf("raw key expected %s, got %s (%v)", val, got, err)
	}
}

func Test_GetMissingCheckpoint(t *testing.T) {
	c, _ := newTestCheckpoint(t)

	val, err := c.GetCheckpoint("fixtures", "2024-05-01")
	if err != nil {
		t.Fatalf("get checkpoint error: %v", err)
	}
	if val != "" {
		t.Fatalf("missing checkpoint expected empty value, got %s", val)
	}
}

func Test_SetEmptyValue(t *testing.T) {
	c, _ := newTestCheckpoint(t)

	if err := c.SetCheckpoint("weather", "Accra", ""); err == nil {
		t.Fatalf("should not allow empty checkpoint value")
	}
}

func Test_key(t *testing.T) {
	c, _ := newTestCheckpoint(t)

	want := "app:checkpoint:weather:New York"

	if got := c.key("weather", "New York"); got != want {
		t.Fatalf("checkpoint key, want %s, got %s", want, got)
	}
}
