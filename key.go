package relay

import (
	"fmt"
	"strings"
	"time"
)

// DefaultKeyPrefix is the folder weather snapshots are written under.
const DefaultKeyPrefix = "weather-data"

const keyTimeLayout = "20060102-150405"

// ObjectKey returns the storage key for a city snapshot taken at t, e.g.
// weather-data/New-York-20240501-120000.json. Keys have second granularity, so
// two snapshots of one city taken within the same second collide.
func ObjectKey(prefix, city string, t time.Time) string {
	name := strings.ReplaceAll(city, " ", "-")
	ts := t.UTC().Format(keyTimeLayout)

	if prefix == "" {
		return fmt.Sprintf("%v-%v.json", name, ts)
	}
	return fmt.Sprintf("%v/%v-%v.json", strings.TrimSuffix(prefix, "/"), name, ts)
}
