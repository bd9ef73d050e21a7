// Package persistence keeps the append-only checkpoint logs of the polling commands. One file per endpoint
// and day, one compact JSON record per line.
package persistence

import (
	"time"
)

// Checkpointer appends fetched batches and recovers the newest timestamp seen so far.
type Checkpointer interface {
	Append(endpoint string, at time.Time, record interface{}) error
	LastTimestamp(endpoint string, now time.Time) (int64, bool, error)
}
