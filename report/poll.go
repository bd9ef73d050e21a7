package report

import (
	"time"

	"github.com/tcriess/openfire-admin/globals"
	"github.com/tcriess/openfire-admin/persistence"
)

// SecurityLogsEndpoint names the checkpoint files of the security audit log poll.
const SecurityLogsEndpoint = "security-logs"

// lookback is the window fetched when there is no checkpoint yet.
const lookback = 24 * time.Hour

// NextStartTime returns the startTime (epoch s) of the next incremental poll: one past the newest
// checkpointed timestamp, or now minus 24 hours without a usable checkpoint.
func NextStartTime(store persistence.Checkpointer, endpoint string, now time.Time) (int64, error) {
	last, ok, err := store.LastTimestamp(endpoint, now)
	if err != nil {
		return 0, err
	}
	if !ok {
		start := now.Add(-lookback).Unix()
		globals.AppLogger.Debug("no checkpoint, using lookback window", "endpoint", endpoint, "start", start)
		return start, nil
	}
	return last + 1, nil
}
