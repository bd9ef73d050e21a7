package persistence

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/tcriess/openfire-admin/globals"
	"github.com/tidwall/gjson"
)

const dateLayout = "2006-01-02"

// LogStore writes to <dir>/<endpoint>-<YYYY-MM-DD>.<format>. Every access to a file holds the flock on
// <file>.lock, so a scheduled poll and a manual run never interleave lines.
type LogStore struct {
	dir    string
	format string
}

func NewLogStore(dir, format string) *LogStore {
	if format == "" {
		format = "ndjson"
	}
	return &LogStore{dir: dir, format: format}
}

// Path returns the file holding the records of endpoint written on day (local time).
func (s *LogStore) Path(endpoint string, day time.Time) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s-%s.%s", endpoint, day.Format(dateLayout), s.format))
}

// Append writes record as one compact JSON line to the file of day at.
func (s *LogStore) Append(endpoint string, at time.Time, record interface{}) error {
	line, err := json.Marshal(record)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("could not create log directory: %w", err)
	}
	path := s.Path(endpoint, at)
	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("could not lock %s: %w", path, err)
	}
	defer lock.Unlock()

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return err
	}
	globals.AppLogger.Debug("appended checkpoint record", "file", path, "bytes", len(line)+1)
	return f.Close()
}

// LastTimestamp returns the largest logs[].timestamp of the newest non-empty file, looking at today and
// then yesterday. Lines that are not JSON objects are skipped. ok is false when there is no such file or
// the file holds no timestamp.
func (s *LogStore) LastTimestamp(endpoint string, now time.Time) (int64, bool, error) {
	for _, day := range []time.Time{now, now.AddDate(0, 0, -1)} {
		path := s.Path(endpoint, day)
		fi, err := os.Stat(path)
		if err != nil || fi.Size() == 0 {
			continue
		}
		return s.scan(path)
	}
	return 0, false, nil
}

func (s *LogStore) scan(path string) (int64, bool, error) {
	lock := flock.New(path + ".lock")
	if err := lock.RLock(); err != nil {
		return 0, false, fmt.Errorf("could not lock %s: %w", path, err)
	}
	defer lock.Unlock()

	f, err := os.Open(path)
	if err != nil {
		return 0, false, err
	}
	defer f.Close()

	var max int64
	found := false
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "{") || !gjson.Valid(line) {
			continue
		}
		for _, ts := range gjson.Get(line, "logs.#.timestamp").Array() {
			if ts.Type != gjson.Number {
				continue
			}
			if v := ts.Int(); !found || v > max {
				max = v
				found = true
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, false, err
	}
	globals.AppLogger.Debug("scanned checkpoint log", "file", path, "found", found, "timestamp", max)
	return max, found, nil
}
