package types

// SecurityAuditLogEntry is one entry of the security audit log. Timestamp is in epoch seconds.
type SecurityAuditLogEntry struct {
	LogID     int64  `json:"logId"`
	Username  string `json:"username"`
	Timestamp int64  `json:"timestamp"`
	Summary   string `json:"summary"`
	Node      string `json:"node"`
	Details   string `json:"details"` // "" when the server omits it
}

// SecurityAuditLogs is the {"logs": [...]} record written to stdout and to the checkpoint log.
type SecurityAuditLogs struct {
	Logs []SecurityAuditLogEntry `json:"logs"`
}

// MaxTimestamp returns the newest timestamp of the batch and false for an empty batch.
func (l SecurityAuditLogs) MaxTimestamp() (int64, bool) {
	var max int64
	found := false
	for _, entry := range l.Logs {
		if !found || entry.Timestamp > max {
			max = entry.Timestamp
			found = true
		}
	}
	return max, found
}
