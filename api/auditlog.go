package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/tcriess/openfire-admin/types"
)

const DefaultAuditLogLimit = 100

// AuditLogQuery selects a window of the security audit log. StartTime and EndTime are epoch seconds, 0
// meaning "forever" and "now" respectively on the server side; nil leaves them out of the request.
type AuditLogQuery struct {
	Username  string
	Offset    int
	Limit     int
	StartTime *int64
	EndTime   *int64
}

func (q AuditLogQuery) params() url.Values {
	limit := q.Limit
	if limit <= 0 {
		limit = DefaultAuditLogLimit
	}
	params := url.Values{}
	params.Set("offset", strconv.Itoa(q.Offset))
	params.Set("limit", strconv.Itoa(limit))
	if q.Username != "" {
		params.Set("username", q.Username)
	}
	if q.StartTime != nil {
		params.Set("startTime", strconv.FormatInt(*q.StartTime, 10))
	}
	if q.EndTime != nil {
		params.Set("endTime", strconv.FormatInt(*q.EndTime, 10))
	}
	return params
}

// SecurityAuditLog is read-only.
type SecurityAuditLog struct {
	r Requester
}

func NewSecurityAuditLog(r Requester) *SecurityAuditLog {
	return &SecurityAuditLog{r: r}
}

func (s *SecurityAuditLog) List(ctx context.Context, q AuditLogQuery) (*types.SecurityAuditLogs, error) {
	body, err := s.r.Get(ctx, "logs/security", q.params())
	if err != nil {
		return nil, err
	}
	logs := types.SecurityAuditLogs{Logs: make([]types.SecurityAuditLogEntry, 0)}
	if err := decodeList(body, &logs.Logs, "logs"); err != nil {
		return nil, err
	}
	return &logs, nil
}
