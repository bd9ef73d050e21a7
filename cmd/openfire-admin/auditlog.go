package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/cobra"
	"github.com/tcriess/openfire-admin/api"
	"github.com/tcriess/openfire-admin/config"
	"github.com/tcriess/openfire-admin/filter"
	"github.com/tcriess/openfire-admin/persistence"
	"github.com/tcriess/openfire-admin/report"
)

type auditLogOptions struct {
	since       int
	startTime   string
	endTime     string
	username    string
	offset      int
	limit       int
	incremental bool
	filterSrc   string
}

// parseTime accepts epoch seconds or any date dateparse understands (in local time).
func parseTime(flag, s string) (int64, error) {
	s = strings.TrimSpace(s)
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	t, err := dateparse.ParseLocal(s)
	if err != nil {
		return 0, fmt.Errorf("%w: could not parse --%s %q: %v", config.ErrConfiguration, flag, s, err)
	}
	return t.Unix(), nil
}

// query builds the request window. Explicit times win over --incremental, which wins over --since.
func (o *auditLogOptions) query(store persistence.Checkpointer, now time.Time) (api.AuditLogQuery, error) {
	q := api.AuditLogQuery{Username: o.username, Offset: o.offset, Limit: o.limit}
	switch {
	case o.startTime != "" || o.endTime != "":
		if o.startTime != "" {
			start, err := parseTime("start-time", o.startTime)
			if err != nil {
				return q, err
			}
			q.StartTime = &start
		}
		if o.endTime != "" {
			end, err := parseTime("end-time", o.endTime)
			if err != nil {
				return q, err
			}
			q.EndTime = &end
		}
	case o.incremental:
		start, err := report.NextStartTime(store, report.SecurityLogsEndpoint, now)
		if err != nil {
			return q, err
		}
		q.StartTime = &start
	default:
		start := now.Add(-time.Duration(o.since) * time.Minute).Unix()
		if start < 0 {
			start = 0
		}
		end := int64(0) // now
		q.StartTime = &start
		q.EndTime = &end
	}
	return q, nil
}

// poll fetches one window, appends it to the log file in incremental mode or with --enable-logging and
// writes the (filtered) result. The log file always receives the unfiltered batch, once.
func (a *app) poll(ctx context.Context, o *auditLogOptions, f *filter.Filter, store persistence.Checkpointer) error {
	now := time.Now()
	q, err := o.query(store, now)
	if err != nil {
		return err
	}
	logs, err := api.NewSecurityAuditLog(a.client).List(ctx, q)
	if err != nil {
		return err
	}
	if (o.incremental || a.cfg.EnableLogging) && len(logs.Logs) > 0 {
		if err := store.Append(report.SecurityLogsEndpoint, now, logs); err != nil {
			return fmt.Errorf("could not write checkpoint: %w", err)
		}
	}
	logs, err = f.Logs(logs)
	if err != nil {
		return err
	}
	return a.write(ctx, "", "Security Audit Logs", logs)
}

func (a *app) auditLogCmd() *cobra.Command {
	o := &auditLogOptions{}
	cmd := &cobra.Command{
		Use:   "auditlog",
		Short: "Show security audit logs",
		Long: `auditlog shows the security audit log entries of the last --since minutes or of the window given by
--start-time/--end-time. With --incremental the window starts right after the newest entry of the checkpoint
log, and every fetched batch is appended to it. With --schedule the poll is repeated on a cron schedule.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := compileFilter(o.filterSrc)
			if err != nil {
				return err
			}
			store := a.store()
			if a.cfg.Schedule == "" {
				return a.poll(cmd.Context(), o, f, store)
			}
			return a.schedule(cmd.Context(), a.cfg.Schedule, func(ctx context.Context) error {
				return a.poll(ctx, o, f, store)
			})
		},
	}
	cmd.Flags().IntVar(&o.since, "since", 60, "number of minutes ago to start fetching logs")
	cmd.Flags().StringVar(&o.startTime, "start-time", "", "start of the window, epoch seconds or a date")
	cmd.Flags().StringVar(&o.endTime, "end-time", "", "end of the window, epoch seconds or a date")
	cmd.Flags().StringVar(&o.username, "user", "", "only show entries of this user")
	cmd.Flags().IntVar(&o.offset, "offset", 0, "number of entries to skip")
	cmd.Flags().IntVar(&o.limit, "limit", api.DefaultAuditLogLimit, "maximum number of entries")
	cmd.Flags().BoolVar(&o.incremental, "incremental", false, "continue after the newest checkpointed entry")
	cmd.Flags().AddFlagSet(a.pollFlags)
	addFilterFlag(cmd, &o.filterSrc)
	return cmd
}
