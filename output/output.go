// Package output renders report records as JSON, NDJSON or indented text on stdout, or relays them as JSON
// to an HTTP endpoint.
package output

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/tcriess/openfire-admin/config"
	"github.com/tcriess/openfire-admin/globals"
	"github.com/tidwall/gjson"
)

// Writer renders every record it is given in the configured format.
type Writer struct {
	format string
	out    io.Writer
	relay  *relay
	logger hclog.Logger
}

// New checks the output settings without touching the network. Records are written to out unless the
// format is the HTTP relay.
func New(cfg config.OutputConfig, out io.Writer) (*Writer, error) {
	w := &Writer{
		format: strings.ToLower(cfg.Format),
		out:    out,
		logger: globals.AppLogger.Named("output"),
	}
	switch w.format {
	case config.FormatJSON, config.FormatText, config.FormatNDJSON:
	case config.FormatHTTP:
		r, err := newRelay(cfg)
		if err != nil {
			return nil, err
		}
		w.relay = r
	default:
		return nil, fmt.Errorf("%w: unknown output format %q", config.ErrConfiguration, cfg.Format)
	}
	return w, nil
}

// Write renders v. title heads the text rendering and is ignored by the other formats.
func (w *Writer) Write(ctx context.Context, title string, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("could not encode %s: %w", title, err)
	}
	switch w.format {
	case config.FormatHTTP:
		if err := w.relay.send(ctx, b); err != nil {
			return err
		}
		w.logger.Info("sent report", "destination", w.relay.destination, "bytes", len(b))
		return nil
	case config.FormatNDJSON:
		return w.writeNDJSON(b)
	case config.FormatText:
		_, err = io.WriteString(w.out, Text(title, b))
		return err
	}
	buf := bytes.Buffer{}
	if err := json.Indent(&buf, b, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = w.out.Write(buf.Bytes())
	return err
}

// writeNDJSON writes one line per element for lists, one line otherwise.
func (w *Writer) writeNDJSON(b []byte) error {
	res := gjson.ParseBytes(b)
	if !res.IsArray() {
		_, err := fmt.Fprintf(w.out, "%s\n", b)
		return err
	}
	var err error
	res.ForEach(func(_, item gjson.Result) bool {
		_, err = fmt.Fprintf(w.out, "%s\n", item.Raw)
		return err == nil
	})
	return err
}
