package globals

import (
	"os"

	"github.com/hashicorp/go-hclog"
)

// AppLogger writes to stderr, stdout is reserved for the rendered reports.
var AppLogger = hclog.New(&hclog.LoggerOptions{
	Name:   "openfire-admin",
	Level:  hclog.LevelFromString("WARN"),
	Output: os.Stderr,
})
