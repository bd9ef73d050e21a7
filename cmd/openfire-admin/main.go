package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/tcriess/openfire-admin/auth"
	"github.com/tcriess/openfire-admin/client"
	"github.com/tcriess/openfire-admin/config"
	"github.com/tcriess/openfire-admin/filter"
	"github.com/tcriess/openfire-admin/globals"
	"github.com/tcriess/openfire-admin/output"
	"github.com/tcriess/openfire-admin/persistence"
	"github.com/tcriess/openfire-admin/report"
)

// A CLI tool for reporting on (and administrating the groups of) an OpenFire server through its REST API.

// app is the state of one invocation. The client is created before the selected command runs and closed by
// run on every exit path.
type app struct {
	configPath string
	flagSet    *pflag.FlagSet
	usersFlags *pflag.FlagSet
	logFlags   *pflag.FlagSet
	pollFlags  *pflag.FlagSet
	cfg        *config.Config
	client     *client.Client
	out        *output.Writer
	stdin      io.Reader
	stdout     io.Writer
}

// Names of the per-endpoint log files.
const (
	usersEndpoint      = "users"
	groupsEndpoint     = "groups"
	sessionsEndpoint   = "sessions"
	chatroomsEndpoint  = "chatrooms"
	propertiesEndpoint = "system-properties"
	rosterEndpoint     = "user-roster"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	a := &app{stdin: stdin, stdout: stdout}
	return a.execute(ctx, a.rootCmd(), args, stderr)
}

// execute runs the command tree and releases the client however the command ends.
func (a *app) execute(ctx context.Context, rootCmd *cobra.Command, args []string, stderr io.Writer) int {
	defer a.close()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(a.stdout)
	rootCmd.SetErr(stderr)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	a.flagSet = config.GetFlagSet()
	a.usersFlags = config.GetUsersFlagSet()
	a.logFlags = config.GetLogFlagSet()
	a.pollFlags = config.GetPollFlagSet()

	var rootCmd = &cobra.Command{
		Use:               "openfire-admin",
		Short:             "Query the OpenFire REST API",
		Long:              `openfire-admin reports on users and their rosters, groups, chatrooms, sessions, system properties and security audit logs of an OpenFire server.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "path to config file or directory")
	rootCmd.PersistentFlags().AddFlagSet(a.flagSet)
	rootCmd.PersistentFlags().AddFlagSet(a.logFlags)
	rootCmd.SetGlobalNormalizationFunc(config.AliasNormalizeFunc)

	rootCmd.AddCommand(
		a.chatroomsCmd(),
		a.usersCmd(),
		a.groupsCmd(),
		a.sessionsCmd(),
		a.propertiesCmd(),
		a.rosterCmd(),
		a.auditLogCmd(),
	)
	return rootCmd
}

// setup resolves the configuration and builds the client and the output writer. Nothing is sent yet.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.ReadConfiguration(a.configPath, a.flagSet, a.usersFlags, a.logFlags, a.pollFlags)
	if err != nil {
		return err
	}
	globals.AppLogger.SetLevel(hclog.LevelFromString(cfg.LogLevel))
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	a.out, err = output.New(cfg.OutputConfig, a.stdout)
	if err != nil {
		return err
	}
	authHeader, err := auth.Header(&cfg.APIConfig)
	if err != nil {
		return err
	}
	a.client, err = client.NewFromConfig(&cfg.APIConfig, authHeader)
	return err
}

func (a *app) close() {
	if a.client != nil {
		a.client.Close()
		a.client = nil
	}
}

func (a *app) reporter() *report.Reporter {
	return report.NewReporter(a.client)
}

func (a *app) store() *persistence.LogStore {
	return persistence.NewLogStore(a.cfg.LogPath, a.cfg.LogFormat)
}

// write renders v and, with --enable-logging, appends it to the log file of endpoint.
func (a *app) write(ctx context.Context, endpoint, title string, v interface{}) error {
	if a.cfg.EnableLogging && endpoint != "" {
		if err := a.store().Append(endpoint, time.Now(), v); err != nil {
			return fmt.Errorf("could not write %s log: %w", endpoint, err)
		}
	}
	return a.out.Write(ctx, title, v)
}

// logWarnings reports recovered failures once more as a single summary.
func logWarnings(warnings []report.Warning) {
	if err := report.Summarize(warnings); err != nil {
		globals.AppLogger.Debug("report completed with warnings", "count", len(warnings), "warnings", err.Error())
	}
}

func addFilterFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVar(target, "filter", "", "only report records matching this expression")
}

func compileFilter(src string) (*filter.Filter, error) {
	f, err := filter.Compile(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", config.ErrConfiguration, err)
	}
	return f, nil
}
