package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/tcriess/openfire-admin/globals"
)

const (
	DefaultURL       = "http://localhost:9090/plugins/restapi/v1"
	DefaultLogPath   = "/var/log/openfire-metrics"
	defaultTimeout   = 30 * time.Second
	defaultRetryMax  = 2
	defaultDomain    = "localhost"
	defaultLogLevel  = "WARN"
	defaultLogFormat = "ndjson"
)

const (
	FormatJSON   = "json"
	FormatText   = "text"
	FormatHTTP   = "http"
	FormatNDJSON = "ndjson"
)

// ErrConfiguration is wrapped by every error caused by an invalid combination of settings.
var ErrConfiguration = errors.New("configuration error")

// Config is the resolved configuration of one invocation. Values come from (in increasing priority)
// defaults, the TOML configuration file(s), OPENFIRE_* environment variables and command line flags.
type Config struct {
	APIConfig    `mapstructure:",squash"`
	OutputConfig `mapstructure:",squash"`
	PollConfig   `mapstructure:",squash"`
	LogLevel     string `mapstructure:"log_level"`
}

// APIConfig configures the connection to the OpenFire REST API plugin. AuthHeader wins over Token, Token
// wins over Username/Password.
type APIConfig struct {
	URL        string        `mapstructure:"url"`
	Username   string        `mapstructure:"username"`
	Password   string        `mapstructure:"password"`
	AuthHeader string        `mapstructure:"auth_header"`
	Token      string        `mapstructure:"token"`
	Insecure   bool          `mapstructure:"insecure"`
	Timeout    time.Duration `mapstructure:"timeout"`
	RetryMax   int           `mapstructure:"retry_max"`
	XMPPDomain string        `mapstructure:"xmpp_domain"` // used to build bare JIDs from usernames
}

// OutputConfig selects the output mode. The HTTP* settings are only used for the "http" relay.
type OutputConfig struct {
	Format       string   `mapstructure:"output_format"`
	Destination  string   `mapstructure:"output_destination"`
	HTTPUsername string   `mapstructure:"http_username"`
	HTTPPassword string   `mapstructure:"http_password"`
	HTTPHeaders  []string `mapstructure:"http_header"` // "name:value"
}

// PollConfig configures the per-endpoint log files. They are the checkpoint of the incremental security
// log poll, with EnableLogging every report is appended to them as well.
type PollConfig struct {
	LogPath       string `mapstructure:"log_path"`
	LogFormat     string `mapstructure:"log_format"`
	EnableLogging bool   `mapstructure:"enable_logging"`
	Schedule      string `mapstructure:"schedule"`
}

func GetFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("configuration", pflag.ContinueOnError)
	flagSet.String("url", DefaultURL, "OpenFire REST API URL (alias: --api-url)")
	flagSet.String("username", "", "username for basic authentication")
	flagSet.String("password", "", "password for basic authentication")
	flagSet.String("auth-header", "", "raw Authorization header value (wins over --token and --username/--password)")
	flagSet.String("token", "", "bearer token")
	flagSet.Bool("insecure", false, "skip TLS certificate verification")
	flagSet.Duration("timeout", defaultTimeout, "timeout per HTTP request")
	flagSet.Int("retry-max", defaultRetryMax, "maximum number of retries on connection errors and 5xx responses")
	flagSet.String("output-format", FormatJSON, "output format: json, text, http or ndjson")
	flagSet.String("output-destination", "", "HTTP(S) endpoint the report is posted to with --output-format http")
	flagSet.String("http-username", "", "username for basic authentication against the output destination")
	flagSet.String("http-password", "", "password for basic authentication against the output destination")
	flagSet.StringArray("http-header", nil, "custom header for the output destination, name:value (repeatable)")
	flagSet.String("log-level", defaultLogLevel, "log level (trace, debug, info, warn, error)")
	return flagSet
}

// GetUsersFlagSet holds the settings only the users command uses.
func GetUsersFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("users", pflag.ContinueOnError)
	flagSet.String("xmpp-domain", defaultDomain, "XMPP domain used to build bare JIDs for unread message counts")
	return flagSet
}

// GetLogFlagSet holds the settings of the per-endpoint log files.
func GetLogFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("log", pflag.ContinueOnError)
	flagSet.String("log-path", DefaultLogPath, "directory of the per-endpoint log files")
	flagSet.String("log-format", defaultLogFormat, "extension of the per-endpoint log files")
	flagSet.Bool("enable-logging", false, "also append every report to <log-path>/<endpoint>-<date>.<log-format>")
	return flagSet
}

// GetPollFlagSet holds the settings of the repeated security log poll.
func GetPollFlagSet() *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("poll", pflag.ContinueOnError)
	flagSet.String("schedule", "", "cron spec, poll repeatedly until interrupted instead of once")
	return flagSet
}

// wordSepNormalizeFunc allows for normalization of the flag names (which use - as a separator)
func wordSepNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	from := "-"
	to := "_"
	name = strings.Replace(name, from, to, -1)
	return pflag.NormalizedName(name)
}

// AliasNormalizeFunc maps deprecated flag spellings onto their current names.
func AliasNormalizeFunc(f *pflag.FlagSet, name string) pflag.NormalizedName {
	switch name {
	case "api-url", "api_url":
		name = "url"
	}
	return pflag.NormalizedName(name)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("url", DefaultURL)
	v.SetDefault("username", "")
	v.SetDefault("password", "")
	v.SetDefault("auth_header", "")
	v.SetDefault("token", "")
	v.SetDefault("insecure", false)
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("retry_max", defaultRetryMax)
	v.SetDefault("xmpp_domain", defaultDomain)
	v.SetDefault("output_format", FormatJSON)
	v.SetDefault("output_destination", "")
	v.SetDefault("http_username", "")
	v.SetDefault("http_password", "")
	v.SetDefault("http_header", []string{})
	v.SetDefault("log_path", DefaultLogPath)
	v.SetDefault("log_format", defaultLogFormat)
	v.SetDefault("enable_logging", false)
	v.SetDefault("schedule", "")
	v.SetDefault("log_level", defaultLogLevel)
}

// ReadConfiguration reads and parses the configuration located at configPath, which can either point to a single TOML
// file or to a directory, in which case all *.toml files in this directory are concatenated. An empty configPath
// skips the file. Flags of the given flag sets override environment and file values when they were set explicitly.
func ReadConfiguration(configPath string, flagSets ...*pflag.FlagSet) (*Config, error) {
	cfg := Config{}
	v := viper.New()
	setDefaults(v)
	for _, flagSet := range flagSets {
		if flagSet == nil {
			continue
		}
		flagSet.VisitAll(func(f *pflag.Flag) {
			key := string(wordSepNormalizeFunc(flagSet, f.Name))
			if err := v.BindPFlag(key, f); err != nil {
				globals.AppLogger.Error("could not bind flag (ignored)", "flag", f.Name, "error", err)
			}
		})
	}
	v.SetEnvPrefix("OPENFIRE")
	v.AutomaticEnv()
	if configPath != "" {
		fi, err := os.Stat(configPath)
		if err != nil {
			return nil, err
		}
		contents := make([]byte, 0)
		files := []string{configPath}
		if fi.IsDir() {
			files, err = filepath.Glob(filepath.Join(configPath, "*.toml"))
			if err != nil {
				return nil, err
			}
		}
		for _, configFile := range files {
			fileContents, err := ioutil.ReadFile(configFile)
			if err != nil {
				return nil, err
			}
			contents = append(contents, fileContents...)
			contents = append(contents, '\n')
		}
		v.SetConfigType("toml")
		err = v.ReadConfig(bytes.NewBuffer(contents))
		if err != nil {
			return nil, fmt.Errorf("could not read config %s: %w", configPath, err)
		}
	}
	err := v.Unmarshal(&cfg, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}
	cfg.Format = strings.ToLower(strings.TrimSpace(cfg.Format))
	// viper renders string array flags as one bracketed string, take the values from the flag itself
	for _, flagSet := range flagSets {
		if flagSet == nil || !flagSet.Changed("http-header") {
			continue
		}
		headers, err := flagSet.GetStringArray("http-header")
		if err != nil {
			return nil, fmt.Errorf("could not read --http-header: %w", err)
		}
		cfg.HTTPHeaders = headers
	}

	globals.AppLogger.Debug("config", "url", cfg.URL, "output_format", cfg.Format, "insecure", cfg.Insecure,
		"timeout", cfg.Timeout, "retry_max", cfg.RetryMax, "log_path", cfg.LogPath)
	return &cfg, nil
}

// Validate checks the combinations that cannot be detected by the flag parser. It never touches the network.
func (c *Config) Validate() error {
	switch c.Format {
	case FormatJSON, FormatText, FormatNDJSON:
	case FormatHTTP:
		if c.Destination == "" {
			return fmt.Errorf("%w: --output-destination is required when --output-format is %q", ErrConfiguration, FormatHTTP)
		}
		if !strings.HasPrefix(c.Destination, "http://") && !strings.HasPrefix(c.Destination, "https://") {
			return fmt.Errorf("%w: --output-destination must be a valid HTTP/HTTPS URL", ErrConfiguration)
		}
	default:
		return fmt.Errorf("%w: unknown output format %q", ErrConfiguration, c.Format)
	}
	if c.URL == "" {
		return fmt.Errorf("%w: --url must not be empty", ErrConfiguration)
	}
	if c.RetryMax < 0 {
		return fmt.Errorf("%w: --retry-max must not be negative", ErrConfiguration)
	}
	return nil
}
