package config

import (
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg, err := ReadConfiguration("", GetFlagSet(), GetUsersFlagSet(), GetLogFlagSet(), GetPollFlagSet())
	require.NoError(t, err)
	assert.Equal(t, DefaultURL, cfg.URL)
	assert.Equal(t, FormatJSON, cfg.Format)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, 2, cfg.RetryMax)
	assert.Equal(t, "localhost", cfg.XMPPDomain)
	assert.Equal(t, DefaultLogPath, cfg.LogPath)
	assert.Equal(t, "ndjson", cfg.LogFormat)
	assert.False(t, cfg.EnableLogging)
	assert.Equal(t, "WARN", cfg.LogLevel)
	assert.NoError(t, cfg.Validate())
}

func TestPrecedence(t *testing.T) {
	dir, err := ioutil.TempDir("", "config")
	require.NoError(t, err)
	defer os.RemoveAll(dir)
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "api.toml"), []byte(`
url = "https://file.example.org/plugins/restapi/v1"
username = "file-user"
timeout = "5s"
`), 0644))
	require.NoError(t, ioutil.WriteFile(filepath.Join(dir, "output.toml"), []byte(`
output_format = "TEXT"
http_header = ["X-A: 1", "X-B: 2"]
`), 0644))

	os.Setenv("OPENFIRE_USERNAME", "env-user")
	os.Setenv("OPENFIRE_PASSWORD", "env-secret")
	defer os.Unsetenv("OPENFIRE_USERNAME")
	defer os.Unsetenv("OPENFIRE_PASSWORD")

	flagSet := GetFlagSet()
	require.NoError(t, flagSet.Parse([]string{"--password", "flag-secret", "--retry-max", "4"}))

	cfg, err := ReadConfiguration(dir, flagSet)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.org/plugins/restapi/v1", cfg.URL)
	assert.Equal(t, "env-user", cfg.Username)
	assert.Equal(t, "flag-secret", cfg.Password)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, 4, cfg.RetryMax)
	assert.Equal(t, FormatText, cfg.Format)
	assert.Equal(t, []string{"X-A: 1", "X-B: 2"}, cfg.HTTPHeaders)
}

func TestAliasFlag(t *testing.T) {
	flagSet := GetFlagSet()
	flagSet.SetNormalizeFunc(AliasNormalizeFunc)
	require.NoError(t, flagSet.Parse([]string{"--api-url", "http://openfire:9090/plugins/restapi/v1"}))
	cfg, err := ReadConfiguration("", flagSet)
	require.NoError(t, err)
	assert.Equal(t, "http://openfire:9090/plugins/restapi/v1", cfg.URL)
}

func TestEnableLogging(t *testing.T) {
	os.Setenv("OPENFIRE_ENABLE_LOGGING", "true")
	defer os.Unsetenv("OPENFIRE_ENABLE_LOGGING")
	flagSet := GetLogFlagSet()
	require.NoError(t, flagSet.Parse([]string{"--log-path", "/tmp/metrics"}))
	cfg, err := ReadConfiguration("", flagSet)
	require.NoError(t, err)
	assert.True(t, cfg.EnableLogging)
	assert.Equal(t, "/tmp/metrics", cfg.LogPath)
}

func TestHTTPHeaderFlags(t *testing.T) {
	flagSet := GetFlagSet()
	require.NoError(t, flagSet.Parse([]string{"--http-header", "X-One: a", "--http-header", "X-Two: b, c"}))
	cfg, err := ReadConfiguration("", flagSet)
	require.NoError(t, err)
	assert.Equal(t, []string{"X-One: a", "X-Two: b, c"}, cfg.HTTPHeaders)

	cfg, err = ReadConfiguration("", GetFlagSet())
	require.NoError(t, err)
	assert.Empty(t, cfg.HTTPHeaders)
}

func TestMissingConfigFile(t *testing.T) {
	_, err := ReadConfiguration("/does/not/exist.toml")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() Config {
		return Config{APIConfig: APIConfig{URL: DefaultURL}, OutputConfig: OutputConfig{Format: FormatJSON}}
	}
	cases := map[string]func(c *Config){
		"unknown format":     func(c *Config) { c.Format = "xml" },
		"http without dest":  func(c *Config) { c.Format = FormatHTTP },
		"http with bad dest": func(c *Config) { c.Format = FormatHTTP; c.Destination = "localhost:8080" },
		"empty url":          func(c *Config) { c.URL = "" },
		"negative retry max": func(c *Config) { c.RetryMax = -1 },
	}
	for name, mutate := range cases {
		c := base()
		mutate(&c)
		err := c.Validate()
		assert.True(t, errors.Is(err, ErrConfiguration), name)
	}

	c := base()
	c.Format = FormatHTTP
	c.Destination = "https://metrics.example.org/ingest"
	assert.NoError(t, c.Validate())
}
