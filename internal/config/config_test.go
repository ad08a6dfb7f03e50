package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(m map[string]string) func(string) string {
	return func(k string) string { return m[k] }
}

func TestParseArgs_Defaults(t *testing.T) {
	opts, err := ParseArgs([]string{"-c", ""}, env(nil))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", opts.Address)
	assert.Equal(t, 30*time.Minute, opts.TokenTTL())
	assert.Equal(t, "info", opts.LogLevel)
	assert.True(t, opts.UsesDefaultSecret())
	assert.False(t, opts.TLSEnabled())
}

func TestParseArgs_Flags(t *testing.T) {
	opts, err := ParseArgs([]string{"-c", "", "-a", ":9000", "-d", "postgres://x", "-s", "k", "-t", "5", "-l", "debug"}, env(nil))
	require.NoError(t, err)

	assert.Equal(t, ":9000", opts.Address)
	assert.Equal(t, "postgres://x", opts.DatabaseDSN)
	assert.Equal(t, "k", opts.SecretKey)
	assert.Equal(t, 5*time.Minute, opts.TokenTTL())
	assert.Equal(t, "debug", opts.LogLevel)
}

func TestParseArgs_EnvOverridesFileOverridesFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"address":":7000","secret_key":"from-file","access_token_expire_minutes":15}`), 0o600))

	opts, err := ParseArgs([]string{"-c", path, "-a", ":9000"}, env(map[string]string{
		"SECRET_KEY":   "from-env",
		"DATABASE_URL": "postgres://env",
	}))
	require.NoError(t, err)

	assert.Equal(t, ":7000", opts.Address)
	assert.Equal(t, "from-env", opts.SecretKey)
	assert.Equal(t, "postgres://env", opts.DatabaseDSN)
	assert.Equal(t, 15*time.Minute, opts.TokenTTL())
	assert.False(t, opts.UsesDefaultSecret())
}

func TestParseArgs_Errors(t *testing.T) {
	_, err := ParseArgs([]string{"-c", ""}, env(map[string]string{"ACCESS_TOKEN_EXPIRE_MINUTES": "soon"}))
	assert.Error(t, err)

	_, err = ParseArgs([]string{"-c", "", "-t", "0"}, env(nil))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0o600))
	_, err = ParseArgs(nil, env(map[string]string{"CONFIG": path}))
	assert.ErrorContains(t, err, "parsing config file")

	_, err = ParseArgs([]string{"-unknown"}, env(nil))
	assert.Error(t, err)
}

func TestParseFlagSet_ExtraFlags(t *testing.T) {
	fs := flag.NewFlagSet("seed", flag.ContinueOnError)
	password := fs.String("admin-password", "", "admin password")

	opts, err := ParseFlagSet(fs, []string{"-c", "", "-admin-password", "pw", "-d", "postgres://x"}, env(nil))
	require.NoError(t, err)
	assert.Equal(t, "pw", *password)
	assert.Equal(t, "postgres://x", opts.DatabaseDSN)
}
