// Package config provides functionality for managing configuration options
// for the application using command-line flags, a JSON file, a .env file and
// environment variables.
package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultSecretKey signs tokens when no secret is configured. It is only
// suitable for local development.
const DefaultSecretKey = "dev-secret-change-me"

// Options holds the configuration values for the application.
type Options struct {
	// Address is the server's listening address (ip:port).
	Address string `json:"address"`

	// DatabaseDSN holds the Postgres connection string.
	DatabaseDSN string `json:"database_dsn"`

	// SecretKey signs and verifies access tokens.
	SecretKey string `json:"secret_key"`

	// TokenTTLMinutes is the lifetime of an access token.
	TokenTTLMinutes int `json:"access_token_expire_minutes"`

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `json:"log_level"`

	// TLSCert and TLSKey enable HTTPS when both are set.
	TLSCert string `json:"tls_cert"`
	TLSKey  string `json:"tls_key"`

	ReadTimeout  time.Duration `json:"-"`
	WriteTimeout time.Duration `json:"-"`

	// Config is the path to the JSON config file.
	Config string `json:"-"`
}

// TokenTTL returns the access token lifetime.
func (o *Options) TokenTTL() time.Duration {
	return time.Duration(o.TokenTTLMinutes) * time.Minute
}

// UsesDefaultSecret reports whether tokens are signed with DefaultSecretKey.
func (o *Options) UsesDefaultSecret() bool {
	return o.SecretKey == DefaultSecretKey
}

// TLSEnabled reports whether both TLS files are configured.
func (o *Options) TLSEnabled() bool {
	return o.TLSCert != "" && o.TLSKey != ""
}

// Parse loads a .env file from the working directory if one exists, then
// reads the process arguments and environment.
func Parse() (*Options, error) {
	return ParseWith(flag.NewFlagSet(os.Args[0], flag.ContinueOnError))
}

// ParseWith is Parse for commands that register flags of their own on
// fsFlags before handing it over.
func ParseWith(fsFlags *flag.FlagSet) (*Options, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}
	return ParseFlagSet(fsFlags, os.Args[1:], os.Getenv)
}

// ParseArgs builds Options from command-line args, then the JSON config
// file, then environment variables looked up with getenv. Later sources
// override earlier ones.
func ParseArgs(args []string, getenv func(string) string) (*Options, error) {
	return ParseFlagSet(flag.NewFlagSet("carlot", flag.ContinueOnError), args, getenv)
}

// ParseFlagSet is ParseArgs on a caller-supplied flag set.
func ParseFlagSet(fsFlags *flag.FlagSet, args []string, getenv func(string) string) (*Options, error) {
	opts := &Options{}

	fsFlags.StringVar(&opts.Address, "a", "localhost:8080", "run on ip:port server")
	fsFlags.StringVar(&opts.DatabaseDSN, "d", "", "db address")
	fsFlags.StringVar(&opts.SecretKey, "s", DefaultSecretKey, "token signing secret")
	fsFlags.IntVar(&opts.TokenTTLMinutes, "t", 30, "access token lifetime in minutes")
	fsFlags.StringVar(&opts.LogLevel, "l", "info", "log level")
	fsFlags.StringVar(&opts.TLSCert, "tls-cert", "", "path to TLS certificate")
	fsFlags.StringVar(&opts.TLSKey, "tls-key", "", "path to TLS private key")
	fsFlags.DurationVar(&opts.ReadTimeout, "read-timeout", 10*time.Second, "HTTP read timeout")
	fsFlags.DurationVar(&opts.WriteTimeout, "write-timeout", 30*time.Second, "HTTP write timeout")
	fsFlags.StringVar(&opts.Config, "config", "config.json", "path to config file")
	fsFlags.StringVar(&opts.Config, "c", "config.json", "path to config file (shorthand)")

	if err := fsFlags.Parse(args); err != nil {
		return nil, err
	}

	if configPath := getenv("CONFIG"); configPath != "" {
		opts.Config = configPath
	}

	if opts.Config != "" {
		if _, err := os.Stat(opts.Config); err == nil {
			data, err := os.ReadFile(opts.Config)
			if err != nil {
				return nil, fmt.Errorf("error while reading config file: %w", err)
			}
			if err := json.Unmarshal(data, opts); err != nil {
				return nil, fmt.Errorf("error while parsing config file: %w", err)
			}
		}
	}

	if v := getenv("SERVER_ADDRESS"); v != "" {
		opts.Address = v
	}
	if v := getenv("DATABASE_URL"); v != "" {
		opts.DatabaseDSN = v
	}
	if v := getenv("SECRET_KEY"); v != "" {
		opts.SecretKey = v
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		opts.LogLevel = v
	}
	if v := getenv("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("ACCESS_TOKEN_EXPIRE_MINUTES: %w", err)
		}
		opts.TokenTTLMinutes = n
	}

	if opts.TokenTTLMinutes <= 0 {
		return nil, fmt.Errorf("token lifetime must be positive, got %d minutes", opts.TokenTTLMinutes)
	}
	return opts, nil
}
