package config

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Config holds all runtime configuration for the CallCatch server.
// Precedence: CLI flags > env vars > defaults.
type Config struct {
	DataDir   string
	HTTPPort  int
	LogLevel  string
	LogFormat string // "text" or "json"

	// DryRun selects the simulated SMS dispatcher. When false, the three
	// Twilio credentials below must all be set for dispatch to succeed.
	DryRun           bool
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string // E.164 sender identity for fallback SMS
}

// defaults
const (
	defaultDataDir   = "./data"
	defaultHTTPPort  = 8787
	defaultLogLevel  = "info"
	defaultLogFormat = "text"
)

// envPrefix is the prefix for all CallCatch environment variables.
const envPrefix = "CALLCATCH_"

// Load parses configuration from CLI flags and environment variables.
// Precedence: CLI flags > env vars > defaults.
func Load() (*Config, error) {
	cfg := &Config{}

	fs := flag.NewFlagSet("callcatch", flag.ContinueOnError)

	fs.StringVar(&cfg.DataDir, "data-dir", defaultDataDir, "data directory for the database")
	fs.IntVar(&cfg.HTTPPort, "http-port", defaultHTTPPort, "HTTP server listen port")
	fs.StringVar(&cfg.LogLevel, "log-level", defaultLogLevel, "log level (debug, info, warn, error)")
	fs.StringVar(&cfg.LogFormat, "log-format", defaultLogFormat, "log output format (text, json)")
	fs.BoolVar(&cfg.DryRun, "dry-run", true, "log outbound SMS instead of contacting Twilio")
	fs.StringVar(&cfg.TwilioAccountSID, "twilio-account-sid", "", "Twilio account SID for live SMS dispatch")
	fs.StringVar(&cfg.TwilioAuthToken, "twilio-auth-token", "", "Twilio auth token for live SMS dispatch")
	fs.StringVar(&cfg.TwilioFromNumber, "twilio-from-number", "", "E.164 sender number for fallback SMS")

	if err := fs.Parse(os.Args[1:]); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	applyEnvOverrides(fs, cfg)

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides checks environment variables for any flag that was not
// explicitly provided on the command line. This preserves the precedence:
// CLI flags > env vars > defaults.
func applyEnvOverrides(fs *flag.FlagSet, cfg *Config) {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})

	envMap := map[string]string{
		"data-dir":           envPrefix + "DATA_DIR",
		"http-port":          envPrefix + "HTTP_PORT",
		"log-level":          envPrefix + "LOG_LEVEL",
		"log-format":         envPrefix + "LOG_FORMAT",
		"dry-run":            envPrefix + "DRY_RUN",
		"twilio-account-sid": envPrefix + "TWILIO_ACCOUNT_SID",
		"twilio-auth-token":  envPrefix + "TWILIO_AUTH_TOKEN",
		"twilio-from-number": envPrefix + "TWILIO_FROM_NUMBER",
	}

	for flagName, envVar := range envMap {
		if set[flagName] {
			continue
		}
		val, ok := os.LookupEnv(envVar)
		if !ok || val == "" {
			continue
		}
		switch flagName {
		case "data-dir":
			cfg.DataDir = val
		case "http-port":
			if v, err := strconv.Atoi(val); err == nil {
				cfg.HTTPPort = v
			}
		case "log-level":
			cfg.LogLevel = val
		case "log-format":
			cfg.LogFormat = val
		case "dry-run":
			cfg.DryRun = strings.EqualFold(val, "true") || val == "1"
		case "twilio-account-sid":
			cfg.TwilioAccountSID = val
		case "twilio-auth-token":
			cfg.TwilioAuthToken = val
		case "twilio-from-number":
			cfg.TwilioFromNumber = val
		}
	}
}

// validate checks that the config values are sane.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("http-port must be between 1 and 65535, got %d", c.HTTPPort)
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("log-level must be one of debug, info, warn, error; got %q", c.LogLevel)
	}
	c.LogLevel = strings.ToLower(c.LogLevel)

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.LogFormat)] {
		return fmt.Errorf("log-format must be one of text, json; got %q", c.LogFormat)
	}
	c.LogFormat = strings.ToLower(c.LogFormat)

	if !c.DryRun && c.TwilioFromNumber != "" && !strings.HasPrefix(c.TwilioFromNumber, "+") {
		return fmt.Errorf("twilio-from-number must be E.164 (leading +), got %q", c.TwilioFromNumber)
	}

	return nil
}

// SlogHandler returns a slog.Handler configured with the appropriate format
// (text or json) and log level.
func (c *Config) SlogHandler(w *os.File) slog.Handler {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if c.LogFormat == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

// SlogLevel returns the slog.Level corresponding to the configured log level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
