package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/sankshitpandoh/CapLedger/pkg/constants"
	"github.com/sankshitpandoh/CapLedger/pkg/errors"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "CAPLEDGER"

// DefaultAPIURL is where a locally started backend listens.
const DefaultAPIURL = "http://localhost:8000"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Backend connection
	APIURL        string
	SessionToken  string
	SessionCookie string
	AuthScheme    string
	PageSize      int
	HTTPTimeout   time.Duration

	// AsOf is the valuation date; empty means today.
	AsOf string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables (CAPLEDGER_API_URL, ...)
//  3. .env files
//  4. Config file (~/.capledger.yaml or --config)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("api_url", DefaultAPIURL)
	v.SetDefault("session_cookie", constants.DefaultSessionCookie)
	v.SetDefault("auth_scheme", "cookie")
	v.SetDefault("page_size", constants.DefaultPageSize)
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "cannot read "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".capledger")
		// A missing default config file is fine.
		_ = v.ReadInConfig()
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Output:  v.GetString("output"),

		ConfigFile: v.ConfigFileUsed(),

		APIURL:        strings.TrimRight(v.GetString("api_url"), "/"),
		SessionToken:  v.GetString("session_token"),
		SessionCookie: v.GetString("session_cookie"),
		AuthScheme:    v.GetString("auth_scheme"),
		PageSize:      v.GetInt("page_size"),
		HTTPTimeout:   v.GetDuration("http_timeout"),
		AsOf:          v.GetString("as_of"),

		LogLevel:  v.GetString("log_level"),
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}
	if config.LogLevel == "" {
		config.LogLevel = os.Getenv("LOG_LEVEL")
	}

	return config, config.Validate()
}

// Validate checks values that would only fail later at request time.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.NewConfigError("api_url", "must be set", nil)
	}
	if c.PageSize < 0 || c.PageSize > constants.MaxPageSize {
		return errors.NewConfigError("page_size", "must be between 1 and 200 (0 selects the default)", nil)
	}
	if c.HTTPTimeout < 0 {
		return errors.NewConfigError("http_timeout", "must not be negative", nil)
	}
	if c.AsOf != "" {
		if _, err := time.Parse(time.DateOnly, c.AsOf); err != nil {
			return errors.NewConfigError("as_of", "must be YYYY-MM-DD", err)
		}
	}
	return nil
}

// FlagValues are the root flags a user actually set on the command line.
type FlagValues struct {
	Verbose  *bool
	Quiet    *bool
	NoColor  *bool
	Output   *string
	LogLevel *string
	AsOf     *string
	APIURL   *string
}

// UpdateFromFlags applies the flags that were set. Unset flags leave config
// file and environment values alone.
func (c *Config) UpdateFromFlags(f FlagValues) error {
	setBool(&c.Verbose, f.Verbose)
	setBool(&c.Quiet, f.Quiet)
	setBool(&c.NoColor, f.NoColor)
	setString(&c.Output, f.Output)
	setString(&c.LogLevel, f.LogLevel)
	setString(&c.AsOf, f.AsOf)
	if f.APIURL != nil {
		c.APIURL = strings.TrimRight(*f.APIURL, "/")
	}
	return c.Validate()
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

// loadEnvFiles loads environment variables from .env files. Variables
// already set in the environment win.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
