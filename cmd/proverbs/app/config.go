package app

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/agentstation/proverbs/pkg/constants"
	"github.com/agentstation/proverbs/pkg/errors"
	"github.com/agentstation/proverbs/pkg/kv"
)

// EnvPrefix prefixes every environment variable the CLI reads.
const EnvPrefix = "PROVERBS"

// Config holds the application configuration loaded from config files,
// environment variables and .env files.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Client configuration
	APIURL      string
	SiteURL     string
	Storage     string
	DataDir     string
	DownloadDir string
	HTTPTimeout time.Duration
	Retries     int
	ProxyURL    string
	Share       string

	// Logging configuration. LogLevel comes from --log-level or the config
	// file; EnvLogLevel from LOG_LEVEL, which ranks below -v and -q.
	LogLevel    string
	EnvLogLevel string
	LogFormat   string
	LogOutput   string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by UpdateFromFlags)
//  2. Environment variables (PROVERBS_*, plus NEXT_PUBLIC_API_URL)
//  3. .env and .env.local files
//  4. Config file (--config, else ~/.proverbs.yaml or ./.proverbs.yaml)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	loadEnvFiles()

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("api_url", EnvPrefix+"_API_URL", "NEXT_PUBLIC_API_URL"); err != nil {
		return nil, errors.WrapResource("bind", "environment", "api_url", err)
	}
	setDefaults(v)

	if configFile == "" {
		configFile = os.Getenv(EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(".proverbs")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		// A missing default config is fine; a named one that cannot be read is not.
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, errors.WrapParse("yaml", configFile, err)
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color") || os.Getenv("NO_COLOR") != "",
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		APIURL:      v.GetString("api_url"),
		SiteURL:     v.GetString("site_url"),
		Storage:     v.GetString("storage"),
		DataDir:     v.GetString("data_dir"),
		DownloadDir: v.GetString("download_dir"),
		HTTPTimeout: v.GetDuration("http_timeout"),
		Retries:     v.GetInt("retries"),
		ProxyURL:    v.GetString("proxy_url"),
		Share:       v.GetString("share"),

		LogLevel:    v.GetString("log_level"),
		EnvLogLevel: os.Getenv("LOG_LEVEL"),
		LogFormat:   getEnvOrDefault("LOG_FORMAT", v.GetString("log_format")),
		LogOutput:   getEnvOrDefault("LOG_OUTPUT", v.GetString("log_output")),
	}

	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api_url", constants.DefaultAPIURL)
	v.SetDefault("site_url", constants.DefaultSiteURL)
	v.SetDefault("storage", string(kv.KindFile))
	v.SetDefault("http_timeout", constants.DefaultHTTPTimeout)
	v.SetDefault("retries", constants.RandomRetries)
	v.SetDefault("share", "auto")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// Validate checks values that would otherwise fail deep inside a command.
func (c *Config) Validate() error {
	switch kv.Kind(c.Storage) {
	case kv.KindFile, kv.KindSQLite, kv.KindMemory:
	default:
		return errors.NewValidationError("storage", c.Storage, "must be one of file, sqlite, memory")
	}
	if c.Retries < 0 {
		return errors.NewValidationError("retries", c.Retries, "must not be negative")
	}
	if c.HTTPTimeout < 0 {
		return errors.NewValidationError("http_timeout", c.HTTPTimeout.String(), "must not be negative")
	}
	return nil
}

// UpdateFromFlags applies the flags the user set explicitly, so they take
// precedence over the config file and environment.
func (c *Config) UpdateFromFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	str := func(name string, dst *string) {
		if flags.Changed(name) {
			*dst, _ = flags.GetString(name)
		}
	}
	boolean := func(name string, dst *bool) {
		if flags.Changed(name) {
			*dst, _ = flags.GetBool(name)
		}
	}

	boolean("verbose", &c.Verbose)
	boolean("quiet", &c.Quiet)
	boolean("no-color", &c.NoColor)
	str("format", &c.Format)
	str("log-level", &c.LogLevel)
	str("api-url", &c.APIURL)
	str("storage", &c.Storage)
	str("data-dir", &c.DataDir)
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env; neither overrides the real environment.
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
