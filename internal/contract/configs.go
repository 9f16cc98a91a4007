package contract

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/huangsam/topsis/internal/tableio"
	"github.com/huangsam/topsis/schema"
)

// Default values for configuration.
const (
	DefaultPrecision    = 4
	MaxPrecision        = 10
	DefaultDelimiter    = ","
	DefaultSMTPPort     = 587
	DefaultServeAddr    = ":8080"
	DefaultMaxUploadMB  = 10
	MaxUploadMBLimit    = 512
	DefaultColorSetting = "yes"
)

// SMTPConfig holds outgoing mail settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string // Please use env var as this is plaintext
	From     string
}

// Enabled reports whether enough settings exist to send mail.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// Config holds the runtime configuration for ranking.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath  string
	Weights    schema.WeightVector
	Impacts    schema.ImpactVector
	Delimiter  rune
	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Detail     bool // Show criterion values next to scores
	Width      int  // Terminal width override (0 = auto-detect)
	UseColors  bool // Enable colored labels in table output

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	Email string // Recipient of the result CSV, empty to skip delivery
	SMTP  SMTPConfig

	ServeAddr      string
	MaxUploadBytes int64
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Color            string `mapstructure:"color"`
	CacheBackend     string `mapstructure:"cache-backend"`
	CacheDBConnect   string `mapstructure:"cache-db-connect"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	SMTPHost         string `mapstructure:"smtp-host"`
	SMTPPort         int    `mapstructure:"smtp-port"`
	SMTPUser         string `mapstructure:"smtp-user"`
	SMTPPassword     string `mapstructure:"smtp-password"`
	SMTPFrom         string `mapstructure:"smtp-from"`

	// --- Fields from rankCmd.Flags() ---
	Weights   string `mapstructure:"weights"`
	Impacts   string `mapstructure:"impacts"`
	Delimiter string `mapstructure:"delimiter"`
	Detail    bool   `mapstructure:"detail"`
	Email     string `mapstructure:"email"`

	// --- Fields from serveCmd.Flags() ---
	Addr        string `mapstructure:"addr"`
	MaxUploadMB int    `mapstructure:"max-upload-mb"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	if c.Weights != nil {
		clone.Weights = make(schema.WeightVector, len(c.Weights))
		copy(clone.Weights, c.Weights)
	}
	if c.Impacts != nil {
		clone.Impacts = make(schema.ImpactVector, len(c.Impacts))
		copy(clone.Impacts, c.Impacts)
	}
	return &clone
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	// All validation functions read from 'input' and populate 'cfg'.
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processRankInputs(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := processMailSettings(cfg, input); err != nil {
		return err
	}
	return processServeSettings(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("a connection string is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and history backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if cfg.CacheBackend != "" {
		if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
			return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, none", input.CacheBackend)
		}
		cfg.CacheDBConnect = input.CacheDBConnect
		if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
			return fmt.Errorf("cache-db-connect: %w", err)
		}
	}

	// --- History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("history-db-connect: %w", err)
	}

	// For SQLite, resolve to actual file paths to catch default path conflicts
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.HistoryBackend == schema.SQLiteBackend {
		cacheDBPath := cfg.CacheDBConnect
		if cacheDBPath == "" {
			cacheDBPath = GetCacheDBFilePath()
		}
		historyDBPath := cfg.HistoryDBConnect
		if historyDBPath == "" {
			historyDBPath = GetHistoryDBFilePath()
		}
		if cacheDBPath == historyDBPath {
			return fmt.Errorf("cache and history storage must use different SQLite database files. Both resolve to %q", cacheDBPath)
		}
	}

	return nil
}

// validateSimpleInputs processes and validates all output related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}
	cfg.Width = input.Width

	// Parse color flag
	colorSetting := input.Color
	if colorSetting == "" {
		colorSetting = DefaultColorSetting
	}
	colors, err := ParseBoolString(colorSetting)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. Precision and Output Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required when using parquet output")
	}

	// --- 2. Delimiter Validation ---
	delimiter := input.Delimiter
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	if delimiter == `\t` || delimiter == "tab" {
		delimiter = "\t"
	}
	if utf8.RuneCountInString(delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character (received %q)", input.Delimiter)
	}
	r, _ := utf8.DecodeRuneInString(delimiter)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return fmt.Errorf("delimiter %q is not allowed", delimiter)
	}
	cfg.Delimiter = r

	return nil
}

// processRankInputs parses the weights and impacts. Both are optional here
// because serve and mcp receive them per request.
func processRankInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.InputPath = strings.TrimSpace(input.InputPathStr)

	if strings.TrimSpace(input.Weights) != "" {
		weights, err := tableio.ParseWeights(input.Weights)
		if err != nil {
			return fmt.Errorf("invalid --weights value: %w", err)
		}
		cfg.Weights = weights
	}
	if strings.TrimSpace(input.Impacts) != "" {
		cfg.Impacts = tableio.ParseImpacts(input.Impacts)
	}
	return nil
}

// processMailSettings validates the recipient and SMTP settings.
func processMailSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.SMTP = SMTPConfig{
		Host:     strings.TrimSpace(input.SMTPHost),
		Port:     input.SMTPPort,
		Username: input.SMTPUser,
		Password: input.SMTPPassword,
		From:     strings.TrimSpace(input.SMTPFrom),
	}
	if cfg.SMTP.Port == 0 {
		cfg.SMTP.Port = DefaultSMTPPort
	}
	if cfg.SMTP.Port < 1 || cfg.SMTP.Port > 65535 {
		return fmt.Errorf("smtp-port must be between 1 and 65535 (received %d)", cfg.SMTP.Port)
	}
	if cfg.SMTP.From != "" {
		if _, err := mail.ParseAddress(cfg.SMTP.From); err != nil {
			return fmt.Errorf("invalid --smtp-from address %q: %w", cfg.SMTP.From, err)
		}
	}

	cfg.Email = strings.TrimSpace(input.Email)
	if cfg.Email == "" {
		return nil
	}
	if err := ValidateEmailAddress(cfg.Email); err != nil {
		return err
	}
	if !cfg.SMTP.Enabled() {
		return fmt.Errorf("--email requires smtp-host and smtp-from to be configured")
	}
	return nil
}

// processServeSettings validates the HTTP listener settings.
func processServeSettings(cfg *Config, input *ConfigRawInput) error {
	cfg.ServeAddr = strings.TrimSpace(input.Addr)
	if cfg.ServeAddr == "" {
		cfg.ServeAddr = DefaultServeAddr
	}

	uploadMB := input.MaxUploadMB
	if uploadMB == 0 {
		uploadMB = DefaultMaxUploadMB
	}
	if uploadMB < 1 || uploadMB > MaxUploadMBLimit {
		return fmt.Errorf("max-upload-mb must be between 1 and %d (received %d)", MaxUploadMBLimit, uploadMB)
	}
	cfg.MaxUploadBytes = int64(uploadMB) << 20
	return nil
}

// ValidateEmailAddress checks that addr is a single bare email address.
func ValidateEmailAddress(addr string) error {
	parsed, err := mail.ParseAddress(addr)
	if err != nil {
		return fmt.Errorf("invalid email address %q: %w", addr, err)
	}
	if parsed.Address != addr {
		return fmt.Errorf("invalid email address %q: expected a bare address like user@example.com", addr)
	}
	return nil
}

// ProcessProfilingConfig enables profiling when a file prefix is given.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	profilePrefix = strings.TrimSpace(profilePrefix)
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}
