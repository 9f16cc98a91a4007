package contract

import (
	"path/filepath"
	"testing"

	"github.com/huangsam/topsis/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns a raw input equivalent to the CLI defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		InputPathStr: "data.csv",
		Precision:    DefaultPrecision,
		Output:       "text",
		Color:        "yes",
		CacheBackend: string(schema.SQLiteBackend),
		Weights:      "0.25,0.25,0.5",
		Impacts:      "-,+,+",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(in *ConfigRawInput)
		expectError string
	}{
		{name: "valid minimal config", mutate: func(*ConfigRawInput) {}},
		{name: "precision too low", mutate: func(in *ConfigRawInput) { in.Precision = 0 }, expectError: "precision must be between"},
		{name: "precision too high", mutate: func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 }, expectError: "precision must be between"},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: "invalid output format"},
		{name: "parquet without file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: "--output-file is required"},
		{name: "parquet with file", mutate: func(in *ConfigRawInput) { in.Output = "parquet"; in.OutputFile = "out.parquet" }},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "sometimes" }, expectError: "invalid --color value"},
		{name: "negative width", mutate: func(in *ConfigRawInput) { in.Width = -1 }, expectError: "width cannot be negative"},
		{name: "multi character delimiter", mutate: func(in *ConfigRawInput) { in.Delimiter = ";;" }, expectError: "single character"},
		{name: "quote delimiter", mutate: func(in *ConfigRawInput) { in.Delimiter = `"` }, expectError: "not allowed"},
		{name: "bad weight", mutate: func(in *ConfigRawInput) { in.Weights = "1,abc,1" }, expectError: "invalid --weights value"},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: "invalid cache backend"},
		{name: "invalid history backend", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "redis" }, expectError: "invalid history backend"},
		{name: "mysql without dsn", mutate: func(in *ConfigRawInput) { in.HistoryBackend = "mysql" }, expectError: "history-db-connect"},
		{name: "email without smtp", mutate: func(in *ConfigRawInput) { in.Email = "user@example.com" }, expectError: "requires smtp-host"},
		{name: "malformed email", mutate: func(in *ConfigRawInput) {
			in.Email = "not-an-email"
			in.SMTPHost = "smtp.example.com"
			in.SMTPFrom = "topsis@example.com"
		}, expectError: "invalid email address"},
		{name: "email with smtp", mutate: func(in *ConfigRawInput) {
			in.Email = "user@example.com"
			in.SMTPHost = "smtp.example.com"
			in.SMTPFrom = "topsis@example.com"
		}},
		{name: "bad smtp port", mutate: func(in *ConfigRawInput) { in.SMTPPort = 70000 }, expectError: "smtp-port"},
		{name: "upload limit too large", mutate: func(in *ConfigRawInput) { in.MaxUploadMB = MaxUploadMBLimit + 1 }, expectError: "max-upload-mb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	input := validInput()
	input.Output = ""
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, "data.csv", cfg.InputPath)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, ',', cfg.Delimiter)
	assert.Equal(t, schema.WeightVector{0.25, 0.25, 0.5}, cfg.Weights)
	assert.Equal(t, schema.ImpactVector{schema.Cost, schema.Benefit, schema.Benefit}, cfg.Impacts)
	assert.Equal(t, DefaultSMTPPort, cfg.SMTP.Port)
	assert.Equal(t, DefaultServeAddr, cfg.ServeAddr)
	assert.Equal(t, int64(DefaultMaxUploadMB)<<20, cfg.MaxUploadBytes)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.SMTP.Enabled())
}

func TestProcessAndValidateTabDelimiter(t *testing.T) {
	input := validInput()
	input.Delimiter = `\t`
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, '\t', cfg.Delimiter)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"none empty", schema.NoneBackend, "", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/topsis", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/topsis", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost port=5432 user=postgres dbname=topsis", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBackendConfigsSQLiteConflict(t *testing.T) {
	shared := filepath.Join(t.TempDir(), "shared.db")
	input := validInput()
	input.CacheDBConnect = shared
	input.HistoryBackend = "sqlite"
	input.HistoryDBConnect = shared

	err := ProcessAndValidate(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different SQLite database files")

	input.HistoryDBConnect = ""
	assert.NoError(t, ProcessAndValidate(&Config{}, input))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{
		Weights: schema.WeightVector{1, 2, 3},
		Impacts: schema.ImpactVector{"+", "-", "+"},
		Email:   "a@example.com",
	}
	clone := cfg.Clone()
	clone.Weights[0] = 99
	clone.Impacts[0] = "-"
	clone.Email = "b@example.com"

	assert.Equal(t, 1.0, cfg.Weights[0])
	assert.Equal(t, schema.Benefit, cfg.Impacts[0])
	assert.Equal(t, "a@example.com", cfg.Email)
}

func TestValidateEmailAddress(t *testing.T) {
	assert.NoError(t, ValidateEmailAddress("user@example.com"))
	assert.Error(t, ValidateEmailAddress("User <user@example.com>"))
	assert.Error(t, ValidateEmailAddress("plainaddress"))
}

func TestProcessProfilingConfig(t *testing.T) {
	profile := &ProfileConfig{}
	require.NoError(t, ProcessProfilingConfig(profile, ""))
	assert.False(t, profile.Enabled)

	require.NoError(t, ProcessProfilingConfig(profile, " out/topsis "))
	assert.True(t, profile.Enabled)
	assert.Equal(t, "out/topsis", profile.Prefix)
}
