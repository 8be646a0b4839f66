package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	Log      LogConfig
	Intake   IntakeConfig
	Sheets   SheetsConfig
	MongoDB  MongoDBConfig
	WhatsApp WhatsAppConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port string
}

// LogConfig controls the structured logger.
type LogConfig struct {
	Level string
}

// IntakeConfig describes the intake endpoint the form submits to, and the
// sheet layout used when this process serves that endpoint itself.
type IntakeConfig struct {
	// EndpointURL is the remote endpoint the form talks to. Empty means the
	// local /api/intake route.
	EndpointURL         string
	RequestTimeout      time.Duration
	SitesRange          string
	SubmissionsRange    string
	SiteRefreshSchedule string
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether the Sheets-backed intake API should be served.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" || c.SpreadsheetID != ""
}

// MongoDBConfig holds settings for the optional submission archive.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// Enabled reports whether accepted submissions are archived.
func (c MongoDBConfig) Enabled() bool {
	return c.URI != ""
}

// WhatsAppConfig contains credentials for the optional group notification.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	GroupID       string
}

// Enabled reports whether submission notifications are sent.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when configuration comes from the environment.
		_ = godotenv.Load()
	}

	timeout, err := time.ParseDuration(getenvWithDefault("INTAKE_REQUEST_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("INTAKE_REQUEST_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port: getenvWithDefault("APP_PORT", "8080"),
		},
		Log: LogConfig{
			Level: getenvWithDefault("LOG_LEVEL", "info"),
		},
		Intake: IntakeConfig{
			EndpointURL:         strings.TrimSpace(os.Getenv("INTAKE_ENDPOINT_URL")),
			RequestTimeout:      timeout,
			SitesRange:          getenvWithDefault("INTAKE_SITES_RANGE", "Sheet1!B2:B"),
			SubmissionsRange:    getenvWithDefault("INTAKE_SUBMISSIONS_RANGE", "Damages!A:G"),
			SiteRefreshSchedule: getenvWithDefault("SITE_REFRESH_SCHEDULE", "*/5 * * * *"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "damagelog"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			GroupID:       os.Getenv("WHATSAPP_GROUP_ID"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.Intake.RequestTimeout <= 0 {
		return errors.New("INTAKE_REQUEST_TIMEOUT must be positive")
	}

	if c.Intake.EndpointURL == "" && !c.Sheets.Enabled() {
		return errors.New("either INTAKE_ENDPOINT_URL or GOOGLE_SHEETS_CREDENTIALS_PATH/GOOGLE_SHEET_DATABASE_ID must be provided")
	}

	if c.Sheets.Enabled() {
		switch {
		case c.Sheets.CredentialsPath == "":
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		case c.Sheets.SpreadsheetID == "":
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		case c.Intake.SitesRange == "":
			return errors.New("INTAKE_SITES_RANGE must not be empty")
		case c.Intake.SubmissionsRange == "":
			return errors.New("INTAKE_SUBMISSIONS_RANGE must not be empty")
		case c.Intake.SiteRefreshSchedule == "":
			return errors.New("SITE_REFRESH_SCHEDULE must not be empty")
		}
	}

	if c.MongoDB.Enabled() && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.GroupID == "":
			return errors.New("WHATSAPP_GROUP_ID must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	return nil
}

// IntakeURL returns the endpoint the form should talk to.
func (c *Config) IntakeURL() string {
	if c.Intake.EndpointURL != "" {
		return c.Intake.EndpointURL
	}
	return fmt.Sprintf("http://127.0.0.1:%s/api/intake", c.Server.Port)
}

// WriteTimeout bounds one form response. A submit makes two sequential intake
// calls (sites, then submit), each up to RequestTimeout.
func (c *Config) WriteTimeout() time.Duration {
	return 2*c.Intake.RequestTimeout + 15*time.Second
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
