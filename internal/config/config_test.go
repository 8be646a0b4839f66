package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_PORT", "LOG_LEVEL", "INTAKE_ENDPOINT_URL", "INTAKE_REQUEST_TIMEOUT", "INTAKE_SITES_RANGE",
		"INTAKE_SUBMISSIONS_RANGE", "SITE_REFRESH_SCHEDULE", "GOOGLE_SHEETS_CREDENTIALS_PATH",
		"GOOGLE_SHEET_DATABASE_ID", "MONGODB_URI", "MONGODB_DB_NAME", "WHATSAPP_TOKEN",
		"WHATSAPP_PHONE_NUMBER_ID", "WHATSAPP_GROUP_ID", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION",
	} {
		// Setenv registers the restore; godotenv skips keys that exist even when empty.
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoadRemoteEndpointOnly(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTAKE_ENDPOINT_URL", "https://script.example.com/exec")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, 30*time.Second, cfg.Intake.RequestTimeout)
	assert.Equal(t, "https://script.example.com/exec", cfg.IntakeURL())
	assert.False(t, cfg.Sheets.Enabled())
	assert.False(t, cfg.MongoDB.Enabled())
	assert.False(t, cfg.WhatsApp.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	content := "APP_PORT=9090\nGOOGLE_SHEETS_CREDENTIALS_PATH=/secrets/sa.json\nGOOGLE_SHEET_DATABASE_ID=sheet-123\nINTAKE_REQUEST_TIMEOUT=5s\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.Sheets.Enabled())
	assert.Equal(t, "sheet-123", cfg.Sheets.SpreadsheetID)
	assert.Equal(t, "Sheet1!B2:B", cfg.Intake.SitesRange)
	assert.Equal(t, 5*time.Second, cfg.Intake.RequestTimeout)
	assert.Equal(t, "http://127.0.0.1:9090/api/intake", cfg.IntakeURL())
}

func TestWriteTimeoutCoversTwoIntakeCalls(t *testing.T) {
	cfg := &Config{Intake: IntakeConfig{RequestTimeout: 30 * time.Second}}

	assert.Equal(t, 75*time.Second, cfg.WriteTimeout())
	assert.Greater(t, cfg.WriteTimeout(), 2*cfg.Intake.RequestTimeout)
}

func TestLoadRejectsBadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("INTAKE_ENDPOINT_URL", "https://script.example.com/exec")
	t.Setenv("INTAKE_REQUEST_TIMEOUT", "soon")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.ErrorContains(t, err, "INTAKE_REQUEST_TIMEOUT")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080"},
			Intake: IntakeConfig{
				RequestTimeout:      time.Second,
				SitesRange:          "Sheet1!B2:B",
				SubmissionsRange:    "Damages!A:G",
				SiteRefreshSchedule: "*/5 * * * *",
			},
			Sheets: SheetsConfig{CredentialsPath: "/sa.json", SpreadsheetID: "id"},
		}
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"no endpoint and no sheets": func(c *Config) { c.Sheets = SheetsConfig{} },
		"half configured sheets":    func(c *Config) { c.Sheets.SpreadsheetID = "" },
		"missing port":              func(c *Config) { c.Server.Port = "" },
		"zero timeout":              func(c *Config) { c.Intake.RequestTimeout = 0 },
		"mongo without db name":     func(c *Config) { c.MongoDB = MongoDBConfig{URI: "mongodb://localhost"} },
		"whatsapp without group": func(c *Config) {
			c.WhatsApp = WhatsAppConfig{AccessToken: "t", PhoneNumberID: "p", BaseURL: "b", APIVersion: "v"}
		},
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := valid()
			mutate(c)
			assert.Error(t, c.Validate())
		})
	}

	var nilCfg *Config
	assert.Error(t, nilCfg.Validate())
}
