package profile

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Profile is the configuration to start the mailsight server and CLI.
type Profile struct {
	// Mode can be "prod" or "dev" or "demo"
	Mode string
	// Addr is the binding address for the HTTP server
	Addr string
	// Port is the binding port for the HTTP server
	Port int
	// Data is the data directory
	Data string
	// DSN points to where mailsight stores its campaign data
	DSN string
	// Driver is the database driver (sqlite or postgres)
	Driver string
	// Version is the current version of the server
	Version string

	// AI configuration. The AI path is optional end to end: without a key
	// the answer pipeline runs rule-based and returns raw results.
	AIEnabled    bool   // MAILSIGHT_AI_ENABLED
	AIAPIKey     string // MAILSIGHT_AI_API_KEY (falls back to OPENAI_API_KEY)
	AIBaseURL    string // MAILSIGHT_AI_BASE_URL (default: https://api.openai.com/v1)
	AIChatModel  string // MAILSIGHT_AI_CHAT_MODEL (default: gpt-4o-mini)
	AISQLEnabled bool   // MAILSIGHT_AI_SQL_ENABLED: allow LLM-generated SELECT queries
}

func (p *Profile) IsDev() bool {
	return p.Mode != "prod"
}

// IsAIEnabled returns true if AI is enabled and an API key is configured.
func (p *Profile) IsAIEnabled() bool {
	return p.AIEnabled && p.AIAPIKey != ""
}

// getEnvOrDefault returns the environment variable value or the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// FromEnv loads configuration from MAILSIGHT_* environment variables.
func (p *Profile) FromEnv() {
	if v := os.Getenv("MAILSIGHT_MODE"); v != "" {
		p.Mode = v
	}
	if v := os.Getenv("MAILSIGHT_DRIVER"); v != "" {
		p.Driver = v
	}
	if v := os.Getenv("MAILSIGHT_DSN"); v != "" {
		p.DSN = v
	}
	if v := os.Getenv("MAILSIGHT_DATA"); v != "" {
		p.Data = v
	}

	p.AIEnabled = os.Getenv("MAILSIGHT_AI_ENABLED") == "true"
	p.AIAPIKey = getEnvOrDefault("MAILSIGHT_AI_API_KEY", os.Getenv("OPENAI_API_KEY"))
	p.AIBaseURL = getEnvOrDefault("MAILSIGHT_AI_BASE_URL", "https://api.openai.com/v1")
	p.AIChatModel = getEnvOrDefault("MAILSIGHT_AI_CHAT_MODEL", "gpt-4o-mini")
	p.AISQLEnabled = os.Getenv("MAILSIGHT_AI_SQL_ENABLED") == "true"
}

func checkDataDir(dataDir string) (string, error) {
	// Convert to absolute path if relative path is supplied.
	if !filepath.IsAbs(dataDir) {
		relativeDir := filepath.Join(filepath.Dir(os.Args[0]), dataDir)
		absDir, err := filepath.Abs(relativeDir)
		if err != nil {
			return "", err
		}
		dataDir = absDir
	}

	// Trim trailing \ or / in case user supplies
	dataDir = strings.TrimRight(dataDir, "\\/")
	if _, err := os.Stat(dataDir); err != nil {
		return "", errors.Wrapf(err, "unable to access data folder %s", dataDir)
	}
	return dataDir, nil
}

func (p *Profile) Validate() error {
	if p.Mode != "demo" && p.Mode != "dev" && p.Mode != "prod" {
		p.Mode = "demo"
	}
	if p.Driver == "" {
		p.Driver = "sqlite"
	}
	if p.Data == "" {
		p.Data = "."
	}

	dataDir, err := checkDataDir(p.Data)
	if err != nil {
		slog.Error("failed to check data dir", slog.String("data", p.Data), slog.String("error", err.Error()))
		return err
	}

	p.Data = dataDir
	if p.Driver == "sqlite" && p.DSN == "" {
		dbFile := fmt.Sprintf("mailsight_%s.db", p.Mode)
		p.DSN = filepath.Join(dataDir, dbFile)
	}
	if p.Driver == "postgres" && p.DSN == "" {
		return errors.New("postgres driver requires MAILSIGHT_DSN")
	}

	return nil
}
