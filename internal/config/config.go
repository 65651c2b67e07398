package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimezone = "Asia/Tokyo"

	configPathEnv     = "OPIME_NOTIFY_CONFIG"
	lineTokenEnv      = "LINE_ACCESS_TOKEN"
	spreadsheetIDEnv  = "GSHEET_ID"
	googleKeyFileEnv  = "GOOGLE_JSON_KEY_FILE"
	storeBackendEnv   = "STORE_BACKEND"
	sqlitePathEnv     = "SQLITE_PATH"
	memberKeywordsEnv = "NOTIFY_KEYWORDS"
	logLevelEnv       = "LOG_LEVEL"
)

// Store backends.
const (
	BackendSheets = "sheets"
	BackendSQLite = "sqlite"
)

// Config holds high-level settings required across the application.
type Config struct {
	Store    StoreConfig  `yaml:"store"`
	LINE     LINEConfig   `yaml:"line"`
	Notify   NotifyConfig `yaml:"notify"`
	Sources  SourceConfig `yaml:"sources"`
	LogLevel string       `yaml:"logLevel"`
	Timezone string       `yaml:"timezone"`
	location *time.Location
}

// StoreConfig selects and parameterizes the row-store backend.
type StoreConfig struct {
	Backend       string `yaml:"backend"`
	SpreadsheetID string `yaml:"spreadsheetId"`
	GoogleKeyFile string `yaml:"googleKeyFile"`
	SQLitePath    string `yaml:"sqlitePath"`
}

// LINEConfig wires the messaging channel.
type LINEConfig struct {
	AccessToken string `yaml:"accessToken"`
	Endpoint    string `yaml:"endpoint"`
}

// NotifyConfig narrows which theater shows produce reminders. An empty
// keyword list keeps everything.
type NotifyConfig struct {
	Keywords []string `yaml:"keywords"`
}

// SourceConfig overrides the upstream endpoints, mainly for testing.
type SourceConfig struct {
	OfficialURL string `yaml:"officialUrl"`
	GoodsURL    string `yaml:"goodsUrl"`
	CDShopURL   string `yaml:"cdShopUrl"`
}

// Location resolves the configured timezone.
func (c Config) Location() *time.Location {
	if c.location != nil {
		return c.location
	}
	loc, _ := time.LoadLocation(defaultTimezone)
	return loc
}

// Load reads .env, then YAML configuration (if present), then applies
// environment overrides.
func Load() Config {
	_ = godotenv.Load()

	cfg := defaultConfig()

	if path := os.Getenv(configPathEnv); path != "" {
		if raw, err := os.ReadFile(path); err != nil {
			log.Printf("config: cannot read %s: %v (falling back to defaults)", path, err)
		} else {
			var fileCfg Config
			if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
				log.Printf("config: cannot parse %s: %v (falling back to defaults)", path, err)
			} else {
				cfg = mergeConfig(cfg, fileCfg)
			}
		}
	}

	cfg.applyEnvOverrides()
	cfg.bindTimezone()

	return cfg
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(lineTokenEnv); v != "" {
		c.LINE.AccessToken = v
	}
	if v := os.Getenv(spreadsheetIDEnv); v != "" {
		c.Store.SpreadsheetID = v
	}
	if v := os.Getenv(googleKeyFileEnv); v != "" {
		c.Store.GoogleKeyFile = v
	}
	if v := os.Getenv(storeBackendEnv); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv(sqlitePathEnv); v != "" {
		c.Store.SQLitePath = v
	}
	if v := os.Getenv(memberKeywordsEnv); v != "" {
		c.Notify.Keywords = splitKeywords(v)
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) bindTimezone() {
	tz := c.Timezone
	if tz == "" {
		tz = defaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		log.Printf("config: unknown timezone %s, reverting to %s", tz, defaultTimezone)
		loc, _ = time.LoadLocation(defaultTimezone)
	}
	c.location = loc
}

func splitKeywords(raw string) []string {
	var out []string
	for _, word := range strings.Split(raw, ",") {
		if word = strings.TrimSpace(word); word != "" {
			out = append(out, word)
		}
	}
	return out
}

func mergeConfig(base, override Config) Config {
	if override.Store.Backend != "" {
		base.Store.Backend = override.Store.Backend
	}
	if override.Store.SpreadsheetID != "" {
		base.Store.SpreadsheetID = override.Store.SpreadsheetID
	}
	if override.Store.GoogleKeyFile != "" {
		base.Store.GoogleKeyFile = override.Store.GoogleKeyFile
	}
	if override.Store.SQLitePath != "" {
		base.Store.SQLitePath = override.Store.SQLitePath
	}

	if override.LINE.AccessToken != "" {
		base.LINE.AccessToken = override.LINE.AccessToken
	}
	if override.LINE.Endpoint != "" {
		base.LINE.Endpoint = override.LINE.Endpoint
	}

	if len(override.Notify.Keywords) > 0 {
		base.Notify.Keywords = override.Notify.Keywords
	}

	if override.Sources.OfficialURL != "" {
		base.Sources.OfficialURL = override.Sources.OfficialURL
	}
	if override.Sources.GoodsURL != "" {
		base.Sources.GoodsURL = override.Sources.GoodsURL
	}
	if override.Sources.CDShopURL != "" {
		base.Sources.CDShopURL = override.Sources.CDShopURL
	}

	if override.LogLevel != "" {
		base.LogLevel = override.LogLevel
	}
	if override.Timezone != "" {
		base.Timezone = override.Timezone
	}

	return base
}

func defaultConfig() Config {
	loc, _ := time.LoadLocation(defaultTimezone)
	return Config{
		Store: StoreConfig{
			Backend:    BackendSheets,
			SQLitePath: "opime_notify.db",
		},
		LogLevel: "info",
		Timezone: defaultTimezone,
		location: loc,
	}
}
