package config

import (
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/viper"
)

const (
	DriverSqlite   = "sqlite"
	DriverPostgres = "postgres"
)

// Config is read from the environment, a .env file is loaded first when present.
type Config struct {
	DB struct {
		Driver string
		DSN    string
	}
	RedisAddr string
	// ScratchDir holds uploaded files as <uuid>-<name>.
	ScratchDir string
	Extract    struct {
		Command []string
		Timeout time.Duration
	}
	TemplateCompression    string
	CountEmptyAsTranslated bool
	RefreshSchedule        string
	StatsTTL               time.Duration
}

func init() {
	viper.SetDefault("DB_DRIVER", DriverSqlite)
	viper.SetDefault("DB_DSN", ".tmp/db/happix.db")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("SCRATCH_DIR", ".tmp/scratch")
	viper.SetDefault("EXTRACT_COMMAND", "intltool-update --pot")
	viper.SetDefault("EXTRACT_TIMEOUT", "2m")
	viper.SetDefault("TEMPLATE_COMPRESSION", "gzip")
	viper.SetDefault("COUNT_EMPTY_AS_TRANSLATED", false)
	viper.SetDefault("REFRESH_SCHEDULE", "@every 1h")
	viper.SetDefault("STATS_TTL", "24h")
	viper.AutomaticEnv()
}

func LoadConfig() *Config {
	cfg := &Config{}
	cfg.DB.Driver = strings.ToLower(viper.GetString("DB_DRIVER"))
	cfg.DB.DSN = viper.GetString("DB_DSN")
	cfg.RedisAddr = viper.GetString("REDIS_ADDR")
	cfg.ScratchDir = viper.GetString("SCRATCH_DIR")
	cfg.Extract.Command = strings.Fields(viper.GetString("EXTRACT_COMMAND"))
	cfg.Extract.Timeout = viper.GetDuration("EXTRACT_TIMEOUT")
	cfg.TemplateCompression = viper.GetString("TEMPLATE_COMPRESSION")
	cfg.CountEmptyAsTranslated = viper.GetBool("COUNT_EMPTY_AS_TRANSLATED")
	cfg.RefreshSchedule = viper.GetString("REFRESH_SCHEDULE")
	cfg.StatsTTL = viper.GetDuration("STATS_TTL")

	return cfg
}
