package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig(t *testing.T) {
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("EXTRACT_COMMAND", "xgettext --output=po/app.pot")
	t.Setenv("EXTRACT_TIMEOUT", "30s")
	t.Setenv("COUNT_EMPTY_AS_TRANSLATED", "true")

	cfg := LoadConfig()
	assert.Equal(t, DriverPostgres, cfg.DB.Driver)
	assert.Equal(t, []string{"xgettext", "--output=po/app.pot"}, cfg.Extract.Command)
	assert.Equal(t, 30*time.Second, cfg.Extract.Timeout)
	assert.True(t, cfg.CountEmptyAsTranslated)
	assert.Equal(t, "gzip", cfg.TemplateCompression)
}

func TestSqliteDSN(t *testing.T) {
	assert.Equal(t, "a.db?"+sqliteOptions, SqliteDSN("a.db"))
	assert.Equal(t, "file:a.db?cache=shared&"+sqliteOptions, SqliteDSN("file:a.db?cache=shared"))
}

func TestGetStatsCacheWithoutRedis(t *testing.T) {
	cfg := LoadConfig()
	assert.Nil(t, GetRedis(&Config{}))
	assert.NotNil(t, GetStatsCache(cfg, nil))
	assert.NotNil(t, GetMergeQueue(nil))
}
