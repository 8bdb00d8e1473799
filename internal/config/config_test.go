package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "reply_service", cfg.LLM.DefaultProvider)
	assert.Equal(t, 10, cfg.LLM.HistoryLimit)
	assert.Equal(t, []string{"cancel", "キャンセル", "やめる", "中止"}, cfg.Conversation.CancelKeywords)
	assert.Equal(t, "reply generation failed", cfg.Conversation.FallbackSuggestion)
	assert.Equal(t, 10*time.Minute, cfg.Redis.DirectoryCacheTTL)
	assert.Equal(t, 30*time.Second, cfg.LLM.ReplyService.Timeout)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_FileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  driver: sqlite
  sqlite_path: /tmp/test.db
conversation:
  cancel_keywords: ["stop"]
  concurrency: 2
`), 0o600))

	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LINE_CHANNEL_SECRET", "line-secret")
	t.Setenv("DIRECTORY_API_TOKEN", "dir-token")
	t.Setenv("REPLY_SERVICE_URL", "http://reply.local/generate")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/test.db", cfg.Database.SQLitePath)
	assert.Equal(t, []string{"stop"}, cfg.Conversation.CancelKeywords)
	assert.Equal(t, 2, cfg.Conversation.Concurrency)
	assert.Equal(t, "line-secret", cfg.Line.ChannelSecret)
	assert.Equal(t, "dir-token", cfg.Directory.APIToken)
	assert.Equal(t, "http://reply.local/generate", cfg.LLM.ReplyService.URL)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{
		User:     "u",
		Password: "p",
		Host:     "db",
		Port:     5432,
		Database: "replies",
		SSLMode:  "disable",
	}
	assert.Equal(t, "postgres://u:p@db:5432/replies?sslmode=disable", cfg.DSN())
}
