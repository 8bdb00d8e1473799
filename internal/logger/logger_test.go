package logger

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Rrens/reply-assistant/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetup_Level(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.InfoLevel)

	closer, err := Setup(config.LoggingConfig{Level: "debug"}, "development")
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())

	closer, err = Setup(config.LoggingConfig{Level: "nonsense"}, "production")
	require.NoError(t, err)
	defer closer.Close()
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}

func TestSetup_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	closer, err := Setup(config.LoggingConfig{
		Level:        "info",
		Format:       "json",
		File:         path,
		MaxAge:       24 * time.Hour,
		RotationTime: time.Hour,
	}, "production")
	require.NoError(t, err)

	log.Info().Str("component", "test").Msg("written to file")
	require.NoError(t, closer.Close())

	matches, err := filepath.Glob(path + ".*")
	require.NoError(t, err)
	require.NotEmpty(t, matches)

	content, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	assert.Contains(t, string(content), `"component":"test"`)
}
