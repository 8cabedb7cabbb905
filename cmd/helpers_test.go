package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jobswipe/jobswipe-cli/internal/config"
)

func writeTestProfile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "profile.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfileFromFile(t *testing.T) {
	path := writeTestProfile(t, `{
		"identity": {"firstname": "Ada", "lastname": "Lovelace", "email": "ada@example.com"}
	}`)

	profile, err := loadProfile(context.Background(), config.NewDefaultConfig(), path, zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, profile)
	assert.Equal(t, "Ada", profile.Identity.Firstname)
	assert.Equal(t, "ada@example.com", profile.Identity.Email)
}

func TestLoadProfileRejectsMalformedFile(t *testing.T) {
	path := writeTestProfile(t, `{"identity": `)

	_, err := loadProfile(context.Background(), config.NewDefaultConfig(), path, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse profile file")
}

func TestLoadProfileMissingFile(t *testing.T) {
	_, err := loadProfile(context.Background(), config.NewDefaultConfig(), "/nonexistent/profile.json", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read profile file")
}

func TestLoadProfileFallsBackToStore(t *testing.T) {
	cfg := config.NewDefaultConfig()
	cfg.Store.Path = filepath.Join(t.TempDir(), "jobswipe.db")

	// Empty store means no profile and a pointer at the flag.
	_, err := loadProfile(context.Background(), cfg, "", zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--profile")
}

func TestPrintJSONIndents(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printJSON(&buf, map[string]int{"count": 3}))
	assert.Equal(t, "{\n  \"count\": 3\n}\n", buf.String())
}
