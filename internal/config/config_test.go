package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "config"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config", "config.yml"), []byte(`
api:
  port: ":9000"
database:
  driver: "postgres"
  host: "db"
qbet:
  base_url: "http://qbet"
reconcile:
  retry_failed: true
`), 0o644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	t.Setenv("PAYOPS_QBET_API_KEY", "from-env")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.API.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "http://qbet", cfg.Qbet.BaseURL)
	assert.Equal(t, "from-env", cfg.Qbet.APIKey)
	assert.True(t, cfg.Reconcile.RetryFailed)
	assert.Equal(t, "payops.ledger.retry", cfg.Reconcile.Queue)
	assert.Equal(t, 16, cfg.Worker.Size)
	assert.Equal(t, 10*time.Second, cfg.Worker.TaskTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	_, err = Load()
	assert.Error(t, err)
}
