package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Wanjiku")
	cfg.Import.DefaultAccount = 2
	cfg.Git.AutoCommit = true

	path := filepath.Join(t.TempDir(), FileName)
	err := Save(path, cfg)
	require.NoError(t, err)

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default("Wanjiku")

	assert.Equal(t, "Wanjiku", cfg.Profile.Name)
	assert.Equal(t, "KES", cfg.Profile.Currency)
	assert.Equal(t, "import", cfg.Import.Dir)
	assert.Equal(t, int64(10*1024*1024), cfg.Import.MaxFileSize)
	assert.Zero(t, cfg.Import.DefaultAccount)
	assert.Equal(t, "ledger", cfg.Ledger.Dir)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.False(t, cfg.Git.AutoCommit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("log:\n  format: xml\nimport:\n  max_file_size: -1\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "log.format")
	assert.Contains(t, err.Error(), "max_file_size")
}

func TestValidate_GitAuthor(t *testing.T) {
	cfg := Default("x")
	cfg.Git.AutoCommit = true
	cfg.Git.AuthorEmail = ""
	assert.ErrorContains(t, cfg.Validate(), "author_email")
}

func TestFallbacks(t *testing.T) {
	var cfg Config
	assert.Equal(t, DefaultMaxFileSize, cfg.MaxFileSize())
	assert.Equal(t, "import", cfg.ImportDir())
	assert.Equal(t, "ledger", cfg.LedgerDir())
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Wanjiku")
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Wanjiku")
	assert.Contains(t, contents, "currency: KES")
	assert.Contains(t, contents, "max_file_size: 10485760")
	assert.Contains(t, contents, "auto_commit: false")
	assert.NotContains(t, contents, "default_account")
}
