package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "orders_july_2023.json", cfg.Input)
	assert.Equal(t, "memory", cfg.TallyBackend)
}

func TestLoadFile_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orderstats.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
input: data/orders_august_2023.json
tally_backend: pebble
json: true
timeout: 3s
kafka_bootstrap: localhost:9092
`), 0o644))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "data/orders_august_2023.json", cfg.Input)
	assert.Equal(t, "pebble", cfg.TallyBackend)
	assert.True(t, cfg.JSON)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, "localhost:9092", cfg.KafkaBootstrap)
	// untouched keys keep defaults
	assert.Equal(t, "orders.stats", cfg.KafkaTopic)
	assert.Equal(t, "orderstats", cfg.MetricsJob)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("tally_backend: [oops"), 0o644))
	_, err = LoadFile(bad)
	require.Error(t, err)

	unknown := filepath.Join(dir, "unknown.yaml")
	require.NoError(t, os.WriteFile(unknown, []byte("tally_backend: sqlite"), 0o644))
	_, err = LoadFile(unknown)
	require.ErrorContains(t, err, "tally_backend")
}
