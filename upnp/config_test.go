package upnp

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "pmocontrol.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadConfigExplicitFile(t *testing.T) {
	path := writeConfigFile(t, `
network:
  http_timeout: 12
  discover_timeout: 3
`)

	cfg := LoadConfig(path)
	assert.Equal(t, 12*time.Second, cfg.GetHTTPTimeout())
	assert.Equal(t, 3*time.Second, cfg.GetDiscoverTimeout())
}

func TestConfigDefaults(t *testing.T) {
	cfg := LoadConfig(writeConfigFile(t, "other: {}\n"))

	assert.Equal(t, 30*time.Second, cfg.GetHTTPTimeout())
	assert.Equal(t, 5*time.Second, cfg.GetDiscoverTimeout())
}

func TestConfigKeysAreCaseInsensitive(t *testing.T) {
	cfg := LoadConfig(writeConfigFile(t, `
Network:
  HTTP_Timeout: 8
`))

	v, err := cfg.GetValue([]string{"NETWORK", "http_timeout"})
	require.NoError(t, err)
	assert.Equal(t, 8, v)
	assert.Equal(t, 8*time.Second, cfg.GetHTTPTimeout())

	_, err = cfg.GetValue([]string{"network", "nope"})
	assert.Error(t, err)
}

func TestConfigSetValue(t *testing.T) {
	cfg := LoadConfig(writeConfigFile(t, "network: {}\n"))

	cfg.SetValue([]string{"network", "http_timeout"}, 42)
	assert.Equal(t, 42*time.Second, cfg.GetHTTPTimeout())

	// Intermediate maps are created on demand.
	cfg.SetValue([]string{"devices", "renderer", "name"}, "living room")
	v, err := cfg.GetValue([]string{"devices", "renderer", "name"})
	require.NoError(t, err)
	assert.Equal(t, "living room", v)
}

func TestConfigEnvOverride(t *testing.T) {
	t.Setenv("PMOCONTROL_CONFIG__NETWORK__HTTP_TIMEOUT", "7")

	cfg := LoadConfig(writeConfigFile(t, `
network:
  http_timeout: 12
`))

	// The env value arrives typed, not as the string "7".
	assert.Equal(t, 7*time.Second, cfg.GetHTTPTimeout())
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := writeConfigFile(t, "network:\n  http_timeout: 12\n")

	cfg := LoadConfig(path)
	cfg.SetValue([]string{"network", "http_timeout"}, 25)
	require.NoError(t, cfg.Save())

	reloaded := LoadConfig(path)
	assert.Equal(t, 25*time.Second, reloaded.GetHTTPTimeout())
}
