package upnp

import (
	_ "embed"
	"fmt"
	"os"
	"os/user"
	"path"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"gargoton.petite-maison-orange.fr/eric/pmocontrol/fileutils"
)

//go:embed pmocontrol.yaml
var defaultConfig []byte

// Config holds the module configuration as a nested key/value tree, keys
// lowercased.
type Config struct {
	path   string
	mutex  sync.Mutex
	config map[string]interface{}
}

var _CONFIG *Config

const envConfigFile = "PMOCONTROL_CONFIG"
const envPrefix = "PMOCONTROL_CONFIG__"

// LoadConfig loads a configuration file from the given path or a default
// location. It tries, in order: the provided path, the file named by the
// PMOCONTROL_CONFIG environment variable, ./.pmocontrol.yml, then
// ~/.pmocontrol.yml. When none can be read it falls back on the embedded
// default configuration. Environment variables prefixed with
// PMOCONTROL_CONFIG__ override individual values, path segments separated
// by a double underscore.
func LoadConfig(filename string) *Config {
	cfg := &Config{}

	candidates := []struct {
		path string
		why  string
	}{
		{filename, "explicit path"},
		{os.Getenv(envConfigFile), "env var " + envConfigFile},
		{".pmocontrol.yml", "current directory"},
		{getHomeYmlPath(), "user's home"},
	}

	var data []byte
	for _, c := range candidates {
		if c.path == "" {
			continue
		}
		log.Debugf("🐞 Trying to load config %s (%s)", c.path, c.why)
		read, err := os.ReadFile(c.path)
		if err != nil {
			continue
		}
		log.Infof("✅ Loaded config %s", c.path)
		data = read
		cfg.path = c.path
		break
	}

	if data == nil {
		log.Infof("✅ Using default embedded config")
		data = defaultConfig
		cfg.path = firstWriteablePath(filename)
	}

	if err := yaml.Unmarshal(data, &cfg.config); err != nil {
		log.Panicf("invalid YAML config: %v", err)
	}
	if cfg.config == nil {
		cfg.config = make(map[string]interface{})
	}
	cfg.config = lowerKeysMap(cfg.config)

	applyEnvOverrides(cfg)
	return cfg
}

// GetConfig returns the process-wide configuration, loading it on first
// use.
func GetConfig() *Config {
	if _CONFIG == nil {
		_CONFIG = LoadConfig("")
	}
	return _CONFIG
}

// Save writes the configuration back to the file it was loaded from.
func (cfg *Config) Save() error {
	cfg.mutex.Lock()
	defer cfg.mutex.Unlock()

	if cfg.path == "" {
		return fmt.Errorf("no writeable location for config file")
	}

	data, err := yaml.Marshal(cfg.config)
	if err != nil {
		return err
	}
	return os.WriteFile(cfg.path, data, 0644)
}

// GetValue walks the configuration tree along path. Keys are matched
// case-insensitively.
func (cfg *Config) GetValue(path []string) (interface{}, error) {
	cfg.mutex.Lock()
	defer cfg.mutex.Unlock()

	current := cfg.config
	for i, key := range path {
		key = strings.ToLower(key)

		next, ok := current[key]
		if !ok {
			return nil, fmt.Errorf("path %s does not exist", strings.Join(path[:i+1], "."))
		}
		if i == len(path)-1 {
			return next, nil
		}
		if current, ok = next.(map[string]interface{}); !ok {
			return nil, fmt.Errorf("path %s is not a map", strings.Join(path[:i+1], "."))
		}
	}
	return nil, fmt.Errorf("path %s does not exist", strings.Join(path, "."))
}

// SetValue sets a value in the configuration tree, creating intermediate
// maps as needed.
func (cfg *Config) SetValue(path []string, value interface{}) {
	cfg.mutex.Lock()
	defer cfg.mutex.Unlock()

	current := cfg.config
	for i, key := range path {
		key = strings.ToLower(key)
		if i == len(path)-1 {
			current[key] = value
			return
		}
		next, ok := current[key].(map[string]interface{})
		if !ok {
			// A conflicting scalar on the path is overwritten.
			next = make(map[string]interface{})
			current[key] = next
		}
		current = next
	}
}

// GetHTTPTimeout returns the timeout for HTTP exchanges with devices.
func (cfg *Config) GetHTTPTimeout() time.Duration {
	return cfg.getSeconds([]string{"network", "http_timeout"}, 30*time.Second)
}

// GetDiscoverTimeout returns how long SSDP discovery listens for
// responses.
func (cfg *Config) GetDiscoverTimeout() time.Duration {
	return cfg.getSeconds([]string{"network", "discover_timeout"}, 5*time.Second)
}

func (cfg *Config) getSeconds(path []string, fallback time.Duration) time.Duration {
	v, err := cfg.GetValue(path)
	if err != nil {
		return fallback
	}
	if seconds, ok := v.(int); ok && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}
	return fallback
}

func getHomeYmlPath() string {
	usr, err := user.Current()
	if err != nil {
		return ""
	}
	return path.Join(usr.HomeDir, ".pmocontrol.yml")
}

// firstWriteablePath picks where a config created from the embedded
// default would be saved.
func firstWriteablePath(filename string) string {
	for _, p := range []string{filename, os.Getenv(envConfigFile), ".pmocontrol.yml", getHomeYmlPath()} {
		if p != "" && fileutils.IsWriteable(p) {
			return p
		}
	}
	return ""
}

func applyEnvOverrides(cfg *Config) {
	for _, env := range os.Environ() {
		if !strings.HasPrefix(env, envPrefix) {
			continue
		}
		parts := strings.SplitN(env, "=", 2)
		if len(parts) != 2 {
			continue
		}

		keyPath := strings.Split(strings.TrimPrefix(parts[0], envPrefix), "__")
		cfg.SetValue(keyPath, convertYAMLScalar(parts[1]))
	}
}

// convertYAMLScalar lets env overrides carry typed values ("5" becomes an
// int, "true" a bool) the same way the file would.
func convertYAMLScalar(s string) interface{} {
	var out interface{}
	if err := yaml.Unmarshal([]byte(s), &out); err != nil {
		return s
	}
	return out
}

func lowerKeysMap(m map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(m))
	for k, v := range m {
		lk := strings.ToLower(k)
		switch vv := v.(type) {
		case map[string]interface{}:
			out[lk] = lowerKeysMap(vv)
		default:
			out[lk] = v
		}
	}
	return out
}
