package am

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/viper"
	"github.com/teranos/songnet/errors"
)

var (
	globalConfig  *Config
	viperInstance *viper.Viper
	loadMu        sync.Mutex
)

// ConfigSources records which file each non-default key was read from.
// Populated by the most recent initViper call.
var ConfigSources = map[string]SourceInfo{}

// Load reads the songnet configuration using Viper
func Load() (*Config, error) {
	loadMu.Lock()
	defer loadMu.Unlock()

	if globalConfig != nil {
		return globalConfig, nil
	}

	v := initViper()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	globalConfig = &config
	return globalConfig, nil
}

// GetViper returns the Viper instance for advanced configuration access
func GetViper() *viper.Viper {
	loadMu.Lock()
	defer loadMu.Unlock()
	return initViper()
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &config, nil
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("toml")

	// Set defaults but don't bind environment variables for this specific load
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", configPath)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal config from %s", configPath)
	}

	return &config, nil
}

// Reset clears the cached configuration (useful for testing)
func Reset() {
	loadMu.Lock()
	defer loadMu.Unlock()
	globalConfig = nil
	viperInstance = nil
	ConfigSources = map[string]SourceInfo{}
}

// initViper initializes Viper with configuration sources and defaults.
// Callers hold loadMu.
func initViper() *viper.Viper {
	if viperInstance != nil {
		return viperInstance
	}

	v := viper.New()

	// SONGNET_SERVER_PORT -> server.port
	v.SetEnvPrefix("SONGNET")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	SetDefaults(v)

	// Merge configs in precedence order: system -> user -> project -> env vars
	mergeConfigFiles(v)

	viperInstance = v
	return v
}

// findProjectConfig searches for am.toml by walking up the directory tree.
// Returns the path to the first config file found, or empty string if none found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		amPath := filepath.Join(dir, "am.toml")
		if _, err := os.Stat(amPath); err == nil {
			return amPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached filesystem root
			break
		}
		dir = parent
	}

	return ""
}

// configFile is one candidate file with the source it represents
type configFile struct {
	path   string
	source ConfigSource
}

// configFiles lists candidate config files, lowest precedence first
func configFiles() []configFile {
	files := []configFile{
		{path: "/etc/songnet/am.toml", source: SourceSystem},
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		files = append(files, configFile{
			path:   filepath.Join(homeDir, ".songnet", "am.toml"),
			source: SourceUser,
		})
	}

	if projectConfig := findProjectConfig(); projectConfig != "" {
		// The user file and the project file can be the same when run from $HOME/.songnet
		if len(files) < 2 || files[len(files)-1].path != projectConfig {
			files = append(files, configFile{path: projectConfig, source: SourceProject})
		}
	}

	return files
}

// ActiveConfigFile returns the highest precedence config file that exists,
// or an empty string when only defaults and env vars apply.
func ActiveConfigFile() string {
	files := configFiles()
	for i := len(files) - 1; i >= 0; i-- {
		if _, err := os.Stat(files[i].path); err == nil {
			return files[i].path
		}
	}
	return ""
}

// mergeConfigFiles merges configuration files in precedence order.
// Precedence (lowest to highest): system < user < project < env vars
func mergeConfigFiles(v *viper.Viper) {
	sources := map[string]SourceInfo{}

	for _, file := range configFiles() {
		if _, err := os.Stat(file.path); err != nil {
			continue
		}

		tempViper := viper.New()
		tempViper.SetConfigFile(file.path)
		tempViper.SetConfigType("toml")

		if err := tempViper.ReadInConfig(); err != nil {
			continue
		}

		// MergeConfigMap keeps env vars above file values
		if err := v.MergeConfigMap(tempViper.AllSettings()); err != nil {
			continue
		}

		for _, key := range tempViper.AllKeys() {
			sources[key] = SourceInfo{Source: file.source, Path: file.path}
		}
	}

	ConfigSources = sources
}

// Get returns a configuration value using dot notation
func Get(key string) interface{} {
	return GetViper().Get(key)
}
