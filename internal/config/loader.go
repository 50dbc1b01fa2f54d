package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// ConfigFileName is the base name for configuration files (without extension).
	ConfigFileName = "scholardoc"

	// EnvPrefix is the prefix for environment variables.
	EnvPrefix = "SCHOLARDOC"
)

// Loader handles loading configuration from various sources.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	// Use the global viper instance to ensure flag bindings work
	return &Loader{v: viper.GetViper()}
}

// Load loads configuration from files, environment variables, and sets
// defaults. The result is validated.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName(ConfigFileName)
	l.v.SetConfigType("yaml")

	l.addConfigPaths()
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.readConfigFile(); err != nil {
		return nil, err
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// LoadWithFile loads configuration from a specific file path.
func (l *Loader) LoadWithFile(configFile string) (*Config, error) {
	if configFile == "" {
		return l.Load()
	}

	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configFile)
	}

	l.v.SetConfigFile(configFile)
	l.setupEnvironmentVariables()
	l.setDefaults()

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", configFile, err)
	}

	var config Config
	if err := l.v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// readConfigFile reads the located config file, tolerating its absence.
func (l *Loader) readConfigFile() error {
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, continue with defaults and env vars
	}
	return nil
}

// GetConfigFileUsed returns the path of the config file used.
func (l *Loader) GetConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

// GetViper returns the underlying viper instance for advanced usage.
func (l *Loader) GetViper() *viper.Viper {
	return l.v
}

// addConfigPaths adds the standard configuration search paths.
func (l *Loader) addConfigPaths() {
	// Current directory
	l.v.AddConfigPath(".")

	// User's home directory
	if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(home)
	}

	// System-wide configuration
	l.v.AddConfigPath("/etc/scholardoc")

	// XDG config directory
	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		l.v.AddConfigPath(filepath.Join(configDir, "scholardoc"))
	} else if home, err := os.UserHomeDir(); err == nil {
		l.v.AddConfigPath(filepath.Join(home, ".config", "scholardoc"))
	}
}

// setupEnvironmentVariables configures environment variable handling.
func (l *Loader) setupEnvironmentVariables() {
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.AutomaticEnv()

	// Replace dots and dashes with underscores in env var names
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

// setDefaults sets default values for all configuration options.
func (l *Loader) setDefaults() {
	defaults := DefaultConfig()

	// Global settings
	l.v.SetDefault("log_level", defaults.LogLevel)
	l.v.SetDefault("verbose", defaults.Verbose)
	l.v.SetDefault("database_path", defaults.DatabasePath)
	l.v.SetDefault("firestore_project", defaults.FirestoreProject)

	// OCR defaults
	l.v.SetDefault("ocr.language", defaults.OCR.Language)
	l.v.SetDefault("ocr.tessdata_dir", defaults.OCR.TessdataDir)
	l.v.SetDefault("ocr.pass_timeout_sec", defaults.OCR.PassTimeoutSec)
	l.v.SetDefault("ocr.rotation_enabled", defaults.OCR.RotationEnabled)

	// Vision defaults
	l.v.SetDefault("vision.enabled", defaults.Vision.Enabled)
	l.v.SetDefault("vision.region", defaults.Vision.Region)
	l.v.SetDefault("vision.model", defaults.Vision.Model)
	l.v.SetDefault("vision.credentials_file", defaults.Vision.CredentialsFile)

	// PDF defaults
	l.v.SetDefault("pdf.workers", defaults.PDF.Workers)

	// Server defaults
	l.v.SetDefault("server.host", defaults.Server.Host)
	l.v.SetDefault("server.port", defaults.Server.Port)
	l.v.SetDefault("server.cors_origin", defaults.Server.CORSOrigin)
	l.v.SetDefault("server.max_upload_mb", defaults.Server.MaxUploadMB)
	l.v.SetDefault("server.timeout_sec", defaults.Server.TimeoutSec)
	l.v.SetDefault("server.shutdown_timeout", defaults.Server.ShutdownTimeout)
	l.v.SetDefault("server.workers", defaults.Server.Workers)
	l.v.SetDefault("server.requests_per_minute", defaults.Server.RequestsPerMinute)
	l.v.SetDefault("server.requests_per_hour", defaults.Server.RequestsPerHour)
	l.v.SetDefault("server.max_requests_per_day", defaults.Server.MaxRequestsPerDay)
	l.v.SetDefault("server.max_data_per_day_mb", defaults.Server.MaxDataPerDayMB)

	// Batch defaults
	l.v.SetDefault("batch.workers", defaults.Batch.Workers)
	l.v.SetDefault("batch.continue_on_error", defaults.Batch.ContinueOnError)
}

// GetResolvedConfig returns the current resolved configuration for debugging.
func (l *Loader) GetResolvedConfig() map[string]interface{} {
	return l.v.AllSettings()
}

// WriteConfigToFile writes the current configuration to a file.
func (l *Loader) WriteConfigToFile(filename string) error {
	return l.v.WriteConfigAs(filename)
}

// GenerateDefaultConfigFile writes a default configuration file using
// the struct's yaml layout, so the generated file matches the keys the
// loader expects back.
func GenerateDefaultConfigFile(filename string) error {
	if filename == "" {
		filename = "scholardoc.yaml"
	}

	defaults := DefaultConfig()
	data, err := yaml.Marshal(&defaults)
	if err != nil {
		return fmt.Errorf("error marshaling default config: %w", err)
	}

	header := "# scholardoc configuration\n# Values here are overridden by SCHOLARDOC_* environment variables and CLI flags.\n"
	return os.WriteFile(filename, append([]byte(header), data...), 0o600)
}

// GetConfigSearchPaths returns the paths where configuration files are searched.
func GetConfigSearchPaths() []string {
	paths := []string{"."}

	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, home)
		paths = append(paths, filepath.Join(home, ".config", "scholardoc"))
	}

	if configDir, exists := os.LookupEnv("XDG_CONFIG_HOME"); exists {
		paths = append(paths, filepath.Join(configDir, "scholardoc"))
	}

	paths = append(paths, "/etc/scholardoc")

	return paths
}
