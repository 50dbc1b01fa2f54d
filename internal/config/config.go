// Package config ties the per-package configuration structs together
// and loads them from files, environment variables and flags.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nusrahkhan/Scholarship-Automation/internal/ocr"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/pdfconv"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/pipeline"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/server"
	"github.com/Nusrahkhan/Scholarship-Automation/internal/vision"
)

// Config represents the complete configuration for the scholardoc
// application. It covers all commands (verify, batch, requirements,
// serve) and supports loading from configuration files, environment
// variables, and command-line flags.
type Config struct {
	// Global settings
	LogLevel     string `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Verbose      bool   `mapstructure:"verbose" yaml:"verbose" json:"verbose"`
	DatabasePath string `mapstructure:"database_path" yaml:"database_path" json:"database_path"`

	// FirestoreProject switches student reference lookups to Firestore.
	FirestoreProject string `mapstructure:"firestore_project" yaml:"firestore_project" json:"firestore_project"`

	// OCR settings
	OCR OCRConfig `mapstructure:"ocr" yaml:"ocr" json:"ocr"`

	// Gemini vision fallback
	Vision VisionConfig `mapstructure:"vision" yaml:"vision" json:"vision"`

	// PDF rasterization
	PDF PDFConfig `mapstructure:"pdf" yaml:"pdf" json:"pdf"`

	// Server configuration (for serve command)
	Server ServerConfig `mapstructure:"server" yaml:"server" json:"server"`

	// Batch processing configuration
	Batch BatchConfig `mapstructure:"batch" yaml:"batch" json:"batch"`
}

// OCRConfig contains the Tesseract engine and extraction settings.
type OCRConfig struct {
	Language        string `mapstructure:"language" yaml:"language" json:"language"`
	TessdataDir     string `mapstructure:"tessdata_dir" yaml:"tessdata_dir" json:"tessdata_dir"`
	PassTimeoutSec  int    `mapstructure:"pass_timeout_sec" yaml:"pass_timeout_sec" json:"pass_timeout_sec"`
	RotationEnabled bool   `mapstructure:"rotation_enabled" yaml:"rotation_enabled" json:"rotation_enabled"`
}

// VisionConfig contains the Gemini fallback settings. The fallback is
// off unless a project ID is configured.
type VisionConfig struct {
	Enabled         bool   `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
	ProjectID       string `mapstructure:"project_id" yaml:"project_id" json:"project_id"`
	Region          string `mapstructure:"region" yaml:"region" json:"region"`
	Model           string `mapstructure:"model" yaml:"model" json:"model"`
	CredentialsFile string `mapstructure:"credentials_file" yaml:"credentials_file" json:"credentials_file"`
}

// PDFConfig contains PDF rasterization settings.
type PDFConfig struct {
	Workers      int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	PdftoppmPath string `mapstructure:"pdftoppm_path" yaml:"pdftoppm_path" json:"pdftoppm_path"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host" yaml:"host" json:"host"`
	Port            int    `mapstructure:"port" yaml:"port" json:"port"`
	CORSOrigin      string `mapstructure:"cors_origin" yaml:"cors_origin" json:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb" yaml:"max_upload_mb" json:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec" yaml:"timeout_sec" json:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout" json:"shutdown_timeout"`
	Workers         int    `mapstructure:"workers" yaml:"workers" json:"workers"`

	// Rate limiting; zero disables the corresponding limit.
	RequestsPerMinute int   `mapstructure:"requests_per_minute" yaml:"requests_per_minute" json:"requests_per_minute"`
	RequestsPerHour   int   `mapstructure:"requests_per_hour" yaml:"requests_per_hour" json:"requests_per_hour"`
	MaxRequestsPerDay int   `mapstructure:"max_requests_per_day" yaml:"max_requests_per_day" json:"max_requests_per_day"`
	MaxDataPerDayMB   int64 `mapstructure:"max_data_per_day_mb" yaml:"max_data_per_day_mb" json:"max_data_per_day_mb"`
}

// BatchConfig contains batch verification settings.
type BatchConfig struct {
	Workers         int    `mapstructure:"workers" yaml:"workers" json:"workers"`
	OutputFile      string `mapstructure:"output_file" yaml:"output_file" json:"output_file"`
	ContinueOnError bool   `mapstructure:"continue_on_error" yaml:"continue_on_error" json:"continue_on_error"`
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	tess := ocr.DefaultTesseractConfig()
	extract := ocr.DefaultConfig()
	pdf := pdfconv.DefaultConfig()
	vis := vision.DefaultConfig()

	return Config{
		LogLevel:     "info",
		Verbose:      false,
		DatabasePath: "results.db",
		OCR: OCRConfig{
			Language:        tess.Language,
			TessdataDir:     tess.TessdataDir,
			PassTimeoutSec:  int(extract.PassTimeout / time.Second),
			RotationEnabled: extract.RotationEnabled,
		},
		Vision: VisionConfig{
			Enabled: false,
			Region:  vis.Region,
			Model:   vis.Model,
		},
		PDF: PDFConfig{
			Workers:      pdf.Workers,
			PdftoppmPath: pdf.PdftoppmPath,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     16,
			TimeoutSec:      120,
			ShutdownTimeout: 10,
			Workers:         4,
		},
		Batch: BatchConfig{
			Workers:         4,
			ContinueOnError: true,
		},
	}
}

// Validate validates the configuration and returns any errors.
func (c *Config) Validate() error {
	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		return fmt.Errorf("invalid log level: %s (must be one of: %s)", c.LogLevel, strings.Join(validLogLevels, ", "))
	}

	if c.DatabasePath == "" {
		return fmt.Errorf("database path must not be empty")
	}
	if c.OCR.PassTimeoutSec <= 0 {
		return fmt.Errorf("invalid OCR pass timeout: %d (must be positive)", c.OCR.PassTimeoutSec)
	}
	if c.PDF.Workers <= 0 {
		return fmt.Errorf("invalid PDF workers: %d (must be positive)", c.PDF.Workers)
	}

	if c.Vision.Enabled && c.Vision.ProjectID == "" {
		return fmt.Errorf("vision fallback requires a project ID")
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be between 1 and 65535)", c.Server.Port)
	}
	if c.Server.MaxUploadMB <= 0 {
		return fmt.Errorf("invalid max upload size: %d (must be positive)", c.Server.MaxUploadMB)
	}
	if c.Server.TimeoutSec <= 0 {
		return fmt.Errorf("invalid timeout: %d (must be positive)", c.Server.TimeoutSec)
	}
	if c.Server.Workers <= 0 {
		return fmt.Errorf("invalid server workers: %d (must be positive)", c.Server.Workers)
	}
	if c.Batch.Workers <= 0 {
		return fmt.Errorf("invalid batch workers: %d (must be positive)", c.Batch.Workers)
	}

	return nil
}

// ToPipelineConfig converts the config to the pipeline configuration
// format.
func (c *Config) ToPipelineConfig() pipeline.Config {
	cfg := pipeline.DefaultConfig()
	cfg.DatabasePath = c.DatabasePath
	cfg.FirestoreProject = c.FirestoreProject

	cfg.Tesseract.Language = c.OCR.Language
	cfg.Tesseract.TessdataDir = c.OCR.TessdataDir

	cfg.Extractor.PassTimeout = time.Duration(c.OCR.PassTimeoutSec) * time.Second
	cfg.Extractor.RotationEnabled = c.OCR.RotationEnabled
	cfg.Extractor.VisionEnabled = c.Vision.Enabled && c.Vision.ProjectID != ""

	cfg.Vision.ProjectID = c.Vision.ProjectID
	if c.Vision.Region != "" {
		cfg.Vision.Region = c.Vision.Region
	}
	if c.Vision.Model != "" {
		cfg.Vision.Model = c.Vision.Model
	}
	cfg.Vision.CredentialsFile = c.Vision.CredentialsFile

	cfg.PDF.Workers = c.PDF.Workers
	cfg.PDF.PdftoppmPath = c.PDF.PdftoppmPath

	return cfg
}

// ToServerConfig converts the config to the server configuration
// format.
func (c *Config) ToServerConfig() server.Config {
	return server.Config{
		Host:              c.Server.Host,
		Port:              c.Server.Port,
		CORSOrigin:        c.Server.CORSOrigin,
		MaxUploadMB:       int64(c.Server.MaxUploadMB),
		TimeoutSec:        c.Server.TimeoutSec,
		Workers:           c.Server.Workers,
		RequestsPerMinute: c.Server.RequestsPerMinute,
		RequestsPerHour:   c.Server.RequestsPerHour,
		MaxRequestsPerDay: c.Server.MaxRequestsPerDay,
		MaxDataPerDay:     c.Server.MaxDataPerDayMB * 1024 * 1024,
		PipelineConfig:    c.ToPipelineConfig(),
	}
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
