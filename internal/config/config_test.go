package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "results.db", cfg.DatabasePath)
	assert.Equal(t, "eng", cfg.OCR.Language)
	assert.Equal(t, 30, cfg.OCR.PassTimeoutSec)
	assert.True(t, cfg.OCR.RotationEnabled)
	assert.False(t, cfg.Vision.Enabled)
	assert.Equal(t, "asia-south1", cfg.Vision.Region)
	assert.Equal(t, 4, cfg.PDF.Workers)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 16, cfg.Server.MaxUploadMB)
}

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			name:   "bad log level",
			mutate: func(c *Config) { c.LogLevel = "trace" },
			want:   "invalid log level",
		},
		{
			name:   "empty database path",
			mutate: func(c *Config) { c.DatabasePath = "" },
			want:   "database path",
		},
		{
			name:   "zero pass timeout",
			mutate: func(c *Config) { c.OCR.PassTimeoutSec = 0 },
			want:   "pass timeout",
		},
		{
			name:   "vision without project",
			mutate: func(c *Config) { c.Vision.Enabled = true },
			want:   "project ID",
		},
		{
			name:   "bad port",
			mutate: func(c *Config) { c.Server.Port = 70000 },
			want:   "invalid server port",
		},
		{
			name:   "zero upload limit",
			mutate: func(c *Config) { c.Server.MaxUploadMB = 0 },
			want:   "max upload size",
		},
		{
			name:   "zero batch workers",
			mutate: func(c *Config) { c.Batch.Workers = 0 },
			want:   "batch workers",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestToPipelineConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.DatabasePath = "/tmp/scholar.db"
	cfg.OCR.Language = "eng+hin"
	cfg.OCR.PassTimeoutSec = 45
	cfg.OCR.RotationEnabled = false
	cfg.Vision.Enabled = true
	cfg.Vision.ProjectID = "my-project"
	cfg.PDF.Workers = 8

	pc := cfg.ToPipelineConfig()
	assert.Equal(t, "/tmp/scholar.db", pc.DatabasePath)
	assert.Equal(t, "eng+hin", pc.Tesseract.Language)
	assert.Equal(t, 45*time.Second, pc.Extractor.PassTimeout)
	assert.False(t, pc.Extractor.RotationEnabled)
	assert.True(t, pc.Extractor.VisionEnabled)
	assert.Equal(t, "my-project", pc.Vision.ProjectID)
	assert.Equal(t, 8, pc.PDF.Workers)
}

func TestToPipelineConfigVisionNeedsProject(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Vision.Enabled = true
	cfg.Vision.ProjectID = ""

	pc := cfg.ToPipelineConfig()
	assert.False(t, pc.Extractor.VisionEnabled)
}

func TestToServerConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Server.MaxUploadMB = 32
	cfg.Server.MaxDataPerDayMB = 500
	cfg.Server.RequestsPerMinute = 60

	sc := cfg.ToServerConfig()
	assert.EqualValues(t, 32, sc.MaxUploadMB)
	assert.EqualValues(t, 500*1024*1024, sc.MaxDataPerDay)
	assert.Equal(t, 60, sc.RequestsPerMinute)
	assert.Equal(t, cfg.DatabasePath, sc.PipelineConfig.DatabasePath)
}
