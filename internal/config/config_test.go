package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseConfig() *Config {
	return &Config{
		AI: AIConfig{
			Provider:    "gemini",
			Model:       "gemini-2.0-flash",
			Timeout:     60 * time.Second,
			APIKey:      "global-key",
			MaxRetries:  3,
			Temperature: 0.7,
		},
		Server: ServerConfig{
			Port: "8080",
			TLS:  TLSConfig{Mode: "disabled"},
		},
		App: AppConfig{
			LogLevel:         "info",
			DefaultFormat:    "json",
			SupportedFormats: []string{"json", "text", "markdown"},
			MinPasswordLen:   6,
		},
		Firebase: FirebaseConfig{ProjectID: "demo-project"},
		Store:    StoreConfig{Backend: "firestore"},
	}
}

func TestGetAssessmentConfigFallsBackToGlobal(t *testing.T) {
	cfg := baseConfig()

	opCfg := cfg.GetAssessmentConfig()

	assert.Equal(t, "gemini", opCfg.Provider)
	assert.Equal(t, "gemini-2.0-flash", opCfg.Model)
	assert.Equal(t, "global-key", opCfg.APIKey)
	require.NotNil(t, opCfg.Timeout)
	assert.Equal(t, 60*time.Second, *opCfg.Timeout)
	require.NotNil(t, opCfg.MaxRetries)
	assert.Equal(t, 3, *opCfg.MaxRetries)
	require.NotNil(t, opCfg.Temperature)
	assert.InDelta(t, 0.7, float64(*opCfg.Temperature), 0.001)
}

func TestGetInterviewConfigKeepsOperationOverrides(t *testing.T) {
	cfg := baseConfig()
	opTimeout := 45 * time.Second
	opTemp := float32(0.9)
	cfg.AI.Interview = OperationAIConfig{
		Model:       "gemini-1.5-pro",
		Timeout:     &opTimeout,
		Temperature: &opTemp,
	}

	opCfg := cfg.GetInterviewConfig()

	assert.Equal(t, "gemini-1.5-pro", opCfg.Model)
	assert.Equal(t, 45*time.Second, *opCfg.Timeout)
	assert.InDelta(t, 0.9, float64(*opCfg.Temperature), 0.001)
	// Unset fields still fall back
	assert.Equal(t, "global-key", opCfg.APIKey)
	assert.Equal(t, "gemini", opCfg.Provider)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid configuration",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing server port",
			mutate:  func(c *Config) { c.Server.Port = "" },
			wantErr: "server port is required",
		},
		{
			name:    "invalid store backend",
			mutate:  func(c *Config) { c.Store.Backend = "postgres" },
			wantErr: "invalid store backend",
		},
		{
			name: "firestore backend requires project ID",
			mutate: func(c *Config) {
				c.Firebase.ProjectID = ""
			},
			wantErr: "firebase project ID is required",
		},
		{
			name: "memory backend needs no project ID",
			mutate: func(c *Config) {
				c.Store.Backend = "memory"
				c.Firebase.ProjectID = ""
			},
		},
		{
			name:    "invalid default format",
			mutate:  func(c *Config) { c.App.DefaultFormat = "xml" },
			wantErr: "invalid default format",
		},
		{
			name:    "password minimum too low",
			mutate:  func(c *Config) { c.App.MinPasswordLen = 4 },
			wantErr: "minimum password length",
		},
		{
			name: "tls server mode requires cert and key",
			mutate: func(c *Config) {
				c.Server.TLS.Mode = "server"
			},
			wantErr: "TLS certificate and key",
		},
		{
			name:    "invalid tls mode",
			mutate:  func(c *Config) { c.Server.TLS.Mode = "mutual" },
			wantErr: "invalid TLS mode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := baseConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestLoadPromptsFromFiles(t *testing.T) {
	tmpDir := t.TempDir()
	promptFile := filepath.Join(tmpDir, "assessment.txt")
	require.NoError(t, os.WriteFile(promptFile, []byte("You are a career counselor.\n"), 0600))

	cfg := baseConfig()
	cfg.AI.CustomPrompts.AssessmentFile = promptFile

	require.NoError(t, cfg.validatePromptFiles())
	require.NoError(t, cfg.loadPromptsFromFiles())

	loaded := GetLoadedPrompts()
	assert.Equal(t, "You are a career counselor.", loaded.Assessment)
}

func TestValidatePromptFilesMissingFile(t *testing.T) {
	cfg := baseConfig()
	cfg.AI.CustomPrompts.InterviewFile = "/nonexistent/interview.txt"

	err := cfg.validatePromptFiles()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "interview prompt file not found")
}

func TestApplyFallbacksServiceInstance(t *testing.T) {
	cfg := baseConfig()
	cfg.Observability.ServiceName = "careerhub"

	cfg.applyFallbacks()

	assert.NotEmpty(t, cfg.Observability.ServiceInstance)
	assert.Contains(t, cfg.Observability.ServiceInstance, "careerhub")
}
