package common

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("GEMINI_MODEL", "")
	t.Setenv("GEMINI_TIMEOUT", "")
	t.Setenv("PDF_DPI", "")
	t.Setenv("HTTP_ADDR", "")

	cfg := LoadConfig()
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, "pdftoppm", cfg.PDF.Pdftoppm)
	assert.Equal(t, 150, cfg.PDF.DPI)
	assert.Equal(t, 0, cfg.PDF.MaxPages)
	assert.Equal(t, ":8080", cfg.Server.HTTPAddr)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "test-key")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")
	t.Setenv("GEMINI_TEMPERATURE", "0.5")
	t.Setenv("GEMINI_TIMEOUT", "90s")
	t.Setenv("PDF_DPI", "200")
	t.Setenv("PDF_MAX_PAGES", "25")
	t.Setenv("HTTP_ADDR", ":9090")

	cfg := LoadConfig()
	assert.Equal(t, "test-key", cfg.LLM.APIKey)
	assert.Equal(t, "gemini-2.5-pro", cfg.LLM.Model)
	assert.Equal(t, float32(0.5), cfg.LLM.Temperature)
	assert.Equal(t, 90*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 200, cfg.PDF.DPI)
	assert.Equal(t, 25, cfg.PDF.MaxPages)
	assert.Equal(t, ":9090", cfg.Server.HTTPAddr)
}

func TestLoadConfigIgnoresInvalidValues(t *testing.T) {
	t.Setenv("PDF_DPI", "not-a-number")
	t.Setenv("GEMINI_TIMEOUT", "soon")

	cfg := LoadConfig()
	assert.Equal(t, 150, cfg.PDF.DPI)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
}

func TestValidate(t *testing.T) {
	cfg := &Config{
		LLM:    LLMConfig{APIKey: "test-key"},
		Server: ServerConfig{HTTPAddr: ":8080"},
	}
	require.NoError(t, cfg.Validate())

	cfg.LLM.APIKey = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")

	cfg.LLM.APIKey = "test-key"
	cfg.Server.HTTPAddr = ""
	err = cfg.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrConfiguration)
}
