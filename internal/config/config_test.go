package config

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("screenai", nil)
	require.NoError(t, err)

	assert.Equal(t, "screenshot.png", cfg.Capture.ScreenshotPath)
	assert.Equal(t, "screencapture", cfg.Capture.Command)
	assert.Equal(t, []string{"-x"}, cfg.Capture.Args)
	assert.Equal(t, "screen_ai_log.txt", cfg.Monitor.LogPath)
	assert.Equal(t, 30*time.Second, cfg.Monitor.Delay)
	assert.Equal(t, "/opt/homebrew/bin/tesseract", cfg.OCR.TesseractPath)
	assert.Equal(t, 4, cfg.OCR.PSM)
	assert.Equal(t, "chat", cfg.LLM.Provider)
	assert.Equal(t, "http://localhost:8080/v1/chat/completions", cfg.LLM.Endpoint)
	assert.Equal(t, "deepseek-r1-distill-qwen-7b:2", cfg.LLM.Model)
	assert.Equal(t, 0.7, cfg.LLM.Temperature)
	assert.Equal(t, 120*time.Second, cfg.LLM.Timeout)
	assert.Empty(t, cfg.Server.Addr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadFlags(t *testing.T) {
	cfg, err := Load("screenai", []string{
		"--screenshot", "/tmp/shot.png",
		"--log", "/tmp/log.txt",
		"--delay", "5",
		"--provider", "ollama",
		"--endpoint", "http://localhost:11434",
		"--status-addr", ":9090",
	})
	require.NoError(t, err)

	assert.Equal(t, "/tmp/shot.png", cfg.Capture.ScreenshotPath)
	assert.Equal(t, "/tmp/log.txt", cfg.Monitor.LogPath)
	assert.Equal(t, 5*time.Second, cfg.Monitor.Delay)
	assert.Equal(t, "ollama", cfg.LLM.Provider)
	assert.Equal(t, "http://localhost:11434", cfg.LLM.Endpoint)
	assert.Equal(t, ":9090", cfg.Server.Addr)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("SCREENAI_MODEL", "llama3.1:latest")
	t.Setenv("SCREENAI_DELAY", "12")
	t.Setenv("SCREENAI_TEMPERATURE", "0.2")
	t.Setenv("SCREENAI_CAPTURE_COMMAND", "gnome-screenshot")
	t.Setenv("SCREENAI_CAPTURE_ARGS", "-f")

	cfg, err := Load("screenai", nil)
	require.NoError(t, err)

	assert.Equal(t, "llama3.1:latest", cfg.LLM.Model)
	assert.Equal(t, 12*time.Second, cfg.Monitor.Delay)
	assert.Equal(t, 0.2, cfg.LLM.Temperature)
	assert.Equal(t, "gnome-screenshot", cfg.Capture.Command)
	assert.Equal(t, []string{"-f"}, cfg.Capture.Args)

	// flags win over the environment
	cfg, err = Load("screenai", []string{"--model", "from-flag"})
	require.NoError(t, err)
	assert.Equal(t, "from-flag", cfg.LLM.Model)
}

func TestLoadConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "screenai.yaml")
	require.NoError(t, os.WriteFile(path, []byte("model: from-file\npsm: 6\ndelay: 7\n"), 0o600))

	cfg, err := Load("screenai", []string{"--config", path})
	require.NoError(t, err)

	assert.Equal(t, "from-file", cfg.LLM.Model)
	assert.Equal(t, 6, cfg.OCR.PSM)
	assert.Equal(t, 7*time.Second, cfg.Monitor.Delay)
}

func TestLoadConfigFileMissing(t *testing.T) {
	_, err := Load("screenai", []string{"--config", filepath.Join(t.TempDir(), "missing.yaml")})
	assert.Error(t, err)
}

func TestLoadInvalidFlag(t *testing.T) {
	_, err := Load("screenai", []string{"--delay", "soon"})
	assert.Error(t, err)

	_, err = Load("screenai", []string{"--help"})
	assert.ErrorIs(t, err, pflag.ErrHelp)
}

func TestLoadQuery(t *testing.T) {
	cfg, err := LoadQuery("llmquery", []string{"--endpoint", "http://127.0.0.1:1234/v1/chat/completions"})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:1234/v1/chat/completions", cfg.LLM.Endpoint)
	assert.Equal(t, "chat", cfg.LLM.Provider)

	_, err = LoadQuery("llmquery", []string{"--screenshot", "x.png"})
	assert.Error(t, err, "capture flags are not accepted by the query tool")
}

func TestInitLogger(t *testing.T) {
	defaultLogger := slog.Default()
	t.Cleanup(func() { slog.SetDefault(defaultLogger) })

	require.NoError(t, InitLogger("debug"))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelDebug))

	require.NoError(t, InitLogger("warn"))
	assert.False(t, slog.Default().Enabled(context.Background(), slog.LevelInfo))

	assert.Error(t, InitLogger("loud"))
}
