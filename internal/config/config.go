package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "SCREENAI"

type Config struct {
	Capture  CaptureConfig
	OCR      OCRConfig
	LLM      LLMConfig
	Monitor  MonitorConfig
	Server   ServerConfig
	LogLevel string
}

type CaptureConfig struct {
	Command        string
	Args           []string
	ScreenshotPath string
}

type OCRConfig struct {
	TesseractPath string
	PSM           int
}

type LLMConfig struct {
	// Provider is one of "chat", "openai" or "ollama".
	Provider string
	// Endpoint is the full chat-completions URL for "chat", the API base URL
	// for "openai" and the server host for "ollama".
	Endpoint    string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

type MonitorConfig struct {
	LogPath string
	Delay   time.Duration
}

type ServerConfig struct {
	// Addr enables the status server when non-empty.
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Load parses the flags of the screen capture loop. Values are resolved in
// order flag, SCREENAI_* environment variable, config file, default.
func Load(name string, args []string) (*Config, error) {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("screenshot", "screenshot.png", "Path to save the screenshot")
	flags.String("log", "screen_ai_log.txt", "Path to the log file")
	flags.Int("delay", 30, "Delay between screen captures in seconds")
	flags.String("tesseract", "/opt/homebrew/bin/tesseract", "Path to the tesseract binary")
	flags.String("status-addr", "", "Listen address for the status server (disabled when empty)")
	flags.String("provider", "chat", "Inference backend: chat, openai or ollama")
	registerCommon(flags)

	v, err := parse(flags, args)
	if err != nil {
		return nil, err
	}

	cfg := build(v)
	slog.Debug("configuration loaded", "endpoint", cfg.LLM.Endpoint, "provider", cfg.LLM.Provider)
	return cfg, nil
}

// LoadQuery parses the flags of the one-shot query tool, which always talks
// to the raw chat-completions endpoint.
func LoadQuery(name string, args []string) (*Config, error) {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	registerCommon(flags)

	v, err := parse(flags, args)
	if err != nil {
		return nil, err
	}
	return build(v), nil
}

func registerCommon(flags *pflag.FlagSet) {
	flags.String("config", "", "Optional config file (yaml, toml or json)")
	flags.String("endpoint", "http://localhost:8080/v1/chat/completions", "Inference server endpoint")
	flags.String("model", "deepseek-r1-distill-qwen-7b:2", "Model identifier")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
}

func parse(flags *pflag.FlagSet, args []string) (*viper.Viper, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("failed to load .env file", "error", err)
	}

	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetDefault("provider", "chat")
	v.SetDefault("api-key", "")
	v.SetDefault("temperature", 0.7)
	v.SetDefault("timeout", "120s")
	v.SetDefault("psm", 4)
	v.SetDefault("capture-command", "screencapture")
	v.SetDefault("capture-args", []string{"-x"})
	v.SetDefault("read-timeout", "10s")
	v.SetDefault("write-timeout", "10s")

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return v, nil
}

func build(v *viper.Viper) *Config {
	return &Config{
		Capture: CaptureConfig{
			Command:        v.GetString("capture-command"),
			Args:           v.GetStringSlice("capture-args"),
			ScreenshotPath: v.GetString("screenshot"),
		},
		OCR: OCRConfig{
			TesseractPath: v.GetString("tesseract"),
			PSM:           v.GetInt("psm"),
		},
		LLM: LLMConfig{
			Provider:    v.GetString("provider"),
			Endpoint:    v.GetString("endpoint"),
			APIKey:      v.GetString("api-key"),
			Model:       v.GetString("model"),
			Temperature: v.GetFloat64("temperature"),
			Timeout:     v.GetDuration("timeout"),
		},
		Monitor: MonitorConfig{
			LogPath: v.GetString("log"),
			Delay:   time.Duration(v.GetInt("delay")) * time.Second,
		},
		Server: ServerConfig{
			Addr:         v.GetString("status-addr"),
			ReadTimeout:  v.GetDuration("read-timeout"),
			WriteTimeout: v.GetDuration("write-timeout"),
		},
		LogLevel: v.GetString("log-level"),
	}
}

// InitLogger installs the process-wide slog logger.
func InitLogger(level string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})
	slog.SetDefault(slog.New(handler))
	return nil
}
