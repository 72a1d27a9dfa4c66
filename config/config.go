package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// DefaultSoundFiles are tried in order for the completion sound.
var DefaultSoundFiles = []string{
	"/usr/share/sounds/freedesktop/stereo/message.oga",
	"/usr/share/sounds/freedesktop/stereo/complete.oga",
}

// OpenAIConfig defines the OpenAI-compatible API configuration.
type OpenAIConfig struct {
	BaseURL string        `mapstructure:"base_url" yaml:"base_url"`
	APIKey  string        `mapstructure:"api_key" yaml:"api_key,omitempty"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// OllamaConfig defines the Ollama configuration.
type OllamaConfig struct {
	Host  string `mapstructure:"host" yaml:"host"`
	Model string `mapstructure:"model" yaml:"model"`
}

// ClipboardConfig defines how the clipboard tools are driven.
type ClipboardConfig struct {
	// Session ("wayland", "x11") falls back to XDG_SESSION_TYPE when unset.
	Session string        `mapstructure:"session" yaml:"session"`
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`
}

// SoundConfig defines the completion sound.
type SoundConfig struct {
	Enabled bool     `mapstructure:"enabled" yaml:"enabled"`
	Files   []string `mapstructure:"files" yaml:"files"`
}

// LoggingConfig defines the logging configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	Output string `mapstructure:"output" yaml:"output"`
}

// Config is the top-level configuration struct.
type Config struct {
	Provider   string          `mapstructure:"provider" yaml:"provider"`
	Model      string          `mapstructure:"model" yaml:"model"`
	Echo       bool            `mapstructure:"echo" yaml:"echo"`
	PromptFile string          `mapstructure:"prompt_file" yaml:"prompt_file"`
	OpenAI     OpenAIConfig    `mapstructure:"openai" yaml:"openai"`
	Ollama     OllamaConfig    `mapstructure:"ollama" yaml:"ollama"`
	Clipboard  ClipboardConfig `mapstructure:"clipboard" yaml:"clipboard"`
	Sound      SoundConfig     `mapstructure:"sound" yaml:"sound"`
	Logging    LoggingConfig   `mapstructure:"logging" yaml:"logging"`
}

// AppConfig holds the loaded configuration.
var AppConfig *Config

// envBindings are the historical variable names that do not follow the
// REVISOR_<SECTION>_<KEY> scheme.
var envBindings = map[string][]string{
	"model":             {"REVISOR_MODEL"},
	"echo":              {"REVISOR_ECHO"},
	"openai.api_key":    {"OPENAI_API_KEY"},
	"openai.base_url":   {"REVISOR_OPENAI_BASE_URL", "OPENAI_BASE"},
	"clipboard.session": {"REVISOR_CLIPBOARD_SESSION"},
}

// flagBindings maps CLI flag names onto config keys.
var flagBindings = map[string]string{
	"provider":    "provider",
	"model":       "model",
	"echo":        "echo",
	"prompt-file": "prompt_file",
}

// DefaultConfigPath returns ~/.config/revisor/config.yaml.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "revisor", "config.yaml")
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("provider", ProviderOpenAI)
	v.SetDefault("model", "")
	v.SetDefault("echo", false)
	v.SetDefault("prompt_file", "~/.revisor")

	v.SetDefault("openai.base_url", "https://api.openai.com/v1")
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.timeout", 60*time.Second)

	v.SetDefault("ollama.host", "http://127.0.0.1:11434")
	v.SetDefault("ollama.model", "gemma3:latest")

	v.SetDefault("clipboard.session", "")
	v.SetDefault("clipboard.timeout", 300*time.Millisecond)

	v.SetDefault("sound.enabled", true)
	v.SetDefault("sound.files", DefaultSoundFiles)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("logging.output", "~/.revisor.log")
}

// LoadConfig builds AppConfig from defaults, the YAML file at path, the
// environment and the given flags, in increasing order of precedence.
// An empty path means DefaultConfigPath, which may be absent. flags may be nil.
func LoadConfig(path string, flags *pflag.FlagSet) error {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("REVISOR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, names := range envBindings {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("could not bind env for %s: %w", key, err)
		}
	}

	if flags != nil {
		for name, key := range flagBindings {
			if f := flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return fmt.Errorf("could not bind flag --%s: %w", name, err)
				}
			}
		}
	}

	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}
	if path != "" {
		path = ExpandHome(path)
		_, err := os.Stat(path)
		switch {
		case err == nil:
			v.SetConfigFile(path)
			v.SetConfigType("yaml")
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("could not read config file at %s: %w", path, err)
			}
		case explicit || !errors.Is(err, os.ErrNotExist):
			return fmt.Errorf("could not read config file at %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("could not decode configuration: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return err
	}

	AppConfig = &cfg
	return nil
}

func (c *Config) normalize() error {
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case ProviderOpenAI:
		if c.Model == "" {
			c.Model = "gpt-5"
		}
	case ProviderOllama:
		if c.Model == "" {
			c.Model = c.Ollama.Model
		}
	default:
		return fmt.Errorf("unknown provider %q (want %q or %q)", c.Provider, ProviderOpenAI, ProviderOllama)
	}

	c.OpenAI.APIKey = strings.TrimSpace(c.OpenAI.APIKey)
	c.OpenAI.BaseURL = strings.TrimRight(strings.TrimSpace(c.OpenAI.BaseURL), "/")
	if strings.TrimSpace(c.Clipboard.Session) == "" {
		c.Clipboard.Session = os.Getenv("XDG_SESSION_TYPE")
	}
	c.Clipboard.Session = strings.ToLower(strings.TrimSpace(c.Clipboard.Session))
	c.PromptFile = ExpandHome(c.PromptFile)
	if o := strings.ToLower(c.Logging.Output); o != "stdout" && o != "stderr" {
		c.Logging.Output = ExpandHome(c.Logging.Output)
	}
	return nil
}

// Redacted returns a copy safe to print.
func (c Config) Redacted() Config {
	if c.OpenAI.APIKey != "" {
		c.OpenAI.APIKey = "REDACTED"
	}
	c.Sound.Files = append([]string(nil), c.Sound.Files...)
	return c
}

// ExpandHome replaces a leading "~/" with the user's home directory.
func ExpandHome(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~"))
}
