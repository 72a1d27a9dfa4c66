package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate points HOME and the XDG dirs at a temp dir and clears the
// variables revisor reads, so the host environment cannot leak in.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	for _, name := range []string{
		"OPENAI_API_KEY", "OPENAI_BASE", "REVISOR_MODEL", "REVISOR_ECHO",
		"REVISOR_PROVIDER", "XDG_SESSION_TYPE", "REVISOR_CLIPBOARD_SESSION",
		"REVISOR_OPENAI_BASE_URL",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	t.Cleanup(func() { AppConfig = nil })
	return home
}

func TestLoadConfig_Defaults(t *testing.T) {
	home := isolate(t)

	require.NoError(t, LoadConfig("", nil))
	cfg := AppConfig

	assert.Equal(t, ProviderOpenAI, cfg.Provider)
	assert.Equal(t, "gpt-5", cfg.Model)
	assert.False(t, cfg.Echo)
	assert.Equal(t, filepath.Join(home, ".revisor"), cfg.PromptFile)
	assert.Equal(t, "https://api.openai.com/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, 60*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, 300*time.Millisecond, cfg.Clipboard.Timeout)
	assert.True(t, cfg.Sound.Enabled)
	assert.Equal(t, DefaultSoundFiles, cfg.Sound.Files)
	assert.Equal(t, filepath.Join(home, ".revisor.log"), cfg.Logging.Output)
	assert.Empty(t, cfg.OpenAI.APIKey)
}

func TestLoadConfig_Environment(t *testing.T) {
	isolate(t)
	t.Setenv("OPENAI_API_KEY", " sk-test ")
	t.Setenv("OPENAI_BASE", "http://proxy.local/v1/")
	t.Setenv("REVISOR_MODEL", "gpt-4o-mini")
	t.Setenv("REVISOR_ECHO", "1")
	t.Setenv("XDG_SESSION_TYPE", "Wayland")

	require.NoError(t, LoadConfig("", nil))
	cfg := AppConfig

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "http://proxy.local/v1", cfg.OpenAI.BaseURL)
	assert.Equal(t, "gpt-4o-mini", cfg.Model)
	assert.True(t, cfg.Echo)
	assert.Equal(t, "wayland", cfg.Clipboard.Session)
}

func TestLoadConfig_FileAndFlags(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "revisor.yaml")
	data := `
provider: ollama
prompt_file: ~/prompts/revise.txt
ollama:
  host: http://gpu-box:11434
  model: llama3
clipboard:
  timeout: 1s
sound:
  enabled: false
logging:
  level: debug
  output: stderr
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("model", "", "")
	flags.Bool("echo", false, "")
	require.NoError(t, flags.Parse([]string{"--model", "mistral", "--echo"}))

	require.NoError(t, LoadConfig(path, flags))
	cfg := AppConfig

	assert.Equal(t, ProviderOllama, cfg.Provider)
	assert.Equal(t, "mistral", cfg.Model)
	assert.True(t, cfg.Echo)
	assert.Equal(t, filepath.Join(home, "prompts", "revise.txt"), cfg.PromptFile)
	assert.Equal(t, "http://gpu-box:11434", cfg.Ollama.Host)
	assert.Equal(t, time.Second, cfg.Clipboard.Timeout)
	assert.False(t, cfg.Sound.Enabled)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "stderr", cfg.Logging.Output)
}

func TestLoadConfig_SessionPrecedence(t *testing.T) {
	home := isolate(t)
	path := filepath.Join(home, "revisor.yaml")
	require.NoError(t, os.WriteFile(path, []byte("clipboard:\n  session: x11\n"), 0o644))
	t.Setenv("XDG_SESSION_TYPE", "wayland")

	require.NoError(t, LoadConfig(path, nil))
	assert.Equal(t, "x11", AppConfig.Clipboard.Session)

	t.Setenv("REVISOR_CLIPBOARD_SESSION", "Wayland")
	require.NoError(t, LoadConfig(path, nil))
	assert.Equal(t, "wayland", AppConfig.Clipboard.Session)

	os.Unsetenv("REVISOR_CLIPBOARD_SESSION")
	t.Setenv("XDG_SESSION_TYPE", "Wayland")
	require.NoError(t, LoadConfig("", nil))
	assert.Equal(t, "wayland", AppConfig.Clipboard.Session)
}

func TestLoadConfig_OllamaModelDefault(t *testing.T) {
	isolate(t)
	t.Setenv("REVISOR_PROVIDER", "ollama")

	require.NoError(t, LoadConfig("", nil))
	assert.Equal(t, "gemma3:latest", AppConfig.Model)
}

func TestLoadConfig_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		setup func(t *testing.T, home string) string
	}{
		{
			name: "explicit file missing",
			setup: func(t *testing.T, home string) string {
				return filepath.Join(home, "nope.yaml")
			},
		},
		{
			name: "unknown provider",
			setup: func(t *testing.T, home string) string {
				t.Setenv("REVISOR_PROVIDER", "claude-desktop")
				return ""
			},
		},
		{
			name: "malformed yaml",
			setup: func(t *testing.T, home string) string {
				p := filepath.Join(home, "bad.yaml")
				require.NoError(t, os.WriteFile(p, []byte("provider: [openai"), 0o644))
				return p
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			home := isolate(t)
			path := tc.setup(t, home)
			assert.Error(t, LoadConfig(path, nil))
			assert.Nil(t, AppConfig)
		})
	}
}

func TestRedacted(t *testing.T) {
	cfg := Config{OpenAI: OpenAIConfig{APIKey: "sk-secret"}, Sound: SoundConfig{Files: []string{"a"}}}
	red := cfg.Redacted()

	assert.Equal(t, "REDACTED", red.OpenAI.APIKey)
	assert.Equal(t, "sk-secret", cfg.OpenAI.APIKey)
	red.Sound.Files[0] = "b"
	assert.Equal(t, "a", cfg.Sound.Files[0])
}

func TestExpandHome(t *testing.T) {
	home := isolate(t)

	assert.Equal(t, filepath.Join(home, "x"), ExpandHome("~/x"))
	assert.Equal(t, home, ExpandHome("~"))
	assert.Equal(t, "/abs/path", ExpandHome("/abs/path"))
	assert.Equal(t, "~user/x", ExpandHome("~user/x"))
}
