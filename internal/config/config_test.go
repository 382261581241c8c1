package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/sintesi")
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("ELEVENLABS_API_KEY", "xi-test")
	t.Setenv("PORT", "")
	t.Setenv("SUBTITLE_MIRRORS", "")
	t.Setenv("FREE_TRIAL_CREDITS", "")

	cfg := Load()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.FreeTrialCredits)
	assert.Equal(t, "./static/summaries", cfg.SummariesDir)
	assert.Equal(t, defaultSubtitleMirrors, cfg.SubtitleMirrors)
	assert.False(t, cfg.S3.Enabled())
}

func TestLoadMirrorOverride(t *testing.T) {
	t.Setenv("SUBTITLE_MIRRORS", "https://a.example/, https://b.example ,")

	cfg := Load()
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.SubtitleMirrors)
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name          string
		mutate        func(*Config)
		errorContains string
	}{
		{
			name:          "missing database url",
			mutate:        func(c *Config) { c.DatabaseURL = "" },
			errorContains: "DATABASE_URL",
		},
		{
			name:          "missing openai key",
			mutate:        func(c *Config) { c.OpenAIKey = "" },
			errorContains: "OPENAI_API_KEY",
		},
		{
			name:          "missing elevenlabs key",
			mutate:        func(c *Config) { c.ElevenLabsKey = "" },
			errorContains: "ELEVENLABS_API_KEY",
		},
		{
			name:          "negative quota",
			mutate:        func(c *Config) { c.FreeTrialCredits = -1 },
			errorContains: "FREE_TRIAL_CREDITS",
		},
		{
			name:          "empty mirror list",
			mutate:        func(c *Config) { c.SubtitleMirrors = nil },
			errorContains: "mirror list",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				DatabaseURL:      "postgres://localhost/sintesi",
				OpenAIKey:        "sk-test",
				ElevenLabsKey:    "xi-test",
				FreeTrialCredits: 3,
				SubtitleMirrors:  defaultSubtitleMirrors,
			}
			tc.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errorContains)
		})
	}
}
