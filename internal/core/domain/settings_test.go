package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSettings() Settings {
	s := DefaultSettings()
	s.Root = "/docs"
	s.StorePath = "/tmp/index.db"
	s.Embedding.APIKey = "sk-test"
	return s
}

func TestSettings_Validate(t *testing.T) {
	require.NoError(t, validSettings().Validate())

	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"missing root", func(s *Settings) { s.Root = "" }},
		{"missing store path", func(s *Settings) { s.StorePath = "" }},
		{"non-positive limit", func(s *Settings) { s.Limit = 0 }},
		{"non-positive concurrency", func(s *Settings) { s.Concurrency = -1 }},
		{"openai without key", func(s *Settings) { s.Embedding.APIKey = "" }},
		{"unknown provider", func(s *Settings) { s.Embedding.Provider = "bedrock" }},
		{"non-positive attempts", func(s *Settings) { s.Embedding.MaxAttempts = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(&s)
			err := s.Validate()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestSettings_Validate_OllamaNeedsNoKey(t *testing.T) {
	s := validSettings()
	s.Embedding.Provider = ProviderOllama
	s.Embedding.APIKey = ""
	assert.NoError(t, s.Validate())
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, DefaultContentLimit, s.Limit)
	assert.Equal(t, DefaultConcurrency, s.Concurrency)
	assert.Equal(t, ProviderOpenAI, s.Embedding.Provider)
	assert.Equal(t, DefaultMaxAttempts, s.Embedding.MaxAttempts)
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, IsRetryable(ErrRateLimited))
	assert.True(t, IsRetryable(ErrTransient))
	assert.False(t, IsRetryable(ErrConfig))
	assert.False(t, IsRetryable(ErrNotFound))
}
