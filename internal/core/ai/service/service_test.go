package service

import (
	"context"
	"testing"

	"vibe-gift/internal/infrastructure/config"
	"vibe-gift/internal/pkg/common"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProviderMissingKey(t *testing.T) {
	for _, name := range []string{config.ProviderGrok, config.ProviderGemini} {
		t.Run(name, func(t *testing.T) {
			cfg := config.Default()
			cfg.AI.Provider = name

			p, err := NewProvider(context.Background(), cfg, "")
			require.Error(t, err)
			assert.Nil(t, p)

			ce, ok := common.AsCustomError(err)
			require.True(t, ok)
			assert.Equal(t, common.ErrCodeConfiguration, ce.Code)
			assert.Equal(t, 500, ce.Status)
			if name == config.ProviderGrok {
				assert.Equal(t, "Missing GROK_API_KEY", ce.Message)
			} else {
				assert.Equal(t, "Missing GEMINI_API_KEY", ce.Message)
			}
		})
	}
}

func TestNewProviderSelectsVariant(t *testing.T) {
	cfg := config.Default()
	cfg.Grok.APIKey = "xai"
	p, err := NewProvider(context.Background(), cfg, "sys")
	require.NoError(t, err)
	assert.Equal(t, "grok", p.Name())
	assert.Equal(t, "grok-3", p.Model())

	cfg.AI.Provider = config.ProviderGemini
	cfg.Gemini.APIKey = "gm"
	p, err = NewProvider(context.Background(), cfg, "sys")
	require.NoError(t, err)
	assert.Equal(t, "gemini", p.Name())
	assert.Equal(t, "gemini-2.0-flash", p.Model())
}
