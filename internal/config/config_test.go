package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "")
	t.Setenv("STRIPE_PRICE_ID", "")
	t.Setenv("API_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultAPIBaseURL, cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.False(t, cfg.PaymentsConfigured())
}

func TestLoadTrimsBaseURLAndReadsPaymentKeys(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://mess.example.com/api/v1/")
	t.Setenv("STRIPE_PUBLISHABLE_KEY", "pk_test_123")
	t.Setenv("STRIPE_PRICE_ID", "price_456")
	t.Setenv("CORS_ORIGINS", "http://a.test, ,http://b.test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://mess.example.com/api/v1", cfg.APIBaseURL)
	assert.True(t, cfg.PaymentsConfigured())
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
}

func TestValidate(t *testing.T) {
	t.Parallel()

	valid := func() *Config {
		return &Config{
			PortalPort:      "3000",
			APIBaseURL:      DefaultAPIBaseURL,
			APITimeout:      time.Second,
			RequestTimeout:  time.Second,
			NotifyBuffer:    8,
			DefaultPageSize: 5,
		}
	}

	require.NoError(t, valid().Validate())

	cases := map[string]func(c *Config){
		"relative base url": func(c *Config) { c.APIBaseURL = "/api/v1" },
		"empty port":        func(c *Config) { c.PortalPort = "" },
		"zero api timeout":  func(c *Config) { c.APITimeout = 0 },
		"zero notify":       func(c *Config) { c.NotifyBuffer = 0 },
		"zero page size":    func(c *Config) { c.DefaultPageSize = 0 },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := valid()
			mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
