package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("S3_BUCKET_NAME", "closet")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "closet", cfg.S3BucketName)
	assert.Equal(t, DefaultModelTimeout, cfg.ModelTimeout)
	assert.Equal(t, DefaultModelMaxImageBytes, cfg.ModelMaxImageBytes)
	assert.Equal(t, DefaultModelMinJPEGQuality, cfg.ModelMinJPEGQuality)
	assert.Equal(t, float64(DefaultBackgroundThreshold), cfg.BackgroundThreshold)
	assert.Equal(t, DefaultModelMaxRetries, cfg.ModelMaxRetries)
	assert.Equal(t, DefaultAsyncBrokerAddress, cfg.AsyncBrokerAddress)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("MODEL_TIMEOUT", "5s")
	t.Setenv("MODEL_MAX_RETRIES", "4")
	t.Setenv("BACKGROUND_BLUR_SIGMA", "1.5")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "5432")
	t.Setenv("DB_USERNAME", "u")
	t.Setenv("DB_PASSWORD", "p")
	t.Setenv("DB_NAME", "closet")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, 5*time.Second, cfg.ModelTimeout)
	assert.Equal(t, 4, cfg.ModelMaxRetries)
	assert.Equal(t, 1.5, cfg.BackgroundBlurSigma)
	assert.Equal(t, "postgres://u:p@db:5432/closet", cfg.DatabaseDSN())
}

func TestLoadRejectsBadQuality(t *testing.T) {
	t.Setenv("MODEL_MIN_JPEG_QUALITY", "150")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadKeepsExplicitZeroRetries(t *testing.T) {
	t.Setenv("MODEL_MAX_RETRIES", "0")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.ModelMaxRetries)
	assert.Equal(t, DefaultModelRatePerMinute, cfg.ModelRatePerMinute)
}

func TestLoadRejectsNonPositiveRate(t *testing.T) {
	for _, rate := range []string{"0", "-5"} {
		t.Run(rate, func(t *testing.T) {
			t.Setenv("MODEL_RATE_PER_MINUTE", rate)

			_, err := Load()
			assert.ErrorContains(t, err, "MODEL_RATE_PER_MINUTE")
		})
	}
}
