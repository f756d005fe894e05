package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Setenv("PGSQL_URL", "")
	t.Setenv("TAX_RATE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "0.16", cfg.TaxRate.String())
	assert.Equal(t, 15, cfg.ReservationExpiryMinutes)
	assert.Equal(t, time.Minute, cfg.ReservationSweepInterval)
	assert.Equal(t, 30*24*time.Hour, cfg.ReservationRetention)
	assert.Equal(t, time.Hour, cfg.PurgeInitialDelay)
	assert.Empty(t, cfg.KafkaBrokers)
}

func TestLoadConfig_Overrides(t *testing.T) {
	viper.Reset()
	t.Setenv("TAX_RATE", "1.5")
	t.Setenv("RESERVATION_SWEEP_INTERVAL", "not-a-duration")
	t.Setenv("PURGE_INTERVAL", "12h")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("RESERVATION_EXPIRY_MINUTES", "90")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "0.16", cfg.TaxRate.String(), "out of range rates fall back to the default")
	assert.Equal(t, time.Minute, cfg.ReservationSweepInterval)
	assert.Equal(t, 12*time.Hour, cfg.PurgeInterval)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 15, cfg.ReservationExpiryMinutes)
}
