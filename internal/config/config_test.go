package config_test

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kiosk_commerce/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	rq := require.New(t)

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal(2*time.Second, cfg.Poll.Interval)
	rq.Equal("UNKNOWN_KIOSK", cfg.Commerce.KioskID)
	rq.Equal("UNKNOWN_DISTRICT", cfg.Commerce.DistrictID)
	rq.Equal("H", cfg.Commerce.QRLevel)
	rq.Equal(5*time.Second, cfg.Commerce.ScanWindow)
	rq.Equal(10*time.Minute, cfg.Poll.ViewIdleTTL)
	rq.Equal(slog.LevelInfo, cfg.App.LogLevel)
	rq.False(cfg.Journal.Enabled())
	rq.False(cfg.Redis.Enabled())
	rq.False(cfg.Bot.Enabled())
	rq.False(cfg.Kafka.Enabled())
}

func TestLoadOverrides(t *testing.T) {
	rq := require.New(t)

	t.Setenv("POLL_INTERVAL", "3s")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("KIOSK_ID", "kiosk-7")
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("BOT_VENDOR_IDS", "11,22")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")

	cfg, err := config.Load()
	rq.NoError(err)

	rq.Equal(3*time.Second, cfg.Poll.Interval)
	rq.Equal(slog.LevelDebug, cfg.App.LogLevel)
	rq.Equal("kiosk-7", cfg.Commerce.KioskID)
	rq.True(cfg.Bot.Enabled())
	rq.Equal([]int64{11, 22}, cfg.Bot.VendorIDs)
	rq.Equal([]string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoadRejectsNonPositiveDurations(t *testing.T) {
	testCases := []struct {
		name  string
		key   string
		value string
	}{
		{name: "zero poll interval", key: "POLL_INTERVAL", value: "0s"},
		{name: "negative poll interval", key: "POLL_INTERVAL", value: "-2s"},
		{name: "zero scan window", key: "SCAN_WINDOW", value: "0s"},
		{name: "negative scan window", key: "SCAN_WINDOW", value: "-1s"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			t.Setenv(tc.key, tc.value)

			_, err := config.Load()
			rq.ErrorContains(err, tc.key)
		})
	}
}
