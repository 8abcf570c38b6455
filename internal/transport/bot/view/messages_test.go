package view_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/transport/bot/view"
)

func TestScanReplies(t *testing.T) {
	rq := require.New(t)

	rq.Equal("✅ Deal confirmed\n\n🎟 Deal: <code>D1</code>", view.ScanAccepted("Deal confirmed", "D1"))
	rq.Equal("✅ Deal confirmed", view.ScanAccepted("Deal confirmed", ""))
	rq.Equal("❌ Invalid or expired token\n\n✏️ <code>T&lt;1&gt;</code>", view.ScanRejected("Invalid or expired token", "T<1>"))
}

func TestStatus(t *testing.T) {
	rq := require.New(t)

	observedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	testCases := []struct {
		name     string
		report   entity.DealStatusReport
		history  []entity.Transition
		contains []string
		excludes []string
	}{
		{
			name:     "Without history",
			report:   entity.DealStatusReport{DealID: "D1", Status: value.DealStatusInitiated},
			contains: []string{"<code>D1</code>", "INITIATED"},
			excludes: []string{"History"},
		},
		{
			name: "With history",
			report: entity.DealStatusReport{
				DealID:  "D1",
				Status:  value.DealStatusClosed,
				Product: "Boat tour",
				Amount:  "25.00",
			},
			history: []entity.Transition{
				{DealID: "D1", To: value.DealStatusInitiated, ObservedAt: observedAt},
				{DealID: "D1", From: value.DealStatusInitiated, To: value.DealStatusClosed, ObservedAt: observedAt},
			},
			contains: []string{"Boat tour", "25.00", "1. — → INITIATED", "2. INITIATED → CLOSED", "2026-05-01 10:00:00"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			text := view.Status(tc.report, tc.history)

			for _, s := range tc.contains {
				rq.Contains(text, s)
			}

			for _, s := range tc.excludes {
				rq.NotContains(text, s)
			}
		})
	}
}

func TestConfirmation(t *testing.T) {
	rq := require.New(t)

	text := view.Confirmation(entity.VendorToken{
		DealID:    "D1",
		Token:     "V1",
		ExpiresAt: time.Date(2026, 5, 1, 10, 5, 0, 0, time.UTC),
	})

	rq.Contains(text, "<code>D1</code>")
	rq.Contains(text, "2026-05-01 10:05:00")
	rq.NotContains(text, "V1")
}
