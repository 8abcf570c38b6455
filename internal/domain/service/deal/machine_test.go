package deal_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/domain/service/deal"
	"kiosk_commerce/internal/domain/value"
)

//nolint:gochecknoglobals
var (
	allPhases = []deal.Phase{
		deal.PhaseInitiating,
		deal.PhaseQRDisplay,
		deal.PhaseSuccess,
		deal.PhaseError,
		deal.PhaseClosed,
	}
	allEvents = []deal.Event{
		deal.InitiateSucceeded(),
		deal.InitiateFailed(""),
		deal.StatusObserved(value.DealStatusInitiated),
		deal.StatusObserved(value.DealStatusVendorConfirmed),
		deal.StatusObserved(value.DealStatusClosed),
		deal.StatusObserved(value.DealStatusExpired),
		deal.StatusObserved(value.DealStatusCancelled),
		deal.Retry(),
		deal.Dismiss(),
		deal.Close(),
	}
)

func name(e deal.Event) string {
	if e.Kind == deal.EventStatusObserved {
		return string(e.Kind) + "(" + e.Status.String() + ")"
	}
	return string(e.Kind)
}

func TestNextIsTotal(t *testing.T) {
	rq := require.New(t)

	want := map[deal.Phase]map[string]deal.Phase{
		deal.PhaseInitiating: {
			"initiate_succeeded": deal.PhaseQRDisplay,
			"initiate_failed":    deal.PhaseError,
			"close":              deal.PhaseClosed,
		},
		deal.PhaseQRDisplay: {
			"status_observed(VENDOR_CONFIRMED)": deal.PhaseSuccess,
			"status_observed(CLOSED)":           deal.PhaseSuccess,
			"status_observed(EXPIRED)":          deal.PhaseError,
			"status_observed(CANCELLED)":        deal.PhaseError,
			"close":                             deal.PhaseClosed,
		},
		deal.PhaseSuccess: {
			"dismiss": deal.PhaseClosed,
			"close":   deal.PhaseClosed,
		},
		deal.PhaseError: {
			"retry": deal.PhaseInitiating,
			"close": deal.PhaseClosed,
		},
		deal.PhaseClosed: {},
	}

	for _, phase := range allPhases {
		for _, event := range allEvents {
			next, ok := deal.Next(phase, event)

			wantNext, listed := want[phase][name(event)]
			if !listed {
				rq.False(ok, "%s + %s", phase, name(event))
				rq.Equal(phase, next, "%s + %s", phase, name(event))

				continue
			}

			rq.True(ok, "%s + %s", phase, name(event))
			rq.Equal(wantNext, next, "%s + %s", phase, name(event))
		}
	}
}

func TestMachineMessages(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		events      []deal.Event
		wantPhase   deal.Phase
		wantMessage string
	}{
		{
			name:      "Happy path",
			events:    []deal.Event{deal.InitiateSucceeded(), deal.StatusObserved(value.DealStatusVendorConfirmed)},
			wantPhase: deal.PhaseSuccess,
		},
		{
			name:        "Initiation failed with server message",
			events:      []deal.Event{deal.InitiateFailed("Product is not active")},
			wantPhase:   deal.PhaseError,
			wantMessage: "Product is not active",
		},
		{
			name:        "Initiation failed without a response",
			events:      []deal.Event{deal.InitiateFailed("")},
			wantPhase:   deal.PhaseError,
			wantMessage: domain.MessageCommerceUnavailable,
		},
		{
			name:        "Expired",
			events:      []deal.Event{deal.InitiateSucceeded(), deal.StatusObserved(value.DealStatusExpired)},
			wantPhase:   deal.PhaseError,
			wantMessage: "Deal expired or cancelled.",
		},
		{
			name: "Retry clears the message",
			events: []deal.Event{
				deal.InitiateSucceeded(),
				deal.StatusObserved(value.DealStatusCancelled),
				deal.Retry(),
			},
			wantPhase: deal.PhaseInitiating,
		},
		{
			name: "Late terminal status after success is ignored",
			events: []deal.Event{
				deal.InitiateSucceeded(),
				deal.StatusObserved(value.DealStatusVendorConfirmed),
				deal.StatusObserved(value.DealStatusExpired),
			},
			wantPhase: deal.PhaseSuccess,
		},
		{
			name:      "Dismiss after success",
			events:    []deal.Event{deal.InitiateSucceeded(), deal.StatusObserved(value.DealStatusClosed), deal.Dismiss()},
			wantPhase: deal.PhaseClosed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			m := deal.NewMachine()
			rq.Equal(deal.PhaseInitiating, m.Phase())

			for _, e := range tc.events {
				m.Apply(e)
			}

			rq.Equal(tc.wantPhase, m.Phase())
			rq.Equal(tc.wantMessage, m.Message())
		})
	}
}

func TestMachineIgnoresUnlistedEvents(t *testing.T) {
	rq := require.New(t)

	m := deal.NewMachine()

	rq.False(m.Apply(deal.Dismiss()))
	rq.False(m.Apply(deal.Retry()))
	rq.False(m.Apply(deal.StatusObserved(value.DealStatusExpired)))
	rq.Equal(deal.PhaseInitiating, m.Phase())

	rq.True(m.Apply(deal.Close()))
	rq.False(m.Apply(deal.Close()))
	rq.False(m.Apply(deal.Event{Kind: "unknown"}))
	rq.Equal(deal.PhaseClosed, m.Phase())
}
