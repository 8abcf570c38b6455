package deal

import (
	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/domain/value"
)

// Phase is what a deal view shows.
type Phase string

const (
	PhaseInitiating Phase = "INITIATING"
	PhaseQRDisplay  Phase = "QR_DISPLAY"
	PhaseSuccess    Phase = "SUCCESS"
	PhaseError      Phase = "ERROR"
	// PhaseClosed means the view was dismissed or closed.
	PhaseClosed Phase = "CLOSED"
)

func (p Phase) String() string {
	return string(p)
}

type EventKind string

const (
	EventInitiateSucceeded EventKind = "initiate_succeeded"
	EventInitiateFailed    EventKind = "initiate_failed"
	EventStatusObserved    EventKind = "status_observed"
	EventRetry             EventKind = "retry"
	EventDismiss           EventKind = "dismiss"
	EventClose             EventKind = "close"
)

type Event struct {
	Kind EventKind
	// Status is set for EventStatusObserved.
	Status value.DealStatus
	// Message is the server message for EventInitiateFailed, if any.
	Message string
}

func InitiateSucceeded() Event { return Event{Kind: EventInitiateSucceeded} }

func InitiateFailed(message string) Event {
	return Event{Kind: EventInitiateFailed, Message: message}
}

func StatusObserved(status value.DealStatus) Event {
	return Event{Kind: EventStatusObserved, Status: status}
}

func Retry() Event   { return Event{Kind: EventRetry} }
func Dismiss() Event { return Event{Kind: EventDismiss} }
func Close() Event   { return Event{Kind: EventClose} }

type row struct {
	from  Phase
	kind  EventKind
	match func(value.DealStatus) bool
	to    Phase
}

// transitions is the only place the view lifecycle is defined. Pairs not
// listed here are ignored.
//
//nolint:gochecknoglobals
var transitions = []row{
	{from: PhaseInitiating, kind: EventInitiateSucceeded, to: PhaseQRDisplay},
	{from: PhaseInitiating, kind: EventInitiateFailed, to: PhaseError},
	{from: PhaseQRDisplay, kind: EventStatusObserved, match: value.DealStatus.IsConfirmed, to: PhaseSuccess},
	{from: PhaseQRDisplay, kind: EventStatusObserved, match: value.DealStatus.IsFailed, to: PhaseError},
	{from: PhaseError, kind: EventRetry, to: PhaseInitiating},
	{from: PhaseSuccess, kind: EventDismiss, to: PhaseClosed},
	{from: PhaseInitiating, kind: EventClose, to: PhaseClosed},
	{from: PhaseQRDisplay, kind: EventClose, to: PhaseClosed},
	{from: PhaseSuccess, kind: EventClose, to: PhaseClosed},
	{from: PhaseError, kind: EventClose, to: PhaseClosed},
}

// Next returns the phase reached from p on e, and false when the pair is not
// in the table.
func Next(p Phase, e Event) (Phase, bool) {
	for _, r := range transitions {
		if r.from != p || r.kind != e.Kind {
			continue
		}

		if r.match != nil && !r.match(e.Status) {
			continue
		}

		return r.to, true
	}

	return p, false
}

// Machine holds the current phase and the message shown in ERROR. It is not
// safe for concurrent use.
type Machine struct {
	phase   Phase
	message string
}

func NewMachine() *Machine {
	return &Machine{phase: PhaseInitiating}
}

func (m *Machine) Phase() Phase {
	return m.phase
}

// Message is the error text, empty outside PhaseError.
func (m *Machine) Message() string {
	return m.message
}

// Apply moves the machine and reports whether e was applied.
func (m *Machine) Apply(e Event) bool {
	next, ok := Next(m.phase, e)
	if !ok {
		return false
	}

	m.phase = next
	m.message = ""

	if next == PhaseError {
		m.message = errorMessage(e)
	}

	return true
}

func errorMessage(e Event) string {
	if e.Kind == EventInitiateFailed {
		if e.Message != "" {
			return e.Message
		}

		return domain.MessageCommerceUnavailable
	}

	return domain.MessageDealFailed
}
