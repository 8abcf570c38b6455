package events

import (
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals

const EventTypeDealTransition = "deal.transition"

// TransitionEvent is the wire form of a deal transition. The token never leaves
// the kiosk.
type TransitionEvent struct {
	Type       string    `json:"type"`
	DealID     string    `json:"deal_id"`
	ProductID  string    `json:"product_id,omitempty"`
	Product    string    `json:"product,omitempty"`
	Amount     string    `json:"amount,omitempty"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	ObservedAt time.Time `json:"observed_at"`
}

func NewTransitionEvent(t entity.Transition) TransitionEvent {
	observedAt := t.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now()
	}

	return TransitionEvent{
		Type:       EventTypeDealTransition,
		DealID:     t.DealID.String(),
		ProductID:  t.ProductID.String(),
		Product:    t.Report.Product,
		Amount:     t.Report.Amount.String(),
		From:       t.From.String(),
		To:         t.To.String(),
		ObservedAt: observedAt.UTC(),
	}
}

func Encode(t entity.Transition) ([]byte, error) {
	b, err := json.Marshal(NewTransitionEvent(t))
	if err != nil {
		return nil, fmt.Errorf("json.Marshal: %w", err)
	}

	return b, nil
}

// Decode восстанавливает переход из события. Статусы проверяются.
func Decode(b []byte) (entity.Transition, error) {
	var e TransitionEvent
	if err := json.Unmarshal(b, &e); err != nil {
		return entity.Transition{}, fmt.Errorf("json.Unmarshal: %w", err)
	}

	dealID, err := value.ParseDealID(e.DealID)
	if err != nil {
		return entity.Transition{}, fmt.Errorf("value.ParseDealID: %w", err)
	}

	to, err := value.ParseDealStatus(e.To)
	if err != nil {
		return entity.Transition{}, fmt.Errorf("value.ParseDealStatus: %w", err)
	}

	var from value.DealStatus
	if e.From != "" {
		if from, err = value.ParseDealStatus(e.From); err != nil {
			return entity.Transition{}, fmt.Errorf("value.ParseDealStatus: %w", err)
		}
	}

	return entity.Transition{
		DealID:    dealID,
		ProductID: value.ProductID(e.ProductID),
		From:      from,
		To:        to,
		Report: entity.DealStatusReport{
			DealID:  dealID,
			Status:  to,
			Product: e.Product,
			Amount:  value.Amount(e.Amount),
		},
		ObservedAt: e.ObservedAt,
	}, nil
}
