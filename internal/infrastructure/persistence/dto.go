package persistence

import (
	"fmt"
	"time"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
)

// transitionSchema: строка таблицы deal_transitions. Токен сюда не попадает.
type transitionSchema struct {
	DealID     string    `db:"deal_id"`
	ProductID  string    `db:"product_id"`
	Product    string    `db:"product"`
	Amount     string    `db:"amount"`
	FromStatus string    `db:"from_status"`
	ToStatus   string    `db:"to_status"`
	ObservedAt time.Time `db:"observed_at"`
}

func fromTransition(t entity.Transition) transitionSchema {
	observedAt := t.ObservedAt
	if observedAt.IsZero() {
		observedAt = time.Now()
	}

	return transitionSchema{
		DealID:     t.DealID.String(),
		ProductID:  t.ProductID.String(),
		Product:    t.Report.Product,
		Amount:     t.Report.Amount.String(),
		FromStatus: t.From.String(),
		ToStatus:   t.To.String(),
		ObservedAt: observedAt.UTC(),
	}
}

func (s transitionSchema) toDomain() (entity.Transition, error) {
	to, err := value.ParseDealStatus(s.ToStatus)
	if err != nil {
		return entity.Transition{}, fmt.Errorf("value.ParseDealStatus(to): %w", err)
	}

	var from value.DealStatus
	if s.FromStatus != "" {
		if from, err = value.ParseDealStatus(s.FromStatus); err != nil {
			return entity.Transition{}, fmt.Errorf("value.ParseDealStatus(from): %w", err)
		}
	}

	dealID := value.DealID(s.DealID)

	return entity.Transition{
		DealID:    dealID,
		ProductID: value.ProductID(s.ProductID),
		From:      from,
		To:        to,
		Report: entity.DealStatusReport{
			DealID:  dealID,
			Status:  to,
			Product: s.Product,
			Amount:  value.Amount(s.Amount),
		},
		ObservedAt: s.ObservedAt,
	}, nil
}
