package server

import (
	"time"

	"github.com/samber/lo"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/deal"
	"kiosk_commerce/pkg/rest"
)

func newRESTProduct(product entity.Product) rest.Product {
	return rest.Product{
		ID:          product.ID.String(),
		Title:       product.Title,
		Description: product.Description,
		Price:       product.Price.String(),
		VendorID:    product.VendorID.String(),
	}
}

func newRESTProducts(products []entity.Product) []rest.Product {
	return lo.Map(products, func(p entity.Product, _ int) rest.Product {
		return newRESTProduct(p)
	})
}

func newRESTDealView(snapshot deal.Snapshot) rest.DealView {
	return rest.DealView{
		ID:         snapshot.ID,
		Phase:      snapshot.Phase.String(),
		Product:    newRESTProduct(snapshot.Product),
		DealID:     snapshot.DealID.String(),
		TokenValue: snapshot.Token.String(),
		DeepLink:   snapshot.DeepLink,
		Status:     snapshot.Status.String(),
		Amount:     snapshot.Amount.String(),
		Message:    snapshot.Message,
		ExpiresAt:  timePtr(snapshot.ExpiresAt),
		Polling:    snapshot.Polling,
	}
}

func newRESTTransitions(transitions []entity.Transition) []rest.Transition {
	return lo.Map(transitions, func(t entity.Transition, _ int) rest.Transition {
		return rest.Transition{
			DealID:     t.DealID.String(),
			ProductID:  t.ProductID.String(),
			Product:    t.Report.Product,
			Amount:     t.Report.Amount.String(),
			From:       t.From.String(),
			To:         t.To.String(),
			ObservedAt: t.ObservedAt,
		}
	})
}

func timePtr(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}

	return &t
}
