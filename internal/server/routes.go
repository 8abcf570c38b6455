package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"kiosk_commerce/pkg/httpx/reply"
)

func (s Server) RegisterRoutes(r chi.Router) { //nolint:funlen
	r.Route("/", func(r chi.Router) {
		r.Route("/v1", func(r chi.Router) {
			r.Get("/products", handler(s.getV1Products))

			// экран киоска
			r.Route("/deal-views", func(r chi.Router) {
				r.Post("/", handler(s.postV1DealView))
				r.Get("/{id}", handler(s.getV1DealView))
				r.Delete("/{id}", handler(s.deleteV1DealView))
				r.Get("/{id}/qr.png", handler(s.getV1DealViewQR))
				r.Post("/{id}/retry", handler(s.postV1DealViewRetry))
				r.Post("/{id}/dismiss", handler(s.postV1DealViewDismiss))
			})

			// консоль вендора
			r.Route("/vendor", func(r chi.Router) {
				r.Post("/scan", handler(s.postV1VendorScan))
				r.Post("/deals/{id}/token", handler(s.postV1VendorDealToken))
			})

			if s.journal != nil {
				r.Get("/transitions", handler(s.getV1Transitions))
				r.Get("/deals/{id}/transitions", handler(s.getV1DealTransitions))
			}
		})
	})
}

func handler(f func(http.ResponseWriter, *http.Request) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := f(w, r); err != nil {
			reply.Error(r.Context(), w, err)
		}
	}
}
