package server

import (
	"context"
	"fmt"
	"net/http"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/deal"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/infrastructure/qrcode"
	"kiosk_commerce/pkg/httpx/reply"
	"kiosk_commerce/pkg/httpx/req"
	"kiosk_commerce/pkg/rest"
)

type catalogService interface {
	List(ctx context.Context) ([]entity.Product, error)
	Get(ctx context.Context, id value.ProductID) (entity.Product, error)
}

type viewRegistry interface {
	Open(ctx context.Context, product entity.Product) (*deal.View, error)
	Get(id string) (*deal.View, error)
	Dismiss(id string) error
	Close(id string) error
}

type qrRenderer interface {
	Render(s string) (qrcode.Code, error)
}

// DealViewServer обслуживает модальные окна сделок на экране киоска.
type DealViewServer struct {
	catalog  catalogService
	registry viewRegistry
	renderer qrRenderer
}

func NewDealViewServer(catalog catalogService, registry viewRegistry, renderer qrRenderer) DealViewServer {
	return DealViewServer{
		catalog:  catalog,
		registry: registry,
		renderer: renderer,
	}
}

func (s DealViewServer) getV1Products(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	products, err := s.catalog.List(ctx)
	if err != nil {
		return fmt.Errorf("catalog.List: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTProducts(products))

	return nil
}

func (s DealViewServer) postV1DealView(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.CreateDealViewRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	productID, err := value.ParseProductID(request.ProductID)
	if err != nil {
		return fmt.Errorf("value.ParseProductID: %w", err)
	}

	product, err := s.catalog.Get(ctx, productID)
	if err != nil {
		return fmt.Errorf("catalog.Get: %w", err)
	}

	view, err := s.registry.Open(ctx, product)
	if err != nil {
		return fmt.Errorf("registry.Open: %w", err)
	}

	reply.JSON(ctx, w, http.StatusCreated, newRESTDealView(view.Snapshot()))

	return nil
}

func (s DealViewServer) getV1DealView(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	view, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("registry.Get: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDealView(view.Snapshot()))

	return nil
}

func (s DealViewServer) getV1DealViewQR(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	view, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("registry.Get: %w", err)
	}

	token, err := view.Token()
	if err != nil {
		return fmt.Errorf("view.Token: %w", err)
	}

	code, err := s.renderer.Render(token.String())
	if err != nil {
		return fmt.Errorf("renderer.Render: %w", err)
	}

	reply.PNG(ctx, w, code.PNG)

	return nil
}

func (s DealViewServer) postV1DealViewRetry(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	view, err := s.registry.Get(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("registry.Get: %w", err)
	}

	if err = view.Retry(ctx); err != nil {
		return fmt.Errorf("view.Retry: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, newRESTDealView(view.Snapshot()))

	return nil
}

func (s DealViewServer) postV1DealViewDismiss(w http.ResponseWriter, r *http.Request) error {
	if err := s.registry.Dismiss(r.PathValue("id")); err != nil {
		return fmt.Errorf("registry.Dismiss: %w", err)
	}

	reply.NoContent(w)

	return nil
}

func (s DealViewServer) deleteV1DealView(w http.ResponseWriter, r *http.Request) error {
	if err := s.registry.Close(r.PathValue("id")); err != nil {
		return fmt.Errorf("registry.Close: %w", err)
	}

	reply.NoContent(w)

	return nil
}
