package server

import (
	"context"
	"fmt"
	"net/http"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/vendor"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/pkg/httpx/reply"
	"kiosk_commerce/pkg/httpx/req"
	"kiosk_commerce/pkg/rest"
)

type scanSubmitter interface {
	Submit(ctx context.Context, raw string) (vendor.Outcome, error)
	GenerateConfirmation(ctx context.Context, dealID value.DealID) (entity.VendorToken, error)
}

// VendorServer обслуживает консоль вендора.
type VendorServer struct {
	submitter scanSubmitter
	renderer  qrRenderer
}

func NewVendorServer(submitter scanSubmitter, renderer qrRenderer) VendorServer {
	return VendorServer{
		submitter: submitter,
		renderer:  renderer,
	}
}

func (s VendorServer) postV1VendorScan(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	var request rest.ScanRequest

	if err := req.Read(r, &request); err != nil {
		return fmt.Errorf("req.Read: %w", err)
	}

	outcome, err := s.submitter.Submit(ctx, request.TokenValue)
	if err != nil {
		return fmt.Errorf("submitter.Submit: %w", err)
	}

	reply.JSON(ctx, w, http.StatusOK, rest.ScanResponse{
		Message:                 outcome.Message,
		DealID:                  outcome.DealID.String(),
		Status:                  outcome.Status.String(),
		CanGenerateConfirmation: outcome.CanGenerateConfirmation,
	})

	return nil
}

func (s VendorServer) postV1VendorDealToken(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	dealID, err := value.ParseDealID(r.PathValue("id"))
	if err != nil {
		return fmt.Errorf("value.ParseDealID: %w", err)
	}

	token, err := s.submitter.GenerateConfirmation(ctx, dealID)
	if err != nil {
		return fmt.Errorf("submitter.GenerateConfirmation: %w", err)
	}

	code, err := s.renderer.Render(token.Token.String())
	if err != nil {
		return fmt.Errorf("renderer.Render: %w", err)
	}

	if token.DealID.IsZero() {
		token.DealID = dealID
	}

	reply.JSON(ctx, w, http.StatusOK, rest.VendorToken{
		DealID:     token.DealID.String(),
		TokenValue: token.Token.String(),
		ExpiresAt:  timePtr(token.ExpiresAt),
		QRPNG:      code.PNG,
	})

	return nil
}
