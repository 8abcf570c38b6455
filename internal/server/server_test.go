package server_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/deal"
	"kiosk_commerce/internal/domain/service/vendor"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/infrastructure/persistence"
	"kiosk_commerce/internal/infrastructure/qrcode"
	"kiosk_commerce/internal/infrastructure/scanguard"
	"kiosk_commerce/internal/server"
	"kiosk_commerce/internal/worker"
	"kiosk_commerce/pkg/dbtest"
	"kiosk_commerce/pkg/errcodes"
	"kiosk_commerce/pkg/rest"
	"kiosk_commerce/pkg/tests"
)

type fakeCommerce struct {
	mu          sync.Mutex
	products    []entity.Product
	initiateErr error
	scanResult  entity.ScanResult
	scanErr     error
	vendorErr   error
}

func (f *fakeCommerce) ListProducts(context.Context) ([]entity.Product, error) {
	return f.products, nil
}

func (f *fakeCommerce) InitiateDeal(_ context.Context, productID value.ProductID) (entity.InitiatedDeal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.initiateErr != nil {
		return entity.InitiatedDeal{}, f.initiateErr
	}

	return entity.InitiatedDeal{
		DealID:    "D1",
		Token:     "T1",
		Status:    value.DealStatusInitiated,
		ExpiresAt: time.Date(2026, 5, 1, 10, 15, 0, 0, time.UTC),
	}, nil
}

func (f *fakeCommerce) GetStatus(_ context.Context, dealID value.DealID) (entity.DealStatusReport, error) {
	return entity.DealStatusReport{DealID: dealID, Status: value.DealStatusInitiated}, nil
}

func (f *fakeCommerce) ScanToken(context.Context, value.Token) (entity.ScanResult, error) {
	return f.scanResult, f.scanErr
}

func (f *fakeCommerce) GenerateVendorToken(_ context.Context, dealID value.DealID) (entity.VendorToken, error) {
	if f.vendorErr != nil {
		return entity.VendorToken{}, f.vendorErr
	}

	return entity.VendorToken{DealID: dealID, Token: "V1"}, nil
}

type testServer struct {
	client  tests.APIClient
	backend *fakeCommerce
	journal *persistence.DealJournalRepository
}

func newTestServer(t *testing.T, backend *fakeCommerce) testServer {
	t.Helper()

	db := dbtest.NewSQLite(t, "../../migrations/0001_deal_transitions.sql")
	journal := persistence.NewDealJournalRepository(db)

	registry := deal.NewRegistry(context.Background(), deal.Dependencies{
		Client: backend,
		Pollers: func(id value.DealID, initial value.DealStatus, fn func(context.Context, entity.Transition)) deal.Poller {
			return worker.NewStatusPoller(backend, id, initial, fn).WithClock(clock.NewMock())
		},
		Sink:          deal.NewFanOut().With("journal", deal.SinkFunc(journal.Record)),
		MobileBaseURL: "https://kiosk.example.uz",
	})
	t.Cleanup(registry.CloseAll)

	renderer := qrcode.NewRenderer()
	submitter := vendor.NewSubmitter(backend).WithGuard(scanguard.NewMemoryGuard(time.Second))

	srv := server.NewServer(
		server.NewDealViewServer(deal.NewCatalog(backend, time.Minute), registry, renderer),
		server.NewVendorServer(submitter, renderer),
		server.NewJournalServer(journal),
	)

	router := chi.NewRouter()
	srv.RegisterRoutes(router)

	httpServer := httptest.NewServer(router)
	t.Cleanup(httpServer.Close)

	return testServer{
		client:  tests.NewAPIClient(httpServer.URL, httpServer.Client()),
		backend: backend,
		journal: journal,
	}
}

func TestProducts(t *testing.T) {
	rq := require.New(t)

	ts := newTestServer(t, &fakeCommerce{
		products: []entity.Product{
			{ID: "1", Title: "Boat tour", Price: "25.00", VendorID: "7", Active: true},
			{ID: "2", Title: "Closed stall", Price: "5.00", VendorID: "7"},
		},
	})

	var products []rest.Product

	resp, err := ts.client.Get(context.Background(), "/v1/products", nil, &products, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]rest.Product{{ID: "1", Title: "Boat tour", Price: "25.00", VendorID: "7"}}, products)
}

func TestDealViewLifecycle(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts := newTestServer(t, &fakeCommerce{
		products: []entity.Product{{ID: "1", Title: "Boat tour", Price: "25.00", Active: true}},
	})

	var view rest.DealView

	resp, err := ts.client.Post(ctx, "/v1/deal-views", nil, rest.CreateDealViewRequest{ProductID: "1"}, &view, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal(deal.PhaseQRDisplay.String(), view.Phase)
	rq.Equal("D1", view.DealID)
	rq.Equal("T1", view.TokenValue)
	rq.Equal("https://kiosk.example.uz/m/deal/T1", view.DeepLink)
	rq.Equal("25.00", view.Amount)
	rq.NotNil(view.ExpiresAt)
	rq.True(view.Polling)

	png := fetchQR(t, ts, view.ID)
	rq.Equal(http.StatusOK, png.status)
	rq.Equal("image/png", png.contentType)
	rq.NotEmpty(png.body)

	var got rest.DealView

	resp, err = ts.client.Get(ctx, "/v1/deal-views/"+view.ID, nil, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(view.ID, got.ID)

	var dismissErr rest.Error

	resp, err = ts.client.Post(ctx, "/v1/deal-views/"+view.ID+"/dismiss", nil, nil, nil, &dismissErr)
	rq.NoError(err)
	rq.Equal(http.StatusConflict, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ViewTransition), dismissErr.Code)

	resp, err = ts.client.Delete(ctx, "/v1/deal-views/"+view.ID, nil, nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusNoContent, resp.StatusCode)

	var notFound rest.Error

	resp, err = ts.client.Get(ctx, "/v1/deal-views/"+view.ID, nil, nil, &notFound)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ViewNotFound), notFound.Code)
}

func TestDealViewInitiationFailure(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	backend := &fakeCommerce{
		products:    []entity.Product{{ID: "1", Title: "Boat tour", Active: true}},
		initiateErr: errors.New("dial tcp: connection refused"),
	}
	ts := newTestServer(t, backend)

	var view rest.DealView

	resp, err := ts.client.Post(ctx, "/v1/deal-views", nil, rest.CreateDealViewRequest{ProductID: "1"}, &view, nil)
	rq.NoError(err)
	rq.Equal(http.StatusCreated, resp.StatusCode)
	rq.Equal(deal.PhaseError.String(), view.Phase)
	rq.Equal(domain.MessageCommerceUnavailable, view.Message)
	rq.Empty(view.TokenValue)

	png := fetchQR(t, ts, view.ID)
	rq.Equal(http.StatusConflict, png.status)

	backend.mu.Lock()
	backend.initiateErr = nil
	backend.mu.Unlock()

	var retried rest.DealView

	resp, err = ts.client.Post(ctx, "/v1/deal-views/"+view.ID+"/retry", nil, nil, &retried, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(deal.PhaseQRDisplay.String(), retried.Phase)
	rq.Equal("T1", retried.TokenValue)
}

func TestCreateDealViewValidation(t *testing.T) {
	rq := require.New(t)

	ts := newTestServer(t, &fakeCommerce{
		products: []entity.Product{{ID: "1", Title: "Boat tour", Active: true}},
	})

	testCases := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   rest.ErrorCode
	}{
		{
			name:       "Broken JSON",
			body:       `{"product_id":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   rest.ErrorCode(errcodes.ValidationError),
		},
		{
			name:       "Missing product",
			body:       `{}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   rest.ErrorCode(errcodes.ValidationError),
		},
		{
			name:       "Unknown product",
			body:       `{"product_id":"404"}`,
			wantStatus: http.StatusNotFound,
			wantCode:   rest.ErrorCode(errcodes.ProductUnavailable),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			var apiErr rest.Error

			resp, err := ts.client.PostJSON(context.Background(), "/v1/deal-views", nil, tc.body, nil, &apiErr)
			rq.NoError(err)
			rq.Equal(tc.wantStatus, resp.StatusCode)
			rq.Equal(tc.wantCode, apiErr.Code)
		})
	}
}

func TestVendorScan(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name        string
		body        rest.ScanRequest
		scanResult  entity.ScanResult
		scanErr     error
		wantStatus  int
		wantMessage string
		wantCode    rest.ErrorCode
		wantConfirm bool
	}{
		{
			name:        "Accepted",
			body:        rest.ScanRequest{TokenValue: "  T1 "},
			scanResult:  entity.ScanResult{Message: "Deal confirmed", DealID: "D1", Status: value.DealStatusVendorConfirmed},
			wantStatus:  http.StatusOK,
			wantMessage: "Deal confirmed",
			wantConfirm: true,
		},
		{
			name:        "Rejected message is verbatim",
			body:        rest.ScanRequest{TokenValue: "T2"},
			scanErr:     domain.NewError(errcodes.InvalidToken, "Invalid or expired token"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "Invalid or expired token",
			wantCode:    rest.ErrorCode(errcodes.InvalidToken),
		},
		{
			name:       "Blank input",
			body:       rest.ScanRequest{TokenValue: "   "},
			wantStatus: http.StatusBadRequest,
			wantCode:   rest.ErrorCode(errcodes.ValidationError),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			ts := newTestServer(t, &fakeCommerce{scanResult: tc.scanResult, scanErr: tc.scanErr})

			var (
				result rest.ScanResponse
				apiErr rest.Error
			)

			resp, err := ts.client.Post(context.Background(), "/v1/vendor/scan", nil, tc.body, &result, &apiErr)
			rq.NoError(err)
			rq.Equal(tc.wantStatus, resp.StatusCode)

			if tc.wantCode != "" {
				rq.Equal(tc.wantCode, apiErr.Code)

				if tc.wantMessage != "" {
					rq.Equal(tc.wantMessage, apiErr.Message)
				}

				return
			}

			rq.Equal(tc.wantMessage, result.Message)
			rq.Equal(tc.wantConfirm, result.CanGenerateConfirmation)
		})
	}
}

func TestVendorDealToken(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts := newTestServer(t, &fakeCommerce{})

	var token rest.VendorToken

	resp, err := ts.client.Post(ctx, "/v1/vendor/deals/D1/token", nil, nil, &token, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal("D1", token.DealID)
	rq.Equal("V1", token.TokenValue)
	rq.NotEmpty(token.QRPNG)
	rq.Nil(token.ExpiresAt)

	ts = newTestServer(t, &fakeCommerce{
		vendorErr: domain.NewError(errcodes.DealNotConfirmed, "Deal must be confirmed by the vendor first"),
	})

	var apiErr rest.Error

	resp, err = ts.client.Post(ctx, "/v1/vendor/deals/D1/token", nil, nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusConflict, resp.StatusCode)
	rq.Equal("Deal must be confirmed by the vendor first", apiErr.Message)
}

func TestDealTransitions(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	ts := newTestServer(t, &fakeCommerce{})

	observedAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	rq.NoError(ts.journal.Record(ctx, entity.Transition{
		DealID:     "D1",
		ProductID:  "1",
		From:       value.DealStatusInitiated,
		To:         value.DealStatusVendorConfirmed,
		Report:     entity.DealStatusReport{DealID: "D1", Status: value.DealStatusVendorConfirmed, Product: "Boat tour"},
		ObservedAt: observedAt,
	}))

	var transitions []rest.Transition

	resp, err := ts.client.Get(ctx, "/v1/deals/D1/transitions", nil, &transitions, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(transitions, 1)
	rq.Equal("VENDOR_CONFIRMED", transitions[0].To)
	rq.Equal("Boat tour", transitions[0].Product)

	resp, err = ts.client.Get(ctx, "/v1/transitions?limit=10", nil, &transitions, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(transitions, 1)

	var apiErr rest.Error

	resp, err = ts.client.Get(ctx, "/v1/transitions?limit=0", nil, nil, &apiErr)
	rq.NoError(err)
	rq.Equal(http.StatusBadRequest, resp.StatusCode)
}

type qrResponse struct {
	status      int
	contentType string
	body        []byte
}

func fetchQR(t *testing.T, ts testServer, viewID string) qrResponse {
	t.Helper()

	// APIClient декодирует только JSON, PNG читаем напрямую.
	resp, err := ts.client.Raw(context.Background(), http.MethodGet, "/v1/deal-views/"+viewID+"/qr.png")
	require.NoError(t, err)

	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return qrResponse{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        body,
	}
}
