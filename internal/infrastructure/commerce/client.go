package commerce

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"git.appkode.ru/pub/go/failure"
	jsoniter "github.com/json-iterator/go"

	"kiosk_commerce/internal/config"
	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/pkg/contextx"
	"kiosk_commerce/pkg/errcodes"
	"kiosk_commerce/pkg/httpx"
	"kiosk_commerce/pkg/logx"
	"kiosk_commerce/pkg/lox"
)

var (
	json   = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip
	logger = contextx.LoggerFromContextOrDefault          //nolint:gochecknoglobals
)

const maxResponseSize = 1 << 20

// Client talks to the commerce backend. Every call is a single attempt.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	vendorHTTPClient *http.Client
	kioskID          string
	districtID       string
}

func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	return &Client{
		baseURL:          strings.TrimRight(baseURL, "/"),
		httpClient:       httpClient,
		vendorHTTPClient: httpClient,
		kioskID:          "UNKNOWN_KIOSK",
		districtID:       "UNKNOWN_DISTRICT",
	}
}

// New builds a client with logging and, when a secret is set, service auth
// on the vendor calls.
func New(cfg config.Commerce, logFieldMaxLen int) *Client {
	transport := httpx.NewLoggingRoundTripper(
		http.DefaultTransport,
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLogFieldMaxLen(logFieldMaxLen),
	)

	client := NewClient(cfg.BaseURL, &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}).WithKiosk(cfg.KioskID, cfg.DistrictID)

	if cfg.VendorSecret != "" {
		client = client.WithVendorHTTPClient(&http.Client{
			Transport: httpx.NewAuthBearerRoundTripper(
				transport,
				NewServiceAuthenticator(cfg.VendorSecret, cfg.VendorID, cfg.VendorTTL),
			),
			Timeout: cfg.Timeout,
		})
	}

	return client
}

func (c *Client) WithKiosk(kioskID, districtID string) *Client {
	if kioskID != "" {
		c.kioskID = kioskID
	}
	if districtID != "" {
		c.districtID = districtID
	}
	return c
}

// WithVendorHTTPClient sets the client used for scan and vendor-token calls.
func (c *Client) WithVendorHTTPClient(httpClient *http.Client) *Client {
	c.vendorHTTPClient = httpClient
	return c
}

func (c *Client) ListProducts(ctx context.Context) ([]entity.Product, error) {
	var response []productSchema

	if err := c.do(ctx, c.httpClient, listProducts, http.MethodGet, "/commerce/products/", nil, &response); err != nil {
		return nil, err
	}

	return lox.Map(response, productSchema.toDomain), nil
}

func (c *Client) InitiateDeal(ctx context.Context, productID value.ProductID) (entity.InitiatedDeal, error) {
	request := initiateRequest{
		ProductID:  productID,
		KioskID:    c.kioskID,
		DistrictID: c.districtID,
	}

	var response initiateResponse

	if err := c.do(ctx, c.httpClient, initiateDeal, http.MethodPost, "/commerce/deals/initiate/", request, &response); err != nil {
		return entity.InitiatedDeal{}, err
	}

	deal, err := response.toDomain()
	if err != nil {
		return entity.InitiatedDeal{}, invalidReply(initiateDeal, err)
	}

	logger(ctx).Info("deal initiated",
		slog.String(logx.FieldDealID, deal.DealID.String()),
		slog.String(logx.FieldProductID, productID.String()),
		slog.String(logx.FieldDealStatus, deal.Status.String()),
	)

	return deal, nil
}

// GetStatus has no side effects and may be called any number of times.
func (c *Client) GetStatus(ctx context.Context, dealID value.DealID) (entity.DealStatusReport, error) {
	var response statusResponse

	path := "/commerce/deals/" + url.PathEscape(dealID.String()) + "/status/"

	if err := c.do(ctx, c.httpClient, getStatus, http.MethodGet, path, nil, &response); err != nil {
		return entity.DealStatusReport{}, err
	}

	report, err := response.toDomain(dealID)
	if err != nil {
		return entity.DealStatusReport{}, invalidReply(getStatus, err)
	}

	return report, nil
}

// ScanToken submits the token exactly as given.
func (c *Client) ScanToken(ctx context.Context, token value.Token) (entity.ScanResult, error) {
	var response scanResponse

	request := scanRequest{TokenValue: token.String()}

	if err := c.do(ctx, c.vendorHTTPClient, scanToken, http.MethodPost, "/commerce/scan/", request, &response); err != nil {
		return entity.ScanResult{}, err
	}

	result, err := response.toDomain()
	if err != nil {
		return entity.ScanResult{}, invalidReply(scanToken, err)
	}

	return result, nil
}

func (c *Client) GenerateVendorToken(ctx context.Context, dealID value.DealID) (entity.VendorToken, error) {
	var response vendorTokenResponse

	path := "/commerce/deals/" + url.PathEscape(dealID.String()) + "/vendor-token/"

	if err := c.do(ctx, c.vendorHTTPClient, vendorToken, http.MethodPost, path, nil, &response); err != nil {
		return entity.VendorToken{}, err
	}

	token, err := response.toDomain(dealID)
	if err != nil {
		return entity.VendorToken{}, invalidReply(vendorToken, err)
	}

	return token, nil
}

func (c *Client) do(
	ctx context.Context,
	httpClient *http.Client,
	op operation,
	method string,
	path string,
	request any,
	dest any,
) error {
	body := io.Reader(http.NoBody)

	if request != nil {
		b, err := json.Marshal(request)
		if err != nil {
			return fmt.Errorf("json.Marshal: %w", err)
		}

		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("http.NewRequestWithContext: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if request != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return domain.WrapError(
			fmt.Errorf("%s: httpClient.Do: %w", op.name, err),
			errcodes.CommerceUnavailable,
			op.networkMessage,
		)
	}

	defer resp.Body.Close()

	b, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return domain.WrapError(
			fmt.Errorf("%s: io.ReadAll: %w", op.name, err),
			errcodes.CommerceUnavailable,
			op.networkMessage,
		)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return op.backendError(resp.StatusCode, b)
	}

	if err = json.Unmarshal(b, dest); err != nil {
		return invalidReply(op, fmt.Errorf("json.Unmarshal: %w", err))
	}

	return nil
}

func invalidReply(op operation, err error) error {
	code := errcodes.InvalidBackendReply
	if failure.Code(err) == errcodes.InvalidDealStatus {
		code = errcodes.InvalidDealStatus
	}

	return domain.WrapError(fmt.Errorf("%s: %w", op.name, err), code, op.fallbackMessage)
}
