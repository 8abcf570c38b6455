package commerce

import (
	"fmt"
	"time"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
)

type productSchema struct {
	ID          value.ProductID `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       value.Amount    `json:"price"`
	VendorID    value.VendorID  `json:"vendor_id"`
	// Active отсутствует в старых ответах, тогда товар считается активным
	Active *bool `json:"active"`
}

func (s productSchema) toDomain() entity.Product {
	return entity.Product{
		ID:          s.ID,
		Title:       s.Title,
		Description: s.Description,
		Price:       s.Price,
		VendorID:    s.VendorID,
		Active:      s.Active == nil || *s.Active,
	}
}

type initiateRequest struct {
	ProductID  value.ProductID `json:"product_id"`
	KioskID    string          `json:"kiosk_id"`
	DistrictID string          `json:"district_id"`
}

type initiateResponse struct {
	DealID     string           `json:"deal_id"`
	TokenValue string           `json:"token_value"`
	ExpiresAt  string           `json:"expires_at"`
	Status     value.DealStatus `json:"status"`
}

func (s initiateResponse) toDomain() (entity.InitiatedDeal, error) {
	dealID, err := value.ParseDealID(s.DealID)
	if err != nil {
		return entity.InitiatedDeal{}, fmt.Errorf("value.ParseDealID: %w", err)
	}

	if s.TokenValue == "" {
		return entity.InitiatedDeal{}, fmt.Errorf("deal %s: empty token_value", dealID)
	}

	expiresAt, err := parseTimestamp(s.ExpiresAt)
	if err != nil {
		return entity.InitiatedDeal{}, err
	}

	status := s.Status
	if status == "" {
		status = value.DealStatusInitiated
	}

	return entity.InitiatedDeal{
		DealID:    dealID,
		Token:     value.Token(s.TokenValue),
		ExpiresAt: expiresAt,
		Status:    status,
	}, nil
}

type statusResponse struct {
	ID      string           `json:"id"`
	Status  value.DealStatus `json:"status"`
	Product string           `json:"product"`
	Amount  value.Amount     `json:"amount"`
}

func (s statusResponse) toDomain(requested value.DealID) (entity.DealStatusReport, error) {
	if s.Status == "" {
		return entity.DealStatusReport{}, fmt.Errorf("deal %s: missing status", requested)
	}

	dealID := requested
	if s.ID != "" {
		id, err := value.ParseDealID(s.ID)
		if err != nil {
			return entity.DealStatusReport{}, fmt.Errorf("value.ParseDealID: %w", err)
		}

		dealID = id
	}

	return entity.DealStatusReport{
		DealID:  dealID,
		Status:  s.Status,
		Product: s.Product,
		Amount:  s.Amount,
	}, nil
}

type scanRequest struct {
	TokenValue string `json:"token_value"`
}

type scanResponse struct {
	Message string           `json:"message"`
	DealID  string           `json:"deal_id"`
	Status  value.DealStatus `json:"status"`
}

func (s scanResponse) toDomain() (entity.ScanResult, error) {
	dealID, err := value.ParseDealID(s.DealID)
	if err != nil {
		return entity.ScanResult{}, fmt.Errorf("value.ParseDealID: %w", err)
	}

	return entity.ScanResult{
		Message: s.Message,
		DealID:  dealID,
		Status:  s.Status,
	}, nil
}

type vendorTokenResponse struct {
	DealID     string `json:"deal_id"`
	TokenValue string `json:"token_value"`
	ExpiresAt  string `json:"expires_at"`
}

func (s vendorTokenResponse) toDomain(requested value.DealID) (entity.VendorToken, error) {
	if s.TokenValue == "" {
		return entity.VendorToken{}, fmt.Errorf("deal %s: empty token_value", requested)
	}

	expiresAt, err := parseTimestamp(s.ExpiresAt)
	if err != nil {
		return entity.VendorToken{}, err
	}

	return entity.VendorToken{
		DealID:    requested,
		Token:     value.Token(s.TokenValue),
		ExpiresAt: expiresAt,
	}, nil
}

// errorSchema covers both {"error": ...} and the framework's {"detail": ...}.
type errorSchema struct {
	Error   string `json:"error"`
	Detail  string `json:"detail"`
	Message string `json:"message"`
}

func (s errorSchema) text() string {
	switch {
	case s.Error != "":
		return s.Error
	case s.Detail != "":
		return s.Detail
	default:
		return s.Message
	}
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("time.Parse(expires_at): %w", err)
	}

	return t, nil
}
