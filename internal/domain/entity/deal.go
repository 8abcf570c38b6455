package entity

import (
	"time"

	"kiosk_commerce/internal/domain/value"
)

// InitiatedDeal is the backend answer to a traveler starting a deal.
type InitiatedDeal struct {
	DealID    value.DealID
	Token     value.Token
	ExpiresAt time.Time
	Status    value.DealStatus
}

// DealStatusReport is one observation of a deal's status. Product is the
// product title.
type DealStatusReport struct {
	DealID  value.DealID
	Status  value.DealStatus
	Product string
	Amount  value.Amount
}

// ScanResult is the backend answer to a vendor scan. Status is empty when the
// backend does not report it.
type ScanResult struct {
	Message string
	DealID  value.DealID
	Status  value.DealStatus
}

// VendorToken is the confirmation token shown by the vendor to the traveler.
type VendorToken struct {
	DealID    value.DealID
	Token     value.Token
	ExpiresAt time.Time
}

// Transition is a change of the observed status of a deal. ProductID is filled
// in by the view that owns the deal.
type Transition struct {
	DealID     value.DealID
	ProductID  value.ProductID
	From       value.DealStatus
	To         value.DealStatus
	Report     DealStatusReport
	ObservedAt time.Time
}
