package entity

import "kiosk_commerce/internal/domain/value"

// Product is a catalog item owned by the commerce backend.
type Product struct {
	ID          value.ProductID
	Title       string
	Description string
	Price       value.Amount
	VendorID    value.VendorID
	// Active is false for products the vendor has withdrawn.
	Active bool
}
