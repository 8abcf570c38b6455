package value

import (
	"fmt"
	"strconv"

	"git.appkode.ru/pub/go/failure"

	"kiosk_commerce/pkg/errcodes"
)

// DealStatus is the backend status of a deal. The strings are case-sensitive.
type DealStatus string

const (
	DealStatusInitiated       DealStatus = "INITIATED"
	DealStatusVendorConfirmed DealStatus = "VENDOR_CONFIRMED"
	DealStatusClosed          DealStatus = "CLOSED"
	DealStatusExpired         DealStatus = "EXPIRED"
	DealStatusCancelled       DealStatus = "CANCELLED"
)

func ParseDealStatus(s string) (DealStatus, error) {
	switch status := DealStatus(s); status {
	case DealStatusInitiated,
		DealStatusVendorConfirmed,
		DealStatusClosed,
		DealStatusExpired,
		DealStatusCancelled:
		return status, nil
	default:
		return "", failure.NewInvalidArgumentError(
			fmt.Sprintf("unknown deal status %q", s),
			failure.WithCode(errcodes.InvalidDealStatus),
			failure.WithDescription("Unknown deal status"),
		)
	}
}

func (s DealStatus) String() string {
	return string(s)
}

// IsTerminal reports whether no further transition is expected from s.
func (s DealStatus) IsTerminal() bool {
	return s == DealStatusClosed || s == DealStatusExpired || s == DealStatusCancelled
}

// IsConfirmed reports whether the vendor has accepted the deal.
func (s DealStatus) IsConfirmed() bool {
	return s == DealStatusVendorConfirmed || s == DealStatusClosed
}

// IsFailed reports whether the deal ended without a confirmation.
func (s DealStatus) IsFailed() bool {
	return s == DealStatusExpired || s == DealStatusCancelled
}

func (s *DealStatus) UnmarshalJSON(b []byte) error {
	raw, err := strconv.Unquote(string(b))
	if err != nil {
		return fmt.Errorf("strconv.Unquote: %w", err)
	}

	status, err := ParseDealStatus(raw)
	if err != nil {
		return err
	}

	*s = status

	return nil
}
