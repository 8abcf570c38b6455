package value

import (
	"fmt"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"kiosk_commerce/pkg/errcodes"
)

// DealID is an opaque identifier issued by the commerce backend.
type DealID string

func ParseDealID(s string) (DealID, error) {
	if s == "" || strings.TrimSpace(s) != s || strings.ContainsAny(s, "/?#") {
		return "", failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid deal id %q", s),
			failure.WithCode(errcodes.InvalidDealID),
			failure.WithDescription("Invalid deal id"),
		)
	}

	return DealID(s), nil
}

func (id DealID) String() string {
	return string(id)
}

func (id DealID) IsZero() bool {
	return id == ""
}
