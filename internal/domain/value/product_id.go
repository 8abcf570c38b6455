package value

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"git.appkode.ru/pub/go/failure"

	"kiosk_commerce/pkg/errcodes"
)

// ProductID identifies a catalog product. The backend uses integer keys, but
// the kiosk treats them as opaque and accepts both JSON numbers and strings.
type ProductID string

func ParseProductID(s string) (ProductID, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, "/?#") {
		return "", failure.NewInvalidArgumentError(
			fmt.Sprintf("invalid product id %q", s),
			failure.WithCode(errcodes.InvalidProductID),
			failure.WithDescription("Invalid product id"),
		)
	}

	return ProductID(s), nil
}

func (id ProductID) String() string {
	return string(id)
}

func (id ProductID) IsNumeric() bool {
	_, err := strconv.ParseInt(string(id), 10, 64)
	return err == nil
}

// MarshalJSON writes numeric ids as JSON numbers, as the backend expects.
func (id ProductID) MarshalJSON() ([]byte, error) {
	if id.IsNumeric() {
		return []byte(id), nil
	}

	return []byte(strconv.Quote(string(id))), nil
}

func (id *ProductID) UnmarshalJSON(b []byte) error {
	raw, err := unquoteScalar(b)
	if err != nil {
		return fmt.Errorf("product id: %w", err)
	}

	parsed, err := ParseProductID(raw)
	if err != nil {
		return err
	}

	*id = parsed

	return nil
}

// unquoteScalar returns the text of a JSON string or number.
func unquoteScalar(b []byte) (string, error) {
	b = bytes.TrimSpace(b)

	if len(b) > 0 && b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return "", fmt.Errorf("strconv.Unquote: %w", err)
		}

		return s, nil
	}

	if _, err := strconv.ParseFloat(string(b), 64); err != nil {
		return "", fmt.Errorf("not a number or string: %s", b)
	}

	return string(b), nil
}
