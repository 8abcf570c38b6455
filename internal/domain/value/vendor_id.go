package value

import (
	"bytes"
	"fmt"
)

// VendorID is the backend reference to the vendor selling a product. Like
// ProductID it is an integer on the wire and opaque here.
type VendorID string

func (id VendorID) String() string {
	return string(id)
}

func (id VendorID) IsZero() bool {
	return id == ""
}

func (id *VendorID) UnmarshalJSON(b []byte) error {
	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		*id = ""
		return nil
	}

	raw, err := unquoteScalar(b)
	if err != nil {
		return fmt.Errorf("vendor id: %w", err)
	}

	*id = VendorID(raw)

	return nil
}
