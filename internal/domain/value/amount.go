package value

import (
	"fmt"
	"strconv"
)

// Amount is a display-only money value. The backend serialises decimals as
// strings and integers as numbers, the text is kept as received.
type Amount string

func (a Amount) String() string {
	return string(a)
}

func (a Amount) IsZero() bool {
	return a == ""
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return []byte(strconv.Quote(string(a))), nil
}

func (a *Amount) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*a = ""
		return nil
	}

	raw, err := unquoteScalar(b)
	if err != nil {
		return fmt.Errorf("amount: %w", err)
	}

	*a = Amount(raw)

	return nil
}
