package commerce

import (
	"fmt"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"kiosk_commerce/internal/domain"
	"kiosk_commerce/pkg/errcodes"
)

// operation describes how one backend call reports failures.
type operation struct {
	name            string
	networkMessage  string
	fallbackMessage string
	codes           map[int]failure.ErrorCode
}

//nolint:gochecknoglobals
var (
	listProducts = operation{
		name:            "listProducts",
		networkMessage:  domain.MessageCommerceUnavailable,
		fallbackMessage: domain.MessageCommerceUnavailable,
	}
	initiateDeal = operation{
		name:            "initiateDeal",
		networkMessage:  domain.MessageCommerceUnavailable,
		fallbackMessage: domain.MessageCommerceUnavailable,
		codes: map[int]failure.ErrorCode{
			http.StatusNotFound: errcodes.ProductUnavailable,
		},
	}
	getStatus = operation{
		name:            "getStatus",
		networkMessage:  domain.MessageCommerceUnavailable,
		fallbackMessage: domain.MessageCommerceUnavailable,
		codes: map[int]failure.ErrorCode{
			http.StatusNotFound: errcodes.DealNotFound,
		},
	}
	scanToken = operation{
		name:            "scanToken",
		networkMessage:  domain.MessageNetworkError,
		fallbackMessage: domain.MessageInvalidToken,
		codes: map[int]failure.ErrorCode{
			http.StatusBadRequest: errcodes.StaleToken,
			http.StatusGone:       errcodes.StaleToken,
			http.StatusNotFound:   errcodes.InvalidToken,
		},
	}
	vendorToken = operation{
		name:            "generateVendorToken",
		networkMessage:  domain.MessageNetworkError,
		fallbackMessage: "Could not generate confirmation token.",
		codes: map[int]failure.ErrorCode{
			http.StatusBadRequest: errcodes.DealNotConfirmed,
			http.StatusConflict:   errcodes.DealNotConfirmed,
			http.StatusNotFound:   errcodes.DealNotFound,
		},
	}
)

// backendError keeps the server message verbatim when there is one.
func (o operation) backendError(statusCode int, body []byte) error {
	code, ok := o.codes[statusCode]
	if !ok {
		code = errcodes.BackendRejected
	}

	message := o.fallbackMessage

	var schema errorSchema
	if err := json.Unmarshal(body, &schema); err == nil && schema.text() != "" {
		message = schema.text()
	}

	return domain.WrapError(
		fmt.Errorf("%s: backend answered %d", o.name, statusCode),
		code,
		message,
	).WithStatusCode(statusCode)
}
