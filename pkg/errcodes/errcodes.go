package errcodes

import (
	"net/http"

	"git.appkode.ru/pub/go/failure"
)

const (
	InternalServerError failure.ErrorCode = "InternalServerError"
	TimeoutExceeded     failure.ErrorCode = "TimeoutExceeded"
	Forbidden           failure.ErrorCode = "Forbidden"
	ValidationError     failure.ErrorCode = "ValidationError"
	NotFound            failure.ErrorCode = "NotFound"

	// Commerce backend.
	CommerceUnavailable failure.ErrorCode = "CommerceUnavailable" // transport failure, no response
	BackendRejected     failure.ErrorCode = "BackendRejected"     // non-2xx with or without body
	InvalidBackendReply failure.ErrorCode = "InvalidBackendReply" // 2xx with an undecodable body
	ProductUnavailable  failure.ErrorCode = "ProductUnavailable"
	DealNotFound        failure.ErrorCode = "DealNotFound"
	DealNotConfirmed    failure.ErrorCode = "DealNotConfirmed"
	InvalidToken        failure.ErrorCode = "InvalidToken"
	StaleToken          failure.ErrorCode = "StaleToken" // already consumed or expired
	ScanInProgress      failure.ErrorCode = "ScanInProgress"

	// Kiosk agent.
	InvalidDealID     failure.ErrorCode = "InvalidDealID"
	InvalidDealStatus failure.ErrorCode = "InvalidDealStatus"
	InvalidProductID  failure.ErrorCode = "InvalidProductID"
	ViewNotFound      failure.ErrorCode = "ViewNotFound"
	ViewTransition    failure.ErrorCode = "ViewTransition"
	TokenNotIssued    failure.ErrorCode = "TokenNotIssued"
)

//nolint:gochecknoglobals
var httpStatuses = map[failure.ErrorCode]int{
	InternalServerError: http.StatusInternalServerError,
	TimeoutExceeded:     http.StatusGatewayTimeout,
	Forbidden:           http.StatusForbidden,
	ValidationError:     http.StatusBadRequest,
	NotFound:            http.StatusNotFound,
	CommerceUnavailable: http.StatusServiceUnavailable,
	BackendRejected:     http.StatusBadGateway,
	InvalidBackendReply: http.StatusBadGateway,
	ProductUnavailable:  http.StatusNotFound,
	DealNotFound:        http.StatusNotFound,
	DealNotConfirmed:    http.StatusConflict,
	InvalidToken:        http.StatusBadRequest,
	StaleToken:          http.StatusBadRequest,
	ScanInProgress:      http.StatusTooManyRequests,
	InvalidDealID:       http.StatusBadRequest,
	InvalidDealStatus:   http.StatusBadGateway,
	InvalidProductID:    http.StatusBadRequest,
	ViewNotFound:        http.StatusNotFound,
	ViewTransition:      http.StatusConflict,
	TokenNotIssued:      http.StatusConflict,
}

// HTTPStatus maps a code to the status the kiosk agent answers with.
func HTTPStatus(code failure.ErrorCode) int {
	if status, ok := httpStatuses[code]; ok {
		return status
	}

	return http.StatusInternalServerError
}
