package handler

import (
	"context"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/vendor"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/infrastructure/qrcode"
	"kiosk_commerce/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Submitter interface {
	Submit(ctx context.Context, raw string) (vendor.Outcome, error)
	GenerateConfirmation(ctx context.Context, dealID value.DealID) (entity.VendorToken, error)
}

type StatusGetter interface {
	GetStatus(ctx context.Context, dealID value.DealID) (entity.DealStatusReport, error)
}

type JournalReader interface {
	ListByDeal(ctx context.Context, dealID value.DealID) ([]entity.Transition, error)
}

type QRSender interface {
	SendQR(ctx context.Context, chatID int64, png []byte, caption string) error
}

type Handler struct {
	submitter Submitter
	statuses  StatusGetter
	journal   JournalReader
	photos    QRSender
	renderer  qrcode.Renderer
}

func New(submitter Submitter, statuses StatusGetter, photos QRSender, renderer qrcode.Renderer) *Handler {
	return &Handler{
		submitter: submitter,
		statuses:  statuses,
		photos:    photos,
		renderer:  renderer,
	}
}

// WithJournal добавляет историю переходов в ответ /status.
func (h *Handler) WithJournal(journal JournalReader) *Handler {
	h.journal = journal
	return h
}
