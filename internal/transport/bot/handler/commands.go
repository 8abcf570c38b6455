package handler

import (
	"fmt"
	"log/slog"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"kiosk_commerce/internal/domain"
	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/service/vendor"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/transport/bot/view"
	"kiosk_commerce/pkg/logx"
)

func (h *Handler) OnStart(ctx *th.Context, msg telego.Message) error {
	return h.sendHTML(ctx, msg.Chat.ID, view.StartMessage)
}

// OnScan отправляет токен путешественника на бэкенд.
// Использование: /scan <token>
func (h *Handler) OnScan(ctx *th.Context, msg telego.Message) error {
	raw := CommandArgument(msg.Text)
	if raw == "" {
		return h.sendHTML(ctx, msg.Chat.ID, view.ScanMissingArgument)
	}

	outcome, err := h.submitter.Submit(ctx, raw)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.ScanRejected(vendor.ErrorMessage(err), outcome.Input))
	}

	params := tu.Message(tu.ID(msg.Chat.ID), view.ScanAccepted(outcome.Message, outcome.DealID.String())).
		WithParseMode(telego.ModeHTML)

	if outcome.CanGenerateConfirmation {
		params = params.WithReplyMarkup(confirmKeyboard(outcome.DealID))
	}

	_, err = ctx.Bot().SendMessage(ctx, params)

	return err
}

// OnConfirm показывает QR с токеном подтверждения.
// Использование: /confirm <deal_id>
func (h *Handler) OnConfirm(ctx *th.Context, msg telego.Message) error {
	dealID, ok := h.dealIDArgument(ctx, msg, "confirm")
	if !ok {
		return nil
	}

	return h.sendConfirmation(ctx, msg.Chat.ID, dealID)
}

// OnStatus показывает статус сделки и журнал переходов, если он подключен.
// Использование: /status <deal_id>
func (h *Handler) OnStatus(ctx *th.Context, msg telego.Message) error {
	dealID, ok := h.dealIDArgument(ctx, msg, "status")
	if !ok {
		return nil
	}

	report, err := h.statuses.GetStatus(ctx, dealID)
	if err != nil {
		return h.sendHTML(ctx, msg.Chat.ID, view.Failure(domain.Message(err, domain.MessageCommerceUnavailable)))
	}

	var history []entity.Transition

	if h.journal != nil {
		history, err = h.journal.ListByDeal(ctx, dealID)
		if err != nil {
			logger(ctx).Warn("journal read failed",
				slog.String(logx.FieldDealID, dealID.String()),
				logx.Error(err),
			)
		}
	}

	return h.sendHTML(ctx, msg.Chat.ID, view.Status(report, history))
}

func (h *Handler) sendConfirmation(ctx *th.Context, chatID int64, dealID value.DealID) error {
	token, err := h.submitter.GenerateConfirmation(ctx, dealID)
	if err != nil {
		return h.sendHTML(ctx, chatID, view.Failure(domain.Message(err, domain.MessageCommerceUnavailable)))
	}

	code, err := h.renderer.Render(token.Token.String())
	if err != nil {
		return fmt.Errorf("renderer.Render: %w", err)
	}

	if err := h.photos.SendQR(ctx, chatID, code.PNG, view.Confirmation(token)); err != nil {
		return fmt.Errorf("photos.SendQR: %w", err)
	}

	return nil
}

func (h *Handler) dealIDArgument(ctx *th.Context, msg telego.Message, command string) (value.DealID, bool) {
	arg := CommandArgument(msg.Text)
	if arg == "" {
		_ = h.sendHTML(ctx, msg.Chat.ID, fmt.Sprintf(view.DealIDMissingArgument, command))
		return "", false
	}

	dealID, err := value.ParseDealID(arg)
	if err != nil {
		_ = h.sendHTML(ctx, msg.Chat.ID, view.DealIDInvalidFormat)
		return "", false
	}

	return dealID, true
}

// Вспомогательные методы

func (h *Handler) sendHTML(ctx *th.Context, chatID int64, text string) error {
	_, err := ctx.Bot().SendMessage(ctx, &telego.SendMessageParams{
		ChatID:    telego.ChatID{ID: chatID},
		Text:      text,
		ParseMode: telego.ModeHTML,
	})

	return err
}
