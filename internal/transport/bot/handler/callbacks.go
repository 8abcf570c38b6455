package handler

import (
	"strings"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
	tu "github.com/mymmrac/telego/telegoutil"

	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/transport/bot/view"
)

// OnConfirmCallback обрабатывает кнопку под успешным сканом.
// Формат: "confirm:<deal_id>"
func (h *Handler) OnConfirmCallback(ctx *th.Context, query telego.CallbackQuery) error {
	dealID, err := value.ParseDealID(strings.TrimPrefix(query.Data, view.ConfirmCallbackPrefix))
	if err != nil || query.Message == nil {
		_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID).
			WithText(view.DealIDInvalidFormat).WithShowAlert())
		return nil
	}

	// Обязательно отвечаем на коллбэк, чтобы убрать часики
	_ = ctx.Bot().AnswerCallbackQuery(ctx, tu.CallbackQuery(query.ID))

	return h.sendConfirmation(ctx, query.Message.GetChat().ID, dealID)
}

func confirmKeyboard(dealID value.DealID) *telego.InlineKeyboardMarkup {
	return tu.InlineKeyboard(
		tu.InlineKeyboardRow(
			tu.InlineKeyboardButton(view.ConfirmButton).
				WithCallbackData(view.ConfirmCallbackPrefix + dealID.String()),
		),
	)
}

// CommandArgument returns the text after the command, trimmed. Tokens may
// contain spaces only at the edges, so the rest of the line is kept whole.
func CommandArgument(text string) string {
	text = strings.TrimSpace(text)

	i := strings.IndexAny(text, " \t\n")
	if i < 0 {
		return ""
	}

	return strings.TrimSpace(text[i+1:])
}
