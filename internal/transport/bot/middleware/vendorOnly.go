package middleware

import (
	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"
)

// VendorOnly пропускает только апдейты от перечисленных пользователей.
func VendorOnly(vendorIDs ...int64) th.Handler {
	allowed := make(map[int64]struct{}, len(vendorIDs))
	for _, id := range vendorIDs {
		allowed[id] = struct{}{}
	}

	return func(ctx *th.Context, update telego.Update) error {
		userID, ok := UserID(update)
		if !ok {
			return nil
		}

		if _, ok := allowed[userID]; ok {
			return ctx.Next(update)
		}

		return nil
	}
}

func UserID(update telego.Update) (int64, bool) {
	switch {
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	case update.CallbackQuery != nil:
		return update.CallbackQuery.From.ID, true
	default:
		return 0, false
	}
}
