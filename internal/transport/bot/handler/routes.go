package handler

import (
	th "github.com/mymmrac/telego/telegohandler"

	"kiosk_commerce/internal/transport/bot/middleware"
	"kiosk_commerce/internal/transport/bot/view"
)

func (h *Handler) RegisterRoutes(bh *th.BotHandler, vendorIDs []int64) {
	vendorGroup := bh.Group(th.AnyMessage())
	vendorGroup.Use(middleware.VendorOnly(vendorIDs...))

	vendorGroup.HandleMessage(h.OnStart, th.CommandEqual("start"))
	vendorGroup.HandleMessage(h.OnScan, th.CommandEqual("scan"))
	vendorGroup.HandleMessage(h.OnConfirm, th.CommandEqual("confirm"))
	vendorGroup.HandleMessage(h.OnStatus, th.CommandEqual("status"))

	cbGroup := bh.Group(th.AnyCallbackQuery())
	cbGroup.Use(middleware.VendorOnly(vendorIDs...))

	cbGroup.HandleCallbackQuery(h.OnConfirmCallback, th.CallbackDataPrefix(view.ConfirmCallbackPrefix))
}
