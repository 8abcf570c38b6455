package bot

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	th "github.com/mymmrac/telego/telegohandler"

	"kiosk_commerce/internal/transport/bot/handler"
	"kiosk_commerce/pkg/contextx"
	"kiosk_commerce/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

// Bot представляет собой консоль вендора в Telegram
type Bot struct {
	bot        *telego.Bot
	botHandler *th.BotHandler

	handler *handler.Handler
}

// New подписывается на обновления и регистрирует команды вендора.
func New(ctx context.Context, bot *telego.Bot, commandHandler *handler.Handler, vendorIDs []int64) (*Bot, error) {
	// Получаем обновления через long polling
	updates, err := bot.UpdatesViaLongPolling(ctx, &telego.GetUpdatesParams{
		Timeout: 60,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get updates: %w", err)
	}

	botHandler, err := th.NewBotHandler(bot, updates)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot handler: %w", err)
	}

	if len(vendorIDs) == 0 {
		logger(ctx).Warn("no vendor ids configured, bot commands are disabled")
	}

	commandHandler.RegisterRoutes(botHandler, vendorIDs)

	return &Bot{
		bot:        bot,
		botHandler: botHandler,
		handler:    commandHandler,
	}, nil
}

// Run запускает бота
func (b *Bot) Run(ctx context.Context) error {
	go func() {
		if err := b.botHandler.Start(); err != nil {
			logger(ctx).Error("failed to start bot handler", logx.Error(err))
		}
	}()

	<-ctx.Done()

	if err := b.botHandler.Stop(); err != nil {
		logger(ctx).Error("failed to stop bot handler", logx.Error(err))
	}

	return nil
}
