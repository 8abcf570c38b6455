package notifier

import (
	"bytes"
	"context"
	"fmt"
	"html"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"

	"kiosk_commerce/internal/domain/entity"
	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/pkg/contextx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

type Sender interface {
	SendMessage(ctx context.Context, params *telego.SendMessageParams) (*telego.Message, error)
	SendPhoto(ctx context.Context, params *telego.SendPhotoParams) (*telego.Message, error)
}

type TelegramBot struct {
	bot    Sender
	chatID int64
}

func NewTelegramBot(token string, chatID int64) (*TelegramBot, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return NewTelegramNotifier(bot, chatID), nil
}

func NewTelegramNotifier(bot Sender, chatID int64) *TelegramBot {
	return &TelegramBot{
		bot:    bot,
		chatID: chatID,
	}
}

// Run отправляет переходы из канала, пока канал не закрыт.
func (b *TelegramBot) Run(ctx context.Context, transitions <-chan entity.Transition) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case t, ok := <-transitions:
			if !ok {
				return nil
			}

			if err := b.SendTransition(ctx, t); err != nil {
				logger(ctx).Error("failed to send transition", "error", err)
			}
		}
	}
}

func (b *TelegramBot) SendTransition(ctx context.Context, t entity.Transition) error {
	msg := tu.Message(
		tu.ID(b.chatID),
		TransitionText(t),
	).WithParseMode(telego.ModeHTML)

	_, err := b.bot.SendMessage(ctx, msg)
	if err != nil {
		return fmt.Errorf("send message: %w", err)
	}

	return nil
}

// TransitionText форматирует уведомление. Токен в сообщение не попадает.
func TransitionText(t entity.Transition) string {
	product := t.Report.Product
	if product == "" {
		product = t.ProductID.String()
	}

	from := t.From.String()
	if from == "" {
		from = "—"
	}

	text := fmt.Sprintf(
		"%s <b>Deal %s</b>\n\n"+
			"🎟 <b>Deal:</b> <code>%s</code>\n"+
			"🏷 <b>Product:</b> %s\n"+
			"🔁 <b>Status:</b> %s → %s",
		statusIcon(t.To),
		html.EscapeString(t.To.String()),
		html.EscapeString(t.DealID.String()),
		html.EscapeString(product),
		html.EscapeString(from),
		html.EscapeString(t.To.String()),
	)

	if !t.Report.Amount.IsZero() {
		text += fmt.Sprintf("\n💰 <b>Amount:</b> %s", html.EscapeString(t.Report.Amount.String()))
	}

	return text
}

func statusIcon(s value.DealStatus) string {
	switch {
	case s.IsConfirmed():
		return "✅"
	case s.IsFailed():
		return "⛔️"
	default:
		return "🕒"
	}
}

// SendText отправляет простое текстовое сообщение.
func (b *TelegramBot) SendText(ctx context.Context, text string) error {
	msg := tu.Message(tu.ID(b.chatID), text)

	_, err := b.bot.SendMessage(ctx, msg)
	return err
}

func (b *TelegramBot) SendQR(ctx context.Context, chatID int64, png []byte, caption string) error {
	photo := tu.Photo(
		tu.ID(chatID),
		tu.File(tu.NameReader(bytes.NewReader(png), "qr.png")),
	).WithCaption(caption).WithParseMode(telego.ModeHTML)

	if _, err := b.bot.SendPhoto(ctx, photo); err != nil {
		return fmt.Errorf("send photo: %w", err)
	}

	return nil
}
