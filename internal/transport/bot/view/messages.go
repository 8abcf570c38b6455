package view

import (
	"fmt"
	"html"
	"strings"
	"time"

	"kiosk_commerce/internal/domain/entity"
)

const (
	StartMessage = "👋 <b>Vendor console</b>\n\n" +
		"/scan <code>TOKEN</code> — submit the traveler's deal token\n" +
		"/confirm <code>DEAL_ID</code> — show the confirmation QR\n" +
		"/status <code>DEAL_ID</code> — current status and history"

	ScanMissingArgument    = "❌ Usage: /scan <code>TOKEN</code>"
	DealIDMissingArgument  = "❌ Usage: /%s <code>DEAL_ID</code>"
	DealIDInvalidFormat    = "❌ Invalid deal id"
	ConfirmButton          = "🔑 Generate confirmation"
	ConfirmCallbackPrefix  = "confirm:"
	ConfirmationCaption    = "🔑 Confirmation for deal <code>%s</code>\nShow this QR to the traveler."
	ConfirmationExpiresFmt = "\n⏳ Expires at %s"
)

// ScanAccepted is the reply to a successful scan.
func ScanAccepted(message, dealID string) string {
	text := "✅ " + html.EscapeString(message)
	if dealID != "" {
		text += fmt.Sprintf("\n\n🎟 Deal: <code>%s</code>", html.EscapeString(dealID))
	}

	return text
}

// ScanRejected shows the backend text verbatim and echoes the input back.
func ScanRejected(message, input string) string {
	return fmt.Sprintf("❌ %s\n\n✏️ <code>%s</code>", html.EscapeString(message), html.EscapeString(input))
}

func Failure(message string) string {
	return "❌ " + html.EscapeString(message)
}

func Confirmation(token entity.VendorToken) string {
	text := fmt.Sprintf(ConfirmationCaption, html.EscapeString(token.DealID.String()))
	if !token.ExpiresAt.IsZero() {
		text += fmt.Sprintf(ConfirmationExpiresFmt, token.ExpiresAt.UTC().Format(time.DateTime))
	}

	return text
}

// Status форматирует текущий статус сделки и журнал переходов.
func Status(report entity.DealStatusReport, history []entity.Transition) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("📊 <b>Deal</b> <code>%s</code>\n\n", html.EscapeString(report.DealID.String())))
	sb.WriteString(fmt.Sprintf("🔁 <b>Status:</b> %s\n", html.EscapeString(report.Status.String())))

	if report.Product != "" {
		sb.WriteString(fmt.Sprintf("🏷 <b>Product:</b> %s\n", html.EscapeString(report.Product)))
	}

	if !report.Amount.IsZero() {
		sb.WriteString(fmt.Sprintf("💰 <b>Amount:</b> %s\n", html.EscapeString(report.Amount.String())))
	}

	if len(history) == 0 {
		return sb.String()
	}

	sb.WriteString("\n<b>History:</b>\n")

	for i, t := range history {
		from := t.From.String()
		if from == "" {
			from = "—"
		}

		sb.WriteString(fmt.Sprintf("%d. %s → %s <i>%s</i>\n",
			i+1,
			html.EscapeString(from),
			html.EscapeString(t.To.String()),
			t.ObservedAt.UTC().Format(time.DateTime),
		))
	}

	return sb.String()
}
