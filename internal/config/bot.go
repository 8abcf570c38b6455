package config

// Bot is the Telegram bot used for transition alerts and the vendor console.
// An empty token disables it.
type Bot struct {
	Token  string `env:"BOT_TOKEN" json:"-"`
	ChatID int64  `env:"BOT_CHAT_ID"`
	// VendorIDs are Telegram user ids allowed to scan and confirm.
	VendorIDs []int64 `env:"BOT_VENDOR_IDS" envSeparator:","`
}

func (b Bot) Enabled() bool {
	return b.Token != ""
}
