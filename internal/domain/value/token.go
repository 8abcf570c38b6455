package value

import (
	"log/slog"
	"strings"

	"github.com/google/uuid"
)

// DeepLinkPrefix is the path the backend prepends to issued tokens.
const DeepLinkPrefix = "/m/deal/"

// Token is an opaque bearer string exchanged through a QR code. It is
// rendered and submitted exactly as issued.
type Token string

// NormalizeToken trims operator input. Nothing else is done to it, the
// backend owns prefix handling.
func NormalizeToken(raw string) Token {
	return Token(strings.TrimSpace(raw))
}

func (t Token) String() string {
	return string(t)
}

func (t Token) IsZero() bool {
	return t == ""
}

// IsDeepLink reports whether the token is a path-style deep link carrying a
// UUID, as issued by the backend.
func (t Token) IsDeepLink() bool {
	rest, ok := strings.CutPrefix(string(t), DeepLinkPrefix)
	if !ok {
		return false
	}

	_, err := uuid.Parse(rest)

	return err == nil
}

// LogValue keeps tokens out of logs.
func (t Token) LogValue() slog.Value {
	if t.IsZero() {
		return slog.StringValue("")
	}

	return slog.StringValue("***")
}
