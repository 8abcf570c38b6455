package qrcode

import (
	"fmt"
	"net/url"
	"strings"

	"rsc.io/qr"

	"kiosk_commerce/internal/domain/value"
)

const quietZone = 2

// Code is a rendered QR code. PNG is deterministic for a given value and level.
type Code struct {
	Value string
	PNG   []byte
	// Size is the number of modules per side.
	Size int
}

type Renderer struct {
	level qr.Level
}

func NewRenderer() Renderer {
	return Renderer{level: qr.H}
}

// WithLevel sets the error correction level: L, M, Q or H.
func (r Renderer) WithLevel(level string) (Renderer, error) {
	switch strings.ToUpper(level) {
	case "L":
		r.level = qr.L
	case "M":
		r.level = qr.M
	case "Q":
		r.level = qr.Q
	case "H", "":
		r.level = qr.H
	default:
		return r, fmt.Errorf("unknown qr level %q", level)
	}

	return r, nil
}

// Render encodes s exactly as given.
func (r Renderer) Render(s string) (Code, error) {
	code, err := r.encode(s)
	if err != nil {
		return Code{}, err
	}

	return Code{
		Value: s,
		PNG:   code.PNG(),
		Size:  code.Size,
	}, nil
}

// Terminal draws the code with block characters for a console.
func (r Renderer) Terminal(s string) (string, error) {
	code, err := r.encode(s)
	if err != nil {
		return "", err
	}

	var sb strings.Builder

	for y := -quietZone; y < code.Size+quietZone; y++ {
		for x := -quietZone; x < code.Size+quietZone; x++ {
			if code.Black(x, y) {
				sb.WriteString("██")
			} else {
				sb.WriteString("  ")
			}
		}

		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

func (r Renderer) encode(s string) (*qr.Code, error) {
	if s == "" {
		return nil, fmt.Errorf("qr.Encode: empty value")
	}

	code, err := qr.Encode(s, r.level)
	if err != nil {
		return nil, fmt.Errorf("qr.Encode: %w", err)
	}

	return code, nil
}

// DeepLink builds the URL the phone opens to follow the deal. Path-style
// tokens are joined to the base unchanged.
func DeepLink(baseURL string, token value.Token) string {
	base := strings.TrimRight(baseURL, "/")

	if strings.HasPrefix(token.String(), value.DeepLinkPrefix) {
		return base + token.String()
	}

	return base + value.DeepLinkPrefix + url.PathEscape(token.String())
}
