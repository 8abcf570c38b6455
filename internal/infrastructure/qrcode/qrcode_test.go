package qrcode_test

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"kiosk_commerce/internal/domain/value"
	"kiosk_commerce/internal/infrastructure/qrcode"
)

func TestRenderIsDeterministic(t *testing.T) {
	rq := require.New(t)

	renderer := qrcode.NewRenderer()

	first, err := renderer.Render("T1")
	rq.NoError(err)

	second, err := renderer.Render("T1")
	rq.NoError(err)

	rq.Equal("T1", first.Value)
	rq.Equal(first.PNG, second.PNG)
	rq.Positive(first.Size)

	img, err := png.Decode(bytes.NewReader(first.PNG))
	rq.NoError(err)
	rq.Positive(img.Bounds().Dx())

	other, err := renderer.Render("T2")
	rq.NoError(err)
	rq.NotEqual(first.PNG, other.PNG)
}

func TestRenderKeepsValueVerbatim(t *testing.T) {
	rq := require.New(t)

	renderer := qrcode.NewRenderer()

	padded, err := renderer.Render(" T1 ")
	rq.NoError(err)
	rq.Equal(" T1 ", padded.Value)

	plain, err := renderer.Render("T1")
	rq.NoError(err)
	rq.NotEqual(plain.PNG, padded.PNG)

	_, err = renderer.Render("")
	rq.Error(err)
}

func TestWithLevel(t *testing.T) {
	rq := require.New(t)

	low, err := qrcode.NewRenderer().WithLevel("l")
	rq.NoError(err)

	high := qrcode.NewRenderer()

	lowCode, err := low.Render("/m/deal/5f0c6f4e-6a43-4b8e-9a0e-1f1b2c3d4e5f")
	rq.NoError(err)

	highCode, err := high.Render("/m/deal/5f0c6f4e-6a43-4b8e-9a0e-1f1b2c3d4e5f")
	rq.NoError(err)

	rq.Less(lowCode.Size, highCode.Size)

	_, err = qrcode.NewRenderer().WithLevel("X")
	rq.Error(err)
}

func TestTerminal(t *testing.T) {
	rq := require.New(t)

	text, err := qrcode.NewRenderer().Terminal("T1")
	rq.NoError(err)

	code, err := qrcode.NewRenderer().Render("T1")
	rq.NoError(err)

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	rq.Len(lines, code.Size+4)
	rq.Contains(text, "██")
}

func TestDeepLink(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name  string
		base  string
		token value.Token
		want  string
	}{
		{
			name:  "Raw token",
			base:  "https://kiosk.example.uz",
			token: "T1",
			want:  "https://kiosk.example.uz/m/deal/T1",
		},
		{
			name:  "Path-style token",
			base:  "https://kiosk.example.uz/",
			token: "/m/deal/5f0c6f4e-6a43-4b8e-9a0e-1f1b2c3d4e5f",
			want:  "https://kiosk.example.uz/m/deal/5f0c6f4e-6a43-4b8e-9a0e-1f1b2c3d4e5f",
		},
		{
			name:  "Token with reserved characters",
			base:  "https://kiosk.example.uz",
			token: "a/b",
			want:  "https://kiosk.example.uz/m/deal/a%2Fb",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			rq.Equal(tc.want, qrcode.DeepLink(tc.base, tc.token))
		})
	}
}
