package middleware_test

import (
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"kiosk_commerce/internal/transport/bot/middleware"
)

func TestUserID(t *testing.T) {
	rq := require.New(t)

	testCases := []struct {
		name   string
		update telego.Update
		wantID int64
		wantOK bool
	}{
		{
			name:   "Message",
			update: telego.Update{Message: &telego.Message{From: &telego.User{ID: 7}}},
			wantID: 7,
			wantOK: true,
		},
		{
			name:   "Channel post without sender",
			update: telego.Update{Message: &telego.Message{}},
		},
		{
			name:   "Callback query",
			update: telego.Update{CallbackQuery: &telego.CallbackQuery{From: telego.User{ID: 9}}},
			wantID: 9,
			wantOK: true,
		},
		{
			name:   "Other update",
			update: telego.Update{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			id, ok := middleware.UserID(tc.update)
			rq.Equal(tc.wantOK, ok)
			rq.Equal(tc.wantID, id)
		})
	}
}
