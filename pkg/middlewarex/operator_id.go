package middlewarex

import (
	"net/http"

	"kiosk_commerce/pkg/contextx"
)

const headerNameOperatorID = "X-Operator-Id"

// OperatorID stores the vendor console operator, when the console sends one,
// as the request user id. Must run before Logger.
func OperatorID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		operatorID := r.Header.Get(headerNameOperatorID)
		if operatorID == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextx.WithUserID(r.Context(), contextx.UserID(operatorID))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
