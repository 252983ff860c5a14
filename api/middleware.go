package api

import (
	"net/http"
	"strings"

	"go.uber.org/zap"
)

// UserHeader carries the display name of the participant making the request
const UserHeader = "user"

// Middleware sets the json content type and reads the display name out of the
// user header. There is no authentication, whoever sends a name speaks as it.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		name := strings.TrimSpace(r.Header.Get(UserHeader))
		if name != "" {
			zap.S().Debugw("request on behalf of participant", "participant", name, "url", r.URL.Path)
			r = r.WithContext(WithUser(r.Context(), name))
		}
		next.ServeHTTP(w, r)
	})
}
