package auth

import (
	"net/http"
	"strings"

	"github.com/dmitrijs2005/anonsession/internal/common"
)

// BearerToken extracts the token from the Authorization header of r, or
// returns "" when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get(common.AuthorizationHeader)
	if len(h) < len(common.BearerPrefix) || !strings.EqualFold(h[:len(common.BearerPrefix)], common.BearerPrefix) {
		return ""
	}
	return strings.TrimSpace(h[len(common.BearerPrefix):])
}
