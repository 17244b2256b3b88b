package toolbar

import (
	"net/http"
	"strings"

	"github.com/debugtoolbar/debugtoolbar/internal/diag"
)

// ActionFromPath derives an action name from the first three path segments,
// the way routes are named in the shop: "/checkout/cart/add/id/5" becomes
// "checkout_cart_add". The root path maps to "cms_index_index".
func ActionFromPath(r *http.Request) string {
	p := strings.Trim(r.URL.Path, "/")
	if p == "" {
		return "cms_index_index"
	}
	parts := strings.Split(p, "/")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	return diag.Sanitize(strings.Join(parts, "_"))
}
