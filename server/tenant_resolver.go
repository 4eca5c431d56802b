package server

import (
	"net/http"
	"strings"

	"github.com/shopweave/go-storefront-identity/slug"
)

// shopSlugFromRequest resolves the shop addressed by the request URL. The
// first path segment is treated as a shop slug unless it is a reserved
// platform word or fails slug validation; both cases resolve to "".
func shopSlugFromRequest(r *http.Request) string {
	if v := r.PathValue("shopSlug"); v != "" {
		if normalized, ok := slug.Normalize(v); ok {
			return normalized
		}
		return ""
	}
	return shopSlugFromPath(r.URL.Path)
}

func shopSlugFromPath(path string) string {
	segment := strings.TrimPrefix(path, "/")
	if i := strings.IndexByte(segment, '/'); i >= 0 {
		segment = segment[:i]
	}
	if segment == "" || slug.IsReserved(segment) {
		return ""
	}
	if normalized, ok := slug.Normalize(segment); ok {
		return normalized
	}
	return ""
}
