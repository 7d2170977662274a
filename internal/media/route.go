package media

import (
	"net/url"
	"strings"
)

// Route actions understood by the router.
const (
	RouteListCategoriesOrVideos = "list_categories_or_videos"
	RouteListCategoryContent    = "list_category_content"
	RouteListPage               = "list_page"
	RouteListPageTarget         = "list_page_target"
	RouteListPageWithPageData   = "list_page_with_page_data"
	RouteListCategoryLinks      = "list_category_links"
	RoutePlay                   = "play"
	RouteSearch                 = "search"
	RouteNoop                   = "noop"
)

// Route is the flat parameter set a host hands back to re-enter the router.
// Its contents are opaque to the host.
type Route map[string]string

// NewRoute builds a route for action from alternating key/value pairs.
func NewRoute(action string, kv ...string) Route {
	r := Route{"action": action}
	for i := 0; i+1 < len(kv); i += 2 {
		r[kv[i]] = kv[i+1]
	}
	return r
}

// Action returns the route's action, empty for the root listing.
func (r Route) Action() string {
	return r["action"]
}

// Encode renders the route as a URL query string with sorted keys.
func (r Route) Encode() string {
	v := url.Values{}
	for k, val := range r {
		v.Set(k, val)
	}
	return v.Encode()
}

// ParseRoute parses a query string (with or without the leading '?').
func ParseRoute(s string) (Route, error) {
	v, err := url.ParseQuery(strings.TrimPrefix(s, "?"))
	if err != nil {
		return nil, err
	}
	r := Route{}
	for k := range v {
		r[k] = v.Get(k)
	}
	return r, nil
}
