package router

import (
	"net/http"
	"strings"
)

// routeSet matches a request by its registered pattern. An entry is either
// "METHOD /pattern" for one method or "/pattern" for all of them.
type routeSet map[string]struct{}

func newRouteSet(entries ...string) routeSet {
	s := routeSet{}
	for _, e := range entries {
		if e = strings.Join(strings.Fields(e), " "); e != "" {
			s[e] = struct{}{}
		}
	}
	return s
}

func (s routeSet) match(r *http.Request) bool {
	if len(s) == 0 {
		return false
	}
	route := matchedRoutePath(r)
	if _, ok := s[route]; ok {
		return true
	}
	_, ok := s[r.Method+" "+route]
	return ok
}
