package http

import (
	"net/http"
	"strings"
)

// HandleRoute registers h for method and path both with and without a
// trailing slash.
func HandleRoute(mux *http.ServeMux, method, path string, h http.Handler) {
	path = strings.TrimSuffix(path, "/")
	mux.Handle(method+" "+path, h)
	mux.Handle(method+" "+path+"/{$}", h)
}
