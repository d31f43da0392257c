// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
)

// pageHandler serves the embedded input form page.
type pageHandler struct{}

// newPageHandler creates a new page handler.
func newPageHandler() *pageHandler {
	return &pageHandler{}
}

// HandlePage handles GET / requests with the form + chart page that drives
// the JSON API client-side.
func (h *pageHandler) HandlePage(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.ServeFileFS(w, r, pageFS, "index.html")
}
