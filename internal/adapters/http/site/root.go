// Package site serves the embedded landing page.
package site

import (
	"context"
	"errors"
	"net/http"
)

// ErrServe is returned when the embedded page cannot be read.
var ErrServe = errors.New("site serve failed")

// Register attaches the landing page to mux at "/".
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc("/", NewRootHandler().HandleRoot)
}

// RootHandler handles root path requests
type RootHandler struct {
	page []byte
}

// NewRootHandler creates a new root handler
func NewRootHandler() *RootHandler {
	return &RootHandler{page: indexPage()}
}

// HandleRoot serves the landing page for exactly "/"; every other unmatched
// path is a 404.
func (h *RootHandler) HandleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.NotFound(w, r)
		return
	}
	if len(h.page) == 0 {
		http.Error(w, ErrServe.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(h.page)
}
