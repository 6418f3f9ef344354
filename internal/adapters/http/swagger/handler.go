// Package swagger serves the OpenAPI document and a ReDoc page rendering it.
package swagger

import (
	"context"
	_ "embed"
	"net/http"
)

// RedocCDN is the ReDoc bundle loaded by the docs page.
const RedocCDN = "https://cdn.redoc.ly/redoc/v2.1.5/bundles/redoc.standalone.js"

// Route paths.
const (
	DocsPath = "/api-docs"
	SpecPath = "/openapi.yaml"
)

// OpenAPI is the embedded OpenAPI 3 document.
//
//go:embed openapi.yaml
var OpenAPI []byte

const docsPage = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8">
    <title>Best XI API Docs</title>
    <style>body{margin:0;padding:0}</style>
  </head>
  <body>
    <redoc id="redoc-container"></redoc>
    <script src="` + RedocCDN + `"></script>
    <script>Redoc.init('` + SpecPath + `', { suppressWarnings: true }, document.getElementById('redoc-container'));</script>
  </body>
</html>`

// Register attaches DocsPath and SpecPath to mux.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.HandleFunc(DocsPath, static("text/html; charset=utf-8", []byte(docsPage)))
	mux.HandleFunc(SpecPath, static("application/yaml; charset=utf-8", OpenAPI))
}

// static answers GET and HEAD with body; other methods get 405.
func static(contentType string, body []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		w.Header().Set("Content-Type", contentType)
		if r.Method == http.MethodHead {
			return
		}
		_, _ = w.Write(body)
	}
}
