package site

import (
	"embed"
)

//go:embed static/index.html
var staticFS embed.FS

// indexPage returns the embedded landing page, or nil if it is missing.
func indexPage() []byte {
	b, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		return nil
	}
	return b
}
