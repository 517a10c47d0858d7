// Package views embeds the HTML templates and static assets so the binary
// is self-contained.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Engine returns the Fiber view engine backed by the embedded templates.
func Engine() (*html.Engine, error) {
	sub, err := fs.Sub(templatesFS, "templates")
	if err != nil {
		return nil, err
	}
	return html.NewFileSystem(http.FS(sub), ".html"), nil
}

// Static returns the embedded static assets, rooted at "static/".
func Static() http.FileSystem {
	return http.FS(staticFS)
}
