// Package views holds the embedded HTML templates.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

// Layout wraps every page.
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// NewEngine returns a template engine over the embedded templates.
func NewEngine() *html.Engine {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		// the directory is embedded at build time
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
