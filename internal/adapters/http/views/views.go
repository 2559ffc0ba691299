// Package views renders the dashboard's server-side pages. Templates are
// embedded in the binary and served through fiber's html engine: pages sit
// at the template root, partials define named blocks and the main layout
// wraps a page with {{embed}}.
package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Layout is the name of the page layout template
const Layout = "layouts/main"

// New creates the html engine over the embedded templates
func New() *html.Engine {
	engine := html.NewFileSystem(sub(templateFS, "templates"), ".html")
	engine.AddFuncMap(Funcs())
	return engine
}

// Static returns the embedded stylesheet and script directory
func Static() http.FileSystem {
	return sub(staticFS, "static")
}

func sub(fsys embed.FS, dir string) http.FileSystem {
	s, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return http.FS(s)
}
