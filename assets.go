// Package financeauth provides embedded assets for production builds.
package financeauth

import (
	"embed"
	"io/fs"
)

//go:embed all:web/templates
var TemplateFS embed.FS

// Templates returns the template tree rooted at web/templates.
func Templates() fs.FS {
	sub, err := fs.Sub(TemplateFS, "web/templates")
	if err != nil {
		// fs.Sub only fails for invalid paths; the path above is a constant.
		panic(err)
	}
	return sub
}
