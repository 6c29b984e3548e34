package web

import (
	"embed"
	"io/fs"
	"net/http"
)

// Browser UI assets, compiled into the binary so the service is a single
// deployable.

//go:embed static
var assets embed.FS

// Handler serves the embedded UI. Mounted at the router's root.
func Handler() http.Handler {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
