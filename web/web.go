// Package web embeds the browser front end served by the API.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var Static embed.FS

func assets() fs.FS {
	sub, err := fs.Sub(Static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func Index(w http.ResponseWriter, r *http.Request) {
	http.ServeFileFS(w, r, assets(), "index.html")
}

func Files() http.Handler {
	return http.FileServerFS(assets())
}
