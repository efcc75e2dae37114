package api

import (
	"embed"
	"io/fs"
	"net/http"
	"os"
)

//go:embed all:static
var staticEmbed embed.FS

// getFileSystem returns the front-end asset filesystem: an external
// directory when configured and present, otherwise the embedded bundle.
func getFileSystem(dir string) (http.FileSystem, error) {
	if dir != "" {
		if _, err := os.Stat(dir); err == nil {
			return http.Dir(dir), nil
		}
	}

	sub, err := fs.Sub(staticEmbed, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}
