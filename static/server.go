package static

import (
	"embed"
	"io/fs"
	"net/http"
	"path"
	"strings"
)

//go:embed dist
var dist embed.FS

var assetExt = map[string]bool{
	".js": true, ".css": true, ".svg": true, ".ico": true, ".png": true,
	".jpg": true, ".txt": true, ".map": true, ".woff2": true, ".wav": true,
}

// Handler serves the client build. Unknown paths fall back to index.html so
// client-side routes load the app.
func Handler() http.Handler {
	sub, err := fs.Sub(dist, "dist")
	if err != nil {
		return http.NotFoundHandler()
	}
	fileServer := http.FileServer(http.FS(sub))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/assets/") || assetExt[path.Ext(r.URL.Path)] {
			fileServer.ServeHTTP(w, r)
			return
		}
		b, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			http.Error(w, "index not found", http.StatusNotFound)
			return
		}
		// serve directly, FileServer would redirect /index.html
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(b)
	})
}
