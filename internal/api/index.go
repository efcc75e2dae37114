package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"sort"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/creamcroissant/ansine/internal/config"
)

//go:embed templates/index.html
var templatesEmbed embed.FS

// descriptions come from user-edited config files, so they are sanitized
// before being rendered into the page.
var htmlSanitizer = sync.OnceValue(func() *bluemonday.Policy {
	return bluemonday.UGCPolicy()
})

type serviceLink struct {
	Name        string
	Description template.HTML
	Route       string
}

type indexData struct {
	RefreshInterval int
	Services        []serviceLink
}

// newIndexPage renders the dashboard page once at startup. The service set
// and refresh interval never change at runtime, so the rendered bytes are
// served as-is.
func newIndexPage(services config.ServiceMap, refreshInterval int) ([]byte, error) {
	tmpl, err := template.ParseFS(templatesEmbed, "templates/index.html")
	if err != nil {
		return nil, fmt.Errorf("parse index template: %w", err)
	}

	data := indexData{RefreshInterval: refreshInterval}
	for name, svc := range services {
		data.Services = append(data.Services, serviceLink{
			Name:        name,
			Description: template.HTML(htmlSanitizer().Sanitize(svc.Description)),
			Route:       svc.Route,
		})
	}
	sort.Slice(data.Services, func(i, j int) bool {
		return data.Services[i].Name < data.Services[j].Name
	})

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("render index template: %w", err)
	}
	return buf.Bytes(), nil
}

func serveIndex(page []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
		if r.Method == http.MethodHead {
			w.WriteHeader(http.StatusOK)
			return
		}
		_, _ = w.Write(page)
	}
}
