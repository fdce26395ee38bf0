// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package render provides HTML template rendering for the public site and
// the admin panel. Every page template is paired with the base layout of
// its area (templates/public or templates/admin) and addressed as
// "public/<name>" or "admin/<name>".
package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"travelclean/internal/middleware"
	"travelclean/internal/session"
)

//go:embed templates
var templateFS embed.FS

// layouts are the template areas, each with its own base.html.
var layouts = []string{"public", "admin"}

// Site holds the site-wide settings shown on every page.
type Site struct {
	Name            string
	Description     string
	URL             string
	ContactEmail    string
	AdSenseClientID string
}

// PageData holds all data passed to templates.
type PageData struct {
	Title       string          // Page title for <title> tag
	Description string          // Meta description; the site description when empty
	Keywords    string          // Meta keywords
	Section     string          // Active navigation entry (e.g. "home", "blog", "posts")
	Site        Site            // Filled in by the renderer
	Year        int             // Current year for the footer
	CSRFToken   string          // CSRF token for forms
	Flashes     []session.Flash // One-time notification messages
	Data        map[string]any  // Page-specific data
}

// FlashSource pops the pending flash messages for a request.
type FlashSource interface {
	Flashes(w http.ResponseWriter, r *http.Request) []session.Flash
}

// Renderer handles template parsing and execution.
type Renderer struct {
	templates map[string]*template.Template
	funcMap   template.FuncMap
	site      Site
	flashes   FlashSource
	now       func() time.Time
}

// New creates a Renderer by parsing all embedded templates. flashes may be
// nil, in which case pages render without notifications.
func New(site Site, flashes FlashSource) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		site:      site,
		flashes:   flashes,
		now:       time.Now,
		funcMap: template.FuncMap{
			"activeClass": func(current, target string) string {
				if current == target {
					return "active"
				}
				return ""
			},
			// safeHTML marks post bodies as trusted. Post content is
			// authored in the admin panel or imported from the legacy site.
			"safeHTML": func(s string) template.HTML {
				return template.HTML(s)
			},
			// dateInput formats a time for <input type="datetime-local">.
			"dateInput": func(t time.Time) string {
				if t.IsZero() {
					return ""
				}
				return t.UTC().Format("2006-01-02T15:04:05")
			},
			"isoDate": func(t time.Time) string {
				return t.UTC().Format(time.RFC3339)
			},
			"shortDate": func(t time.Time) string {
				return t.UTC().Format("2006-01-02 15:04")
			},
		},
	}

	for _, layout := range layouts {
		dir := "templates/" + layout
		entries, err := fs.ReadDir(templateFS, dir)
		if err != nil {
			return nil, fmt.Errorf("read embedded templates: %w", err)
		}
		for _, e := range entries {
			name := e.Name()
			if e.IsDir() || name == "base.html" || !strings.HasSuffix(name, ".html") {
				continue
			}
			tmpl, err := template.New("base.html").Funcs(r.funcMap).ParseFS(
				templateFS, dir+"/base.html", dir+"/"+name,
			)
			if err != nil {
				return nil, fmt.Errorf("parse template %s/%s: %w", layout, name, err)
			}
			r.templates[layout+"/"+strings.TrimSuffix(name, ".html")] = tmpl
		}
	}

	return r, nil
}

// Has reports whether a template with the given name was parsed.
func (rn *Renderer) Has(name string) bool {
	_, ok := rn.templates[name]
	return ok
}

// Page renders a full page with the given status. The CSRF token from the
// request context and any pending flash messages are injected first.
func (rn *Renderer) Page(w http.ResponseWriter, r *http.Request, status int, name string, data *PageData) {
	if data == nil {
		data = &PageData{}
	}
	data.CSRFToken = middleware.CSRFTokenFromCtx(r.Context())
	if rn.flashes != nil {
		data.Flashes = rn.flashes.Flashes(w, r)
	}

	body, err := rn.Bytes(name, data)
	if err != nil {
		slog.Error("render page failed", "error", err, "template", name,
			"request_id", middleware.RequestIDFromCtx(r.Context()))
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write(body)
}

// Bytes renders a page without any request-specific data, so the result
// can be stored in the page cache.
func (rn *Renderer) Bytes(name string, data *PageData) ([]byte, error) {
	tmpl, ok := rn.templates[name]
	if !ok {
		return nil, fmt.Errorf("template %q not found", name)
	}
	if data == nil {
		data = &PageData{}
	}
	data.Site = rn.site
	data.Year = rn.now().Year()
	if data.Description == "" {
		data.Description = rn.site.Description
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base.html", data); err != nil {
		return nil, fmt.Errorf("execute %s: %w", name, err)
	}
	return buf.Bytes(), nil
}
