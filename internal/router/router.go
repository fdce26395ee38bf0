// Package router sets up all HTTP routes and middleware chains for the
// Travel Clean & Legal site. It organizes routes into public and admin
// groups with appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"travelclean/internal/handlers"
	"travelclean/internal/middleware"
)

// maxFormBytes caps form bodies on routes that accept POSTs.
const maxFormBytes = 1 << 20

// New creates and returns the configured Chi router. static holds the
// embedded assets rooted at the static directory (css/, robots.txt,
// ads.txt). contactLimiter throttles contact form submissions per client.
func New(public *handlers.Public, admin *handlers.Admin, contactLimiter *middleware.RateLimiter, static fs.FS) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer(public.ServerError))
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.NotFound(public.NotFound)

	r.Get("/health", healthHandler)

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	r.Get("/robots.txt", handlers.TextFile(static, "robots.txt"))
	r.Get("/ads.txt", handlers.TextFile(static, "ads.txt"))
	r.Get("/sitemap.xml", public.Sitemap)

	// Public pages.
	r.Get("/", public.Home)
	r.Get("/blog", public.Blog)
	r.Get("/post/{slug}", public.Post)
	r.Get("/about", public.StaticPage("about"))
	r.Get("/privacy", public.StaticPage("privacy"))
	r.Get("/terms", public.StaticPage("terms"))

	// Contact form, CSRF-protected and rate limited on submit.
	r.Route("/contact", func(r chi.Router) {
		r.Use(chimw.RequestSize(maxFormBytes))
		r.Use(middleware.CSRF)
		r.Get("/", public.ContactForm)
		r.With(contactLimiter.Middleware).Post("/", public.ContactSubmit)
	})

	// Admin panel. Access control is left to the deployment (reverse proxy
	// or private network).
	r.Route("/admin", func(r chi.Router) {
		r.Use(chimw.RequestSize(maxFormBytes))
		r.Use(middleware.CSRF)

		r.Get("/", admin.Dashboard)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", admin.CategoriesList)
			r.Get("/new", admin.CategoryNew)
			r.Post("/", admin.CategoryCreate)
			r.Get("/{id}", admin.CategoryEdit)
			r.Post("/{id}", admin.CategoryUpdate)
			r.Post("/{id}/delete", admin.CategoryDelete)
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", admin.PostsList)
			r.Get("/new", admin.PostNew)
			r.Post("/", admin.PostCreate)
			r.Get("/{id}", admin.PostEdit)
			r.Post("/{id}", admin.PostUpdate)
			r.Post("/{id}/delete", admin.PostDelete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
