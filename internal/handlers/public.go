// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"io/fs"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"travelclean/internal/blog"
	"travelclean/internal/cache"
	"travelclean/internal/markdown"
	"travelclean/internal/middleware"
	"travelclean/internal/models"
	"travelclean/internal/render"
	"travelclean/internal/session"
	"travelclean/internal/store"
)

const (
	htmlContentType = "text/html; charset=utf-8"
	xmlContentType  = "application/xml"
	textContentType = "text/plain; charset=utf-8"
)

// ContactThanks is flashed after a contact form submission.
const ContactThanks = "Thank you for your message! We'll get back to you soon."

// Public groups handlers for the public-facing site. The home feed, blog
// index, post pages and sitemap go through the Valkey page cache; pages
// that carry a CSRF token or flash messages are never cached.
type Public struct {
	renderer  *render.Renderer
	blog      *blog.Service
	sessions  *session.Store
	pageCache *cache.PageCache
}

// NewPublic creates a new Public handler group. pageCache may be nil.
func NewPublic(renderer *render.Renderer, svc *blog.Service, sessions *session.Store, pageCache *cache.PageCache) *Public {
	return &Public{
		renderer:  renderer,
		blog:      svc,
		sessions:  sessions,
		pageCache: pageCache,
	}
}

// Home renders the featured and most recent posts.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	key := cache.HomeKey()
	if p.serveCached(w, r, key, htmlContentType) {
		return
	}

	feed, err := p.blog.Home(r.Context())
	if err != nil {
		p.serverError(w, r, err)
		return
	}

	body, err := p.renderer.Bytes("public/home", &render.PageData{
		Section: "home",
		Data: map[string]any{
			"Featured": feed.Featured,
			"Recent":   feed.Recent,
		},
	})
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	p.write(w, r, key, htmlContentType, body, true)
}

// Blog renders published posts grouped by category. The optional
// ?category=<slug> query keeps a single category.
func (p *Public) Blog(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	category := strings.TrimSpace(r.URL.Query().Get("category"))

	key := cache.BlogKey(category)
	if p.serveCached(w, r, key, htmlContentType) {
		return
	}

	groups, err := p.blog.BlogIndex(ctx, category)
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	cats, err := p.blog.Categories(ctx)
	if err != nil {
		p.serverError(w, r, err)
		return
	}

	title := "Relocation Guides"
	known := category == ""
	for _, c := range cats {
		if c.Slug == category {
			title = c.Name + " Guides"
			known = true
			break
		}
	}

	body, err := p.renderer.Bytes("public/blog", &render.PageData{
		Title:   title,
		Section: "blog",
		Data: map[string]any{
			"Groups":     groups,
			"Categories": cats,
			"Active":     category,
		},
	})
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	// Unknown filters are not cached so arbitrary query values cannot
	// fill the cache.
	p.write(w, r, key, htmlContentType, body, known)
}

// Post renders a published post with related posts from its category.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	slugParam := chi.URLParam(r, "slug")

	key := cache.PostKey(slugParam)
	if p.serveCached(w, r, key, htmlContentType) {
		return
	}

	page, err := p.blog.PostDetail(r.Context(), slugParam)
	if errors.Is(err, store.ErrNotFound) {
		p.NotFound(w, r)
		return
	}
	if err != nil {
		p.serverError(w, r, err)
		return
	}

	body, err := p.renderer.Bytes("public/post", &render.PageData{
		Title:       page.Post.Title,
		Description: postDescription(page.Post),
		Keywords:    page.Post.MetaKeywords,
		Section:     "blog",
		Data: map[string]any{
			"Post":    page.Post,
			"Related": page.Related,
		},
	})
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	p.write(w, r, key, htmlContentType, body, true)
}

func postDescription(post *models.Post) string {
	if post.MetaDescription != "" {
		return post.MetaDescription
	}
	return post.Excerpt
}

// StaticPage returns a handler rendering the Markdown page with the given
// name (about, privacy, terms).
func (p *Public) StaticPage(name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, err := markdown.LoadPage(name)
		if errors.Is(err, markdown.ErrNoPage) {
			p.NotFound(w, r)
			return
		}
		if err != nil {
			p.serverError(w, r, err)
			return
		}
		p.renderer.Page(w, r, http.StatusOK, "public/page", &render.PageData{
			Title:   page.Title,
			Section: name,
			Data:    map[string]any{"Page": page},
		})
	}
}

// ContactForm renders the contact form.
func (p *Public) ContactForm(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, http.StatusOK, "public/contact", &render.PageData{
		Title:   "Contact Us",
		Section: "contact",
	})
}

// ContactSubmit handles the contact form. Submissions that fill the
// hidden bot-field are dropped without feedback. Valid messages are
// logged and acknowledged with a flash message; nothing is delivered.
func (p *Public) ContactSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if r.PostFormValue("bot-field") != "" {
		slog.Info("contact honeypot triggered", "remote", r.RemoteAddr)
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	msg := contactFromForm(r)
	if errMsg := validateContact(msg); errMsg != "" {
		p.flash(w, r, session.FlashError, errMsg)
		http.Redirect(w, r, "/contact", http.StatusSeeOther)
		return
	}

	slog.Info("contact message received",
		"request_id", middleware.RequestIDFromCtx(r.Context()),
		"name", msg.Name,
		"email", msg.Email,
		"subject", msg.Subject,
		"length", len(msg.Message),
	)
	p.flash(w, r, session.FlashSuccess, ContactThanks)
	http.Redirect(w, r, "/contact", http.StatusSeeOther)
}

// Sitemap serves sitemap.xml for all published posts.
func (p *Public) Sitemap(w http.ResponseWriter, r *http.Request) {
	key := cache.SitemapKey()
	if p.serveCached(w, r, key, xmlContentType) {
		return
	}

	body, err := p.blog.Sitemap(r.Context())
	if err != nil {
		p.serverError(w, r, err)
		return
	}
	p.write(w, r, key, xmlContentType, body, true)
}

// TextFile returns a handler serving name from fsys as plain text, used
// for robots.txt and ads.txt.
func TextFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			slog.Error("read static text file failed", "error", err, "file", name)
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", textContentType)
		w.Write(data)
	}
}

// NotFound renders the 404 page.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, http.StatusNotFound, "public/404", &render.PageData{Title: "Page Not Found"})
}

// ServerError renders the 500 page. It is also the panic handler of the
// Recoverer middleware.
func (p *Public) ServerError(w http.ResponseWriter, r *http.Request) {
	p.renderer.Page(w, r, http.StatusInternalServerError, "public/500", &render.PageData{Title: "Server Error"})
}

func (p *Public) serverError(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("request failed", "error", err,
		"request_id", middleware.RequestIDFromCtx(r.Context()),
		"path", r.URL.Path,
	)
	p.ServerError(w, r)
}

func (p *Public) flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if p.sessions == nil {
		return
	}
	if err := p.sessions.AddFlash(w, r, kind, message); err != nil {
		slog.Warn("add flash failed", "error", err)
	}
}

// serveCached writes a cached body and reports whether there was one.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key, contentType string) bool {
	body, ok := p.pageCache.Get(r.Context(), key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(body)
	return true
}

// write sends body and stores it in the page cache when cacheable.
func (p *Public) write(w http.ResponseWriter, r *http.Request, key, contentType string, body []byte, cacheable bool) {
	if cacheable {
		p.pageCache.Set(r.Context(), key, body)
	}
	w.Header().Set("Content-Type", contentType)
	w.Write(body)
}
