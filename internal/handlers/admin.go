// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Travel Clean & Legal
// site. Handlers are grouped by concern (public, admin) and receive their
// dependencies through the handler struct.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"travelclean/internal/blog"
	"travelclean/internal/cache"
	"travelclean/internal/middleware"
	"travelclean/internal/models"
	"travelclean/internal/render"
	"travelclean/internal/session"
	"travelclean/internal/store"
)

// DraftNotice is flashed after saving a post that is not published.
const DraftNotice = "This post is a draft and is hidden from the public site."

// Admin groups all admin panel HTTP handlers and their dependencies.
// Every successful write flushes the public page cache.
type Admin struct {
	renderer  *render.Renderer
	sessions  *session.Store
	admin     *blog.Admin
	pageCache *cache.PageCache
}

// NewAdmin creates a new Admin handler group. pageCache may be nil.
func NewAdmin(renderer *render.Renderer, sessions *session.Store, svc *blog.Admin, pageCache *cache.PageCache) *Admin {
	return &Admin{
		renderer:  renderer,
		sessions:  sessions,
		admin:     svc,
		pageCache: pageCache,
	}
}

// Dashboard renders the admin dashboard with category and post counts.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	d, err := a.admin.Dashboard(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.renderer.Page(w, r, http.StatusOK, "admin/dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    map[string]any{"Dashboard": d},
	})
}

// --- Categories CRUD ---

// CategoriesList renders all categories in display order.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	items, err := a.admin.Categories(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.renderer.Page(w, r, http.StatusOK, "admin/categories_list", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data:    map[string]any{"Items": items},
	})
}

// CategoryNew renders the new category form.
func (a *Admin) CategoryNew(w http.ResponseWriter, r *http.Request) {
	a.categoryForm(w, r, http.StatusOK, &models.Category{}, true, "")
}

// CategoryCreate handles the new category form submission.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	c, errMsg := categoryFromForm(r)
	if errMsg != "" {
		a.categoryForm(w, r, http.StatusUnprocessableEntity, c, true, errMsg)
		return
	}

	created, err := a.admin.CreateCategory(r.Context(), c)
	if err != nil {
		if msg := formMessage(err, "category"); msg != "" {
			a.categoryForm(w, r, http.StatusUnprocessableEntity, c, true, msg)
			return
		}
		a.fail(w, r, err)
		return
	}

	a.changed(w, r, "category created", fmt.Sprintf("Category %q created.", created.Name))
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryEdit renders the edit form for a category.
func (a *Admin) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	c, err := a.admin.Category(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.categoryForm(w, r, http.StatusOK, c, false, "")
}

// CategoryUpdate handles the edit category form submission.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	c, errMsg := categoryFromForm(r)
	c.ID = id
	if errMsg != "" {
		a.categoryForm(w, r, http.StatusUnprocessableEntity, c, false, errMsg)
		return
	}

	err = a.admin.UpdateCategory(r.Context(), c)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		if msg := formMessage(err, "category"); msg != "" {
			a.categoryForm(w, r, http.StatusUnprocessableEntity, c, false, msg)
			return
		}
		a.fail(w, r, err)
		return
	}

	a.changed(w, r, "category updated", fmt.Sprintf("Category %q saved.", c.Name))
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category. Categories that still own posts are
// kept and an error is flashed.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	err = a.admin.DeleteCategory(r.Context(), id)
	switch {
	case err == nil:
		a.changed(w, r, "category deleted", "Category deleted.")
	case errors.Is(err, store.ErrConflict):
		a.flash(w, r, session.FlashError, "This category still has posts. Move or delete them first.")
	case errors.Is(err, store.ErrNotFound):
		a.flash(w, r, session.FlashError, "Category not found.")
	default:
		a.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

func (a *Admin) categoryForm(w http.ResponseWriter, r *http.Request, status int, c *models.Category, isNew bool, errMsg string) {
	title := "Edit Category"
	if isNew {
		title = "New Category"
	}
	a.renderer.Page(w, r, status, "admin/category_form", &render.PageData{
		Title:   title,
		Section: "categories",
		Data: map[string]any{
			"Item":  c,
			"IsNew": isNew,
			"Error": errMsg,
		},
	})
}

// --- Posts CRUD ---

// PostsList renders the posts management page. The q, featured and
// published query parameters narrow the list.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	filter := adminFilter(r)
	items, err := a.admin.Posts(r.Context(), filter)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	q := r.URL.Query()
	a.renderer.Page(w, r, http.StatusOK, "admin/posts_list", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Data: map[string]any{
			"Items":     items,
			"Search":    filter.Search,
			"Featured":  q.Get("featured"),
			"Published": q.Get("published"),
		},
	})
}

// PostNew renders the new post form with the column defaults.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	a.postForm(w, r, http.StatusOK, models.NewPost(), true, "")
}

// PostCreate handles the new post form submission.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	p, errMsg := postFromForm(r)
	if errMsg != "" {
		a.postForm(w, r, http.StatusUnprocessableEntity, p, true, errMsg)
		return
	}

	created, err := a.admin.CreatePost(r.Context(), p)
	if err != nil {
		if msg := formMessage(err, "post"); msg != "" {
			a.postForm(w, r, http.StatusUnprocessableEntity, p, true, msg)
			return
		}
		a.fail(w, r, err)
		return
	}

	a.changed(w, r, "post created", fmt.Sprintf("Post %q created.", created.Title), draftNotice(created)...)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostEdit renders the edit form for a post.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	p, err := a.admin.Post(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.postForm(w, r, http.StatusOK, p, false, "")
}

// PostUpdate handles the edit post form submission.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	p, errMsg := postFromForm(r)
	p.ID = id
	if errMsg != "" {
		a.postForm(w, r, http.StatusUnprocessableEntity, p, false, errMsg)
		return
	}

	updated, err := a.admin.UpdatePost(r.Context(), p)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}
	if err != nil {
		if msg := formMessage(err, "post"); msg != "" {
			a.postForm(w, r, http.StatusUnprocessableEntity, p, false, msg)
			return
		}
		a.fail(w, r, err)
		return
	}

	a.changed(w, r, "post updated", fmt.Sprintf("Post %q saved.", updated.Title), draftNotice(updated)...)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostDelete removes a post.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		http.Error(w, "Invalid ID", http.StatusBadRequest)
		return
	}

	err = a.admin.DeletePost(r.Context(), id)
	switch {
	case err == nil:
		a.changed(w, r, "post deleted", "Post deleted.")
	case errors.Is(err, store.ErrNotFound):
		a.flash(w, r, session.FlashError, "Post not found.")
	default:
		a.fail(w, r, err)
		return
	}
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

func (a *Admin) postForm(w http.ResponseWriter, r *http.Request, status int, p *models.Post, isNew bool, errMsg string) {
	cats, err := a.admin.Categories(r.Context())
	if err != nil {
		a.fail(w, r, err)
		return
	}
	title := "Edit Post"
	if isNew {
		title = "New Post"
	}
	a.renderer.Page(w, r, status, "admin/post_form", &render.PageData{
		Title:   title,
		Section: "posts",
		Data: map[string]any{
			"Item":       p,
			"IsNew":      isNew,
			"Categories": cats,
			"Error":      errMsg,
		},
	})
}

// --- Shared helpers ---

// formMessage turns validation and constraint errors into a message for
// the form. Other errors yield "".
func formMessage(err error, kind string) string {
	var ve *blog.ValidationError
	if errors.As(err, &ve) {
		return ve.Message
	}
	var ce *store.ConstraintError
	if errors.As(err, &ce) {
		switch {
		case strings.Contains(ce.Constraint, "name"):
			return fmt.Sprintf("A %s with this name already exists.", kind)
		case strings.Contains(ce.Constraint, "category"):
			return "The selected category no longer exists."
		}
		return fmt.Sprintf("A %s with this slug already exists.", kind)
	}
	if errors.Is(err, store.ErrConflict) {
		return fmt.Sprintf("A %s with this slug already exists.", kind)
	}
	return ""
}

// changed flushes the public page cache after a write and confirms it,
// followed by any extra notices.
func (a *Admin) changed(w http.ResponseWriter, r *http.Request, action, message string, extra ...session.Flash) {
	a.pageCache.InvalidateAll(r.Context())
	slog.Info("page cache invalidated", "action", action)
	if a.sessions == nil {
		return
	}
	flashes := append([]session.Flash{{Type: session.FlashSuccess, Message: message}}, extra...)
	if err := a.sessions.AddFlashes(w, r, flashes...); err != nil {
		slog.Warn("add flash failed", "error", err)
	}
}

// draftNotice tells the editor that an unpublished post is not on the site.
func draftNotice(p *models.Post) []session.Flash {
	if p.IsPublished {
		return nil
	}
	return []session.Flash{{Type: session.FlashInfo, Message: DraftNotice}}
}

func (a *Admin) flash(w http.ResponseWriter, r *http.Request, kind, message string) {
	if a.sessions == nil {
		return
	}
	if err := a.sessions.AddFlash(w, r, kind, message); err != nil {
		slog.Warn("add flash failed", "error", err)
	}
}

func (a *Admin) fail(w http.ResponseWriter, r *http.Request, err error) {
	slog.Error("admin request failed", "error", err,
		"request_id", middleware.RequestIDFromCtx(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
	)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}
