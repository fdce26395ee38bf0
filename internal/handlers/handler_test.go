// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Handlers run against in-memory repositories; the page cache tests need
// Valkey and are skipped when it is unavailable.
package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"travelclean/internal/blog"
	"travelclean/internal/cache"
	"travelclean/internal/models"
	"travelclean/internal/render"
	"travelclean/internal/session"
	"travelclean/internal/store"
)

// memRepo is an in-memory stand-in for the category and post stores with
// the same uniqueness, foreign-key and ordering rules.
type memRepo struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]models.Category
	posts      map[int64]models.Post
}

func newMemRepo() *memRepo {
	return &memRepo{
		categories: make(map[int64]models.Category),
		posts:      make(map[int64]models.Post),
	}
}

type memCategories struct{ *memRepo }

type memPosts struct{ *memRepo }

func (m memCategories) List(context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Category
	for _, c := range m.categories {
		for _, p := range m.posts {
			if p.CategoryID == c.ID {
				c.PostCount++
			}
		}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayOrder != out[j].DisplayOrder {
			return out[i].DisplayOrder < out[j].DisplayOrder
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m memCategories) FindByID(_ context.Context, id int64) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m memCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memCategories) conflict(c *models.Category) error {
	for _, other := range m.categories {
		switch {
		case other.ID == c.ID:
		case other.Slug == c.Slug:
			return &store.ConstraintError{Constraint: "categories_slug_key"}
		case other.Name == c.Name:
			return &store.ConstraintError{Constraint: "categories_name_key"}
		}
	}
	return nil
}

func (m memCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.conflict(c); err != nil {
		return nil, err
	}
	m.nextID++
	saved := *c
	saved.ID = m.nextID
	m.categories[saved.ID] = saved
	return &saved, nil
}

func (m memCategories) Update(_ context.Context, c *models.Category) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[c.ID]; !ok {
		return store.ErrNotFound
	}
	if err := m.conflict(c); err != nil {
		return err
	}
	m.categories[c.ID] = *c
	return nil
}

func (m memCategories) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.categories[id]; !ok {
		return store.ErrNotFound
	}
	for _, p := range m.posts {
		if p.CategoryID == id {
			return &store.ConstraintError{Constraint: "posts_category_id_fkey"}
		}
	}
	delete(m.categories, id)
	return nil
}

func (m memCategories) Count(context.Context) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.categories), nil
}

func (m memPosts) join(p models.Post) models.Post {
	if c, ok := m.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func (m memPosts) filter(keep func(models.Post) bool) []models.Post {
	var out []models.Post
	for _, p := range m.posts {
		if keep(p) {
			out = append(out, m.join(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PublishedDate.Equal(out[j].PublishedDate) {
			return out[i].PublishedDate.After(out[j].PublishedDate)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func (m memPosts) ListPublished(_ context.Context, f store.PublishedFilter) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filter(func(p models.Post) bool {
		return p.IsPublished &&
			(!f.FeaturedOnly || p.IsFeatured) &&
			(f.CategoryID == 0 || p.CategoryID == f.CategoryID) &&
			(f.ExcludeID == 0 || p.ID != f.ExcludeID)
	})
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m memPosts) FindPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.filter(func(p models.Post) bool { return p.IsPublished && p.Slug == slug })
	if len(out) == 0 {
		return nil, store.ErrNotFound
	}
	return &out[0], nil
}

func (m memPosts) FindByID(_ context.Context, id int64) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = m.join(p)
	return &p, nil
}

func (m memPosts) List(_ context.Context, f store.AdminFilter) ([]models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	q := strings.ToLower(f.Search)
	return m.filter(func(p models.Post) bool {
		return (q == "" || strings.Contains(strings.ToLower(p.Title+" "+p.Slug+" "+p.Excerpt), q)) &&
			(f.Featured == nil || p.IsFeatured == *f.Featured) &&
			(f.Published == nil || p.IsPublished == *f.Published)
	}), nil
}

func (m memPosts) check(p *models.Post) error {
	if _, ok := m.categories[p.CategoryID]; !ok {
		return &store.ConstraintError{Constraint: "posts_category_id_fkey"}
	}
	for _, other := range m.posts {
		if other.ID != p.ID && other.Slug == p.Slug {
			return &store.ConstraintError{Constraint: "posts_slug_key"}
		}
	}
	return nil
}

func (m memPosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.check(p); err != nil {
		return nil, err
	}
	m.nextID++
	saved := *p
	saved.ID = m.nextID
	saved.UpdatedDate = time.Now().UTC()
	saved.Category = nil
	m.posts[saved.ID] = saved
	out := m.join(saved)
	return &out, nil
}

func (m memPosts) Update(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[p.ID]; !ok {
		return store.ErrNotFound
	}
	if err := m.check(p); err != nil {
		return err
	}
	saved := *p
	saved.Category = nil
	saved.UpdatedDate = time.Now().UTC()
	m.posts[p.ID] = saved
	return nil
}

func (m memPosts) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m memPosts) Stats(context.Context) (store.PostStats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var st store.PostStats
	for _, p := range m.posts {
		st.Total++
		if p.IsPublished {
			st.Published++
			if p.IsFeatured {
				st.Featured++
			}
		}
	}
	return st, nil
}

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	Repo       *memRepo
	Categories memCategories
	Posts      memPosts
	Renderer   *render.Renderer
	Sessions   *session.Store
	PageCache  *cache.PageCache
	Admin      *Admin
	Public     *Public
}

// newTestEnv creates a handler environment backed by memory. pageCache may
// be nil.
func newTestEnv(t *testing.T, pageCache *cache.PageCache) *testEnv {
	t.Helper()

	repo := newMemRepo()
	cats := memCategories{repo}
	posts := memPosts{repo}

	sessions := session.NewStore("handler-test-secret-0123456789abcdef", false)
	renderer, err := render.New(render.Site{
		Name:         "Travel Clean & Legal",
		Description:  "Your Complete Guide to Relocating from Nigeria",
		URL:          "https://example.com",
		ContactEmail: "hello@example.com",
	}, sessions)
	if err != nil {
		t.Fatalf("render.New: %v", err)
	}

	svc := blog.NewService(cats, posts, "https://example.com")
	return &testEnv{
		Repo:       repo,
		Categories: cats,
		Posts:      posts,
		Renderer:   renderer,
		Sessions:   sessions,
		PageCache:  pageCache,
		Admin:      NewAdmin(renderer, sessions, blog.NewAdmin(cats, posts), pageCache),
		Public:     NewPublic(renderer, svc, sessions, pageCache),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testPageCache returns a page cache on Valkey DB 15, skipping the test
// when Valkey is not reachable.
func testPageCache(t *testing.T) *cache.PageCache {
	t.Helper()

	client := redis.NewClient(&redis.Options{
		Addr:     envOr("VALKEY_HOST", "localhost") + ":" + envOr("VALKEY_PORT", "6379"),
		Password: os.Getenv("VALKEY_PASSWORD"),
		DB:       15,
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping: Valkey not reachable: %v", err)
	}

	pc := cache.NewPageCache(client, time.Minute)
	pc.InvalidateAll(ctx)
	t.Cleanup(func() {
		pc.InvalidateAll(ctx)
		client.Close()
	})
	return pc
}

func (env *testEnv) category(t *testing.T, name, slug string, order int) models.Category {
	t.Helper()
	c, err := env.Categories.Create(context.Background(), &models.Category{Name: name, Slug: slug, DisplayOrder: order})
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return *c
}

// post stores a published post dated day days into 2025.
func (env *testEnv) post(t *testing.T, categoryID int64, slug string, day int, mutate ...func(*models.Post)) models.Post {
	t.Helper()
	p := models.NewPost()
	p.Title = "Title " + slug
	p.Slug = slug
	p.Excerpt = "Excerpt for " + slug
	p.Content = "<p>Body of " + slug + "</p>"
	p.CategoryID = categoryID
	p.PublishedDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day)
	for _, fn := range mutate {
		fn(p)
	}
	created, err := env.Posts.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	return *created
}

func featured(p *models.Post)    { p.IsFeatured = true }
func unpublished(p *models.Post) { p.IsPublished = false }

// withChiURLParam adds a chi URL parameter to a request.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// formRequest builds a POST request with a url-encoded body.
func formRequest(target string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// flashesAfter returns the flash messages carried by the cookies of a
// redirect response.
func (env *testEnv) flashesAfter(t *testing.T, rec *httptest.ResponseRecorder) []session.Flash {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return env.Sessions.Flashes(httptest.NewRecorder(), req)
}
