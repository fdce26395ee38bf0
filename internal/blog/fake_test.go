package blog

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"travelclean/internal/models"
	"travelclean/internal/store"
)

// memDB is an in-memory stand-in for PostgreSQL that enforces the same
// uniqueness, foreign-key and ordering rules as the real schema.
type memDB struct {
	mu         sync.Mutex
	nextID     int64
	categories map[int64]models.Category
	posts      map[int64]models.Post
	clock      func() time.Time
}

func newMemDB() *memDB {
	return &memDB{
		categories: make(map[int64]models.Category),
		posts:      make(map[int64]models.Post),
		clock:      func() time.Time { return time.Now().UTC() },
	}
}

func (db *memDB) id() int64 {
	db.nextID++
	return db.nextID
}

type memCategories struct{ db *memDB }

type memPosts struct{ db *memDB }

// --- categories ---

func (m memCategories) List(_ context.Context) ([]models.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []models.Category
	for _, c := range m.db.categories {
		c.PostCount = 0
		for _, p := range m.db.posts {
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
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	c, ok := m.db.categories[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (m memCategories) FindBySlug(_ context.Context, slug string) (*models.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, c := range m.db.categories {
		if c.Slug == slug {
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memCategories) conflict(c *models.Category) error {
	for _, other := range m.db.categories {
		if other.ID == c.ID {
			continue
		}
		if other.Slug == c.Slug {
			return &store.ConstraintError{Constraint: "categories_slug_key"}
		}
		if other.Name == c.Name {
			return &store.ConstraintError{Constraint: "categories_name_key"}
		}
	}
	return nil
}

func (m memCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.conflict(c); err != nil {
		return nil, err
	}
	saved := *c
	saved.ID = m.db.id()
	m.db.categories[saved.ID] = saved
	return &saved, nil
}

func (m memCategories) Update(_ context.Context, c *models.Category) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.categories[c.ID]; !ok {
		return store.ErrNotFound
	}
	if err := m.conflict(c); err != nil {
		return err
	}
	m.db.categories[c.ID] = *c
	return nil
}

func (m memCategories) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.categories[id]; !ok {
		return store.ErrNotFound
	}
	for _, p := range m.db.posts {
		if p.CategoryID == id {
			return &store.ConstraintError{Constraint: "posts_category_id_fkey"}
		}
	}
	delete(m.db.categories, id)
	return nil
}

func (m memCategories) Count(_ context.Context) (int, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	return len(m.db.categories), nil
}

// --- posts ---

func (m memPosts) withCategory(p models.Post) models.Post {
	if c, ok := m.db.categories[p.CategoryID]; ok {
		p.Category = &c
	}
	return p
}

func sortPosts(items []models.Post) {
	sort.Slice(items, func(i, j int) bool {
		if !items[i].PublishedDate.Equal(items[j].PublishedDate) {
			return items[i].PublishedDate.After(items[j].PublishedDate)
		}
		return items[i].ID > items[j].ID
	})
}

func (m memPosts) ListPublished(_ context.Context, f store.PublishedFilter) ([]models.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var out []models.Post
	for _, p := range m.db.posts {
		if !p.IsPublished {
			continue
		}
		if f.FeaturedOnly && !p.IsFeatured {
			continue
		}
		if f.CategoryID != 0 && p.CategoryID != f.CategoryID {
			continue
		}
		if f.ExcludeID != 0 && p.ID == f.ExcludeID {
			continue
		}
		out = append(out, m.withCategory(p))
	}
	sortPosts(out)
	if f.Limit > 0 && len(out) > f.Limit {
		out = out[:f.Limit]
	}
	return out, nil
}

func (m memPosts) FindPublishedBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, p := range m.db.posts {
		if p.Slug == slug && p.IsPublished {
			p = m.withCategory(p)
			return &p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m memPosts) FindByID(_ context.Context, id int64) (*models.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	p, ok := m.db.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	p = m.withCategory(p)
	return &p, nil
}

func (m memPosts) SlugExists(_ context.Context, slug string) (bool, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	for _, p := range m.db.posts {
		if p.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func (m memPosts) List(_ context.Context, f store.AdminFilter) ([]models.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	q := strings.ToLower(strings.TrimSpace(f.Search))
	var out []models.Post
	for _, p := range m.db.posts {
		if q != "" && !strings.Contains(strings.ToLower(p.Title+" "+p.Slug+" "+p.Excerpt), q) {
			continue
		}
		if f.Featured != nil && p.IsFeatured != *f.Featured {
			continue
		}
		if f.Published != nil && p.IsPublished != *f.Published {
			continue
		}
		out = append(out, m.withCategory(p))
	}
	sortPosts(out)
	return out, nil
}

func (m memPosts) check(p *models.Post) error {
	if _, ok := m.db.categories[p.CategoryID]; !ok {
		return &store.ConstraintError{Constraint: "posts_category_id_fkey"}
	}
	for _, other := range m.db.posts {
		if other.ID != p.ID && other.Slug == p.Slug {
			return &store.ConstraintError{Constraint: "posts_slug_key"}
		}
	}
	return nil
}

func (m memPosts) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if err := m.check(p); err != nil {
		return nil, err
	}
	saved := *p
	saved.ID = m.db.id()
	saved.PublishedDate = saved.PublishedDate.UTC()
	saved.UpdatedDate = m.db.clock()
	saved.Category = nil
	m.db.posts[saved.ID] = saved
	out := m.withCategory(saved)
	return &out, nil
}

func (m memPosts) Update(_ context.Context, p *models.Post) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.posts[p.ID]; !ok {
		return store.ErrNotFound
	}
	if err := m.check(p); err != nil {
		return err
	}
	saved := *p
	saved.Category = nil
	saved.UpdatedDate = m.db.clock()
	m.db.posts[p.ID] = saved
	return nil
}

func (m memPosts) Delete(_ context.Context, id int64) error {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	if _, ok := m.db.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.db.posts, id)
	return nil
}

func (m memPosts) Stats(_ context.Context) (store.PostStats, error) {
	m.db.mu.Lock()
	defer m.db.mu.Unlock()
	var st store.PostStats
	for _, p := range m.db.posts {
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

// fixture bundles a memDB with helpers for seeding rows.
type fixture struct {
	db         *memDB
	categories memCategories
	posts      memPosts
	base       time.Time
}

func newFixture() *fixture {
	db := newMemDB()
	return &fixture{
		db:         db,
		categories: memCategories{db: db},
		posts:      memPosts{db: db},
		base:       time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fixture) category(name, slug string, order int) models.Category {
	c, err := f.categories.Create(context.Background(), &models.Category{Name: name, Slug: slug, DisplayOrder: order})
	if err != nil {
		panic(err)
	}
	return *c
}

// post stores a published post dated day days after the fixture base.
func (f *fixture) post(categoryID int64, slug string, day int, mutate ...func(*models.Post)) models.Post {
	p := models.NewPost()
	p.Title = slug
	p.Slug = slug
	p.Excerpt = "excerpt"
	p.Content = "<p>content</p>"
	p.CategoryID = categoryID
	p.PublishedDate = f.base.AddDate(0, 0, day)
	for _, fn := range mutate {
		fn(p)
	}
	created, err := f.posts.Create(context.Background(), p)
	if err != nil {
		panic(err)
	}
	return *created
}

func featured(p *models.Post)    { p.IsFeatured = true }
func unpublished(p *models.Post) { p.IsPublished = false }

func slugs(posts []models.Post) []string {
	out := make([]string, len(posts))
	for i, p := range posts {
		out[i] = p.Slug
	}
	return out
}
