package blog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"travelclean/internal/models"
	"travelclean/internal/slug"
	"travelclean/internal/store"
)

// Field length limits, matching the column sizes in the schema.
const (
	maxCategoryNameLen = 100
	maxCategorySlugLen = 100
	maxEmojiLen        = 10
	maxTitleLen        = 200
	maxPostSlugLen     = 200
	maxImageURLLen     = 500
	maxReadTimeLen     = 20
)

// ValidationError reports a rejected form field. Handlers show Message next
// to the form and keep the submitted values.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// Admin is the write side used by the admin panel. It derives slugs,
// applies defaults and validates input before handing rows to the store.
type Admin struct {
	categories CategoryRepository
	posts      PostRepository
	now        func() time.Time
}

// NewAdmin creates an Admin service.
func NewAdmin(categories CategoryRepository, posts PostRepository) *Admin {
	return &Admin{categories: categories, posts: posts, now: time.Now}
}

// Dashboard holds the counts shown on the admin landing page.
type Dashboard struct {
	Categories int
	Posts      store.PostStats
}

// Dashboard returns category and post counts.
func (a *Admin) Dashboard(ctx context.Context) (*Dashboard, error) {
	n, err := a.categories.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	st, err := a.posts.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("dashboard: %w", err)
	}
	return &Dashboard{Categories: n, Posts: st}, nil
}

// --- Categories ---

// Categories lists every category in display order with its post count.
func (a *Admin) Categories(ctx context.Context) ([]models.Category, error) {
	return a.categories.List(ctx)
}

// Category returns one category by ID.
func (a *Admin) Category(ctx context.Context, id int64) (*models.Category, error) {
	return a.categories.FindByID(ctx, id)
}

// CreateCategory validates c, derives its slug from the name when empty and
// stores it.
func (a *Admin) CreateCategory(ctx context.Context, c *models.Category) (*models.Category, error) {
	if err := prepareCategory(c); err != nil {
		return nil, err
	}
	created, err := a.categories.Create(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}
	return created, nil
}

// UpdateCategory validates and saves changes to an existing category. An
// empty slug is derived again from the name.
func (a *Admin) UpdateCategory(ctx context.Context, c *models.Category) error {
	if err := prepareCategory(c); err != nil {
		return err
	}
	if err := a.categories.Update(ctx, c); err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return nil
}

// DeleteCategory removes a category. A category that still owns posts is
// kept and store.ErrConflict is returned.
func (a *Admin) DeleteCategory(ctx context.Context, id int64) error {
	if err := a.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return nil
}

func prepareCategory(c *models.Category) error {
	c.Name = strings.TrimSpace(c.Name)
	c.Slug = strings.TrimSpace(c.Slug)
	c.Emoji = strings.TrimSpace(c.Emoji)

	if c.Name == "" {
		return invalid("name", "Name is required.")
	}
	if utf8.RuneCountInString(c.Name) > maxCategoryNameLen {
		return invalid("name", "Name is too long (max %d characters).", maxCategoryNameLen)
	}
	if err := deriveSlug(&c.Slug, c.Name, maxCategorySlugLen); err != nil {
		return err
	}
	if utf8.RuneCountInString(c.Emoji) > maxEmojiLen {
		return invalid("emoji", "Emoji is too long (max %d characters).", maxEmojiLen)
	}
	return nil
}

// deriveSlug fills an empty slug from source and checks the result.
func deriveSlug(s *string, source string, maxLen int) error {
	if *s == "" {
		*s = slug.Generate(source)
		if *s == "" {
			return invalid("slug", "A slug could not be derived; please enter one.")
		}
	}
	if !slug.Valid(*s) {
		return invalid("slug", "Slug may only contain lowercase letters, digits and single hyphens.")
	}
	if utf8.RuneCountInString(*s) > maxLen {
		return invalid("slug", "Slug is too long (max %d characters).", maxLen)
	}
	return nil
}

// --- Posts ---

// Posts lists posts for the admin panel, published or not.
func (a *Admin) Posts(ctx context.Context, f store.AdminFilter) ([]models.Post, error) {
	return a.posts.List(ctx, f)
}

// Post returns one post by ID regardless of publication state.
func (a *Admin) Post(ctx context.Context, id int64) (*models.Post, error) {
	return a.posts.FindByID(ctx, id)
}

// CreatePost validates p, derives its slug from the title when empty, fills
// defaults and stores it.
func (a *Admin) CreatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	if err := a.preparePost(ctx, p); err != nil {
		return nil, err
	}
	created, err := a.posts.Create(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// UpdatePost validates and saves changes to an existing post. The store
// refreshes the updated date.
func (a *Admin) UpdatePost(ctx context.Context, p *models.Post) (*models.Post, error) {
	if err := a.preparePost(ctx, p); err != nil {
		return nil, err
	}
	if err := a.posts.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update post %d: %w", p.ID, err)
	}
	return a.posts.FindByID(ctx, p.ID)
}

// DeletePost removes a post.
func (a *Admin) DeletePost(ctx context.Context, id int64) error {
	if err := a.posts.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete post %d: %w", id, err)
	}
	return nil
}

func (a *Admin) preparePost(ctx context.Context, p *models.Post) error {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	p.ImageURL = strings.TrimSpace(p.ImageURL)
	p.ReadTime = strings.TrimSpace(p.ReadTime)
	p.MetaDescription = strings.TrimSpace(p.MetaDescription)
	p.MetaKeywords = strings.TrimSpace(p.MetaKeywords)

	if p.Title == "" {
		return invalid("title", "Title is required.")
	}
	if utf8.RuneCountInString(p.Title) > maxTitleLen {
		return invalid("title", "Title is too long (max %d characters).", maxTitleLen)
	}
	if err := deriveSlug(&p.Slug, p.Title, maxPostSlugLen); err != nil {
		return err
	}
	if strings.TrimSpace(p.Excerpt) == "" {
		return invalid("excerpt", "Excerpt is required.")
	}
	if strings.TrimSpace(p.Content) == "" {
		return invalid("content", "Content is required.")
	}
	if utf8.RuneCountInString(p.ImageURL) > maxImageURLLen {
		return invalid("image_url", "Image URL is too long (max %d characters).", maxImageURLLen)
	}
	if p.ReadTime == "" {
		p.ReadTime = models.DefaultReadTime
	}
	if utf8.RuneCountInString(p.ReadTime) > maxReadTimeLen {
		return invalid("read_time", "Read time is too long (max %d characters).", maxReadTimeLen)
	}
	if utf8.RuneCountInString(p.MetaDescription) > models.MaxMetaDescriptionLen {
		return invalid("meta_description", "Meta description is too long (max %d characters).", models.MaxMetaDescriptionLen)
	}
	if utf8.RuneCountInString(p.MetaKeywords) > models.MaxMetaKeywordsLen {
		return invalid("meta_keywords", "Meta keywords are too long (max %d characters).", models.MaxMetaKeywordsLen)
	}

	if p.CategoryID == 0 {
		return invalid("category_id", "Category is required.")
	}
	if _, err := a.categories.FindByID(ctx, p.CategoryID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return invalid("category_id", "Category does not exist.")
		}
		return fmt.Errorf("check category: %w", err)
	}

	if p.PublishedDate.IsZero() {
		p.PublishedDate = a.now()
	}
	p.PublishedDate = p.PublishedDate.UTC()
	return nil
}
