// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"travelclean/internal/models"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// postSelect selects every post column plus the owning category.
const postSelect = `
	SELECT p.id, p.title, p.slug, p.excerpt, p.content, p.image_url, p.read_time,
	       p.published_date, p.updated_date, p.is_featured, p.is_published,
	       p.category_id, p.meta_description, p.meta_keywords,
	       c.id, c.name, c.slug, c.emoji, c.display_order
	FROM posts p
	JOIN categories c ON c.id = p.category_id`

// postOrder is the listing order. Equal dates fall back to the newest id.
const postOrder = ` ORDER BY p.published_date DESC, p.id DESC`

// scanPost scans a postSelect row. Timestamps are normalized to UTC.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var c models.Category
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.ImageURL, &p.ReadTime,
		&p.PublishedDate, &p.UpdatedDate, &p.IsFeatured, &p.IsPublished,
		&p.CategoryID, &p.MetaDescription, &p.MetaKeywords,
		&c.ID, &c.Name, &c.Slug, &c.Emoji, &c.DisplayOrder,
	)
	if err != nil {
		return nil, err
	}
	p.PublishedDate = p.PublishedDate.UTC()
	p.UpdatedDate = p.UpdatedDate.UTC()
	p.Category = &c
	return &p, nil
}

func (s *PostStore) query(ctx context.Context, q string, args ...any) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		items = append(items, *p)
	}
	return items, rows.Err()
}

// PublishedFilter narrows ListPublished. Zero values mean "no constraint".
type PublishedFilter struct {
	CategoryID   int64
	ExcludeID    int64
	FeaturedOnly bool
	Limit        int
}

// ListPublished returns published posts matching the filter, newest first.
func (s *PostStore) ListPublished(ctx context.Context, f PublishedFilter) ([]models.Post, error) {
	var b queryBuilder
	b.where("p.is_published")
	if f.FeaturedOnly {
		b.where("p.is_featured")
	}
	if f.CategoryID != 0 {
		b.where("p.category_id = "+b.arg(f.CategoryID))
	}
	if f.ExcludeID != 0 {
		b.where("p.id <> "+b.arg(f.ExcludeID))
	}

	q := postSelect + b.clause() + postOrder
	if f.Limit > 0 {
		q += " LIMIT " + b.arg(f.Limit)
	}

	items, err := s.query(ctx, q, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return items, nil
}

// FindPublishedBySlug retrieves a published post by slug. Unpublished posts
// are reported as ErrNotFound.
func (s *PostStore) FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, postSelect+` WHERE p.slug = $1 AND p.is_published`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindByID retrieves a post by ID regardless of its publication state.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, postSelect+` WHERE p.id = $1`, id)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// SlugExists reports whether any post, published or not, uses slug.
func (s *PostStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRowContext(ctx, `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("post slug exists: %w", err)
	}
	return exists, nil
}

// AdminFilter narrows List for the admin panel. Nil pointers mean "any".
type AdminFilter struct {
	Search    string // case-insensitive match on title, slug or excerpt
	Featured  *bool
	Published *bool
}

// List returns every post matching the admin filter, newest first.
func (s *PostStore) List(ctx context.Context, f AdminFilter) ([]models.Post, error) {
	var b queryBuilder
	if q := strings.TrimSpace(f.Search); q != "" {
		p := b.arg("%" + escapeLike(q) + "%")
		b.where("(p.title ILIKE " + p + " OR p.slug ILIKE " + p + " OR p.excerpt ILIKE " + p + ")")
	}
	if f.Featured != nil {
		b.where("p.is_featured = " + b.arg(*f.Featured))
	}
	if f.Published != nil {
		b.where("p.is_published = " + b.arg(*f.Published))
	}

	items, err := s.query(ctx, postSelect+b.clause()+postOrder, b.args...)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	return items, nil
}

// Create inserts a new post and returns it with the generated ID.
// updated_date is set to the insert time regardless of p.UpdatedDate. A
// duplicate slug or a missing category yields ErrConflict. The caller is
// expected to have applied defaults (see models.NewPost).
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	var id int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, excerpt, content, image_url, read_time,
		                   published_date, updated_date, is_featured, is_published,
		                   category_id, meta_description, meta_keywords)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW(), $8, $9, $10, $11, $12)
		RETURNING id
	`, p.Title, p.Slug, p.Excerpt, p.Content, p.ImageURL, p.ReadTime,
		p.PublishedDate.UTC(), p.IsFeatured, p.IsPublished,
		p.CategoryID, p.MetaDescription, p.MetaKeywords,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", mapError(err))
	}
	return s.FindByID(ctx, id)
}

// Update modifies an existing post and refreshes updated_date.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE posts SET
			title = $1, slug = $2, excerpt = $3, content = $4, image_url = $5,
			read_time = $6, published_date = $7, is_featured = $8, is_published = $9,
			category_id = $10, meta_description = $11, meta_keywords = $12,
			updated_date = NOW()
		WHERE id = $13
	`, p.Title, p.Slug, p.Excerpt, p.Content, p.ImageURL,
		p.ReadTime, p.PublishedDate.UTC(), p.IsFeatured, p.IsPublished,
		p.CategoryID, p.MetaDescription, p.MetaKeywords, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update post: %w", mapError(err))
	}
	return expectOneRow(res, "update post")
}

// Delete removes a post by ID.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return expectOneRow(res, "delete post")
}

// PostStats summarizes the posts table for the admin dashboard.
type PostStats struct {
	Total     int
	Published int
	Featured  int
}

// Stats returns post counts.
func (s *PostStore) Stats(ctx context.Context) (PostStats, error) {
	var st PostStats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_published),
		       COUNT(*) FILTER (WHERE is_published AND is_featured)
		FROM posts
	`).Scan(&st.Total, &st.Published, &st.Featured)
	if err != nil {
		return PostStats{}, fmt.Errorf("post stats: %w", err)
	}
	return st, nil
}

// queryBuilder accumulates WHERE conditions and positional arguments.
type queryBuilder struct {
	conds []string
	args  []any
}

// arg appends a value and returns its placeholder.
func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *queryBuilder) clause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conds, " AND ")
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
