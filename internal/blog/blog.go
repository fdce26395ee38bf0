// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package blog implements the read side of the site (home feed, category
// grouped index, post detail with related posts and the sitemap) and the
// admin service used by the CRUD handlers. It depends on small repository
// interfaces satisfied by the store package.
package blog

import (
	"context"
	"fmt"

	"travelclean/internal/models"
	"travelclean/internal/sitemap"
	"travelclean/internal/store"
)

// Listing sizes for the public pages.
const (
	HomeFeaturedLimit = 6
	HomeRecentLimit   = 9
	RelatedLimit      = 3
)

// CategoryRepository is the category persistence the blog needs.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id int64) (*models.Category, error)
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context) (int, error)
}

// PostRepository is the post persistence the blog needs.
type PostRepository interface {
	ListPublished(ctx context.Context, f store.PublishedFilter) ([]models.Post, error)
	FindPublishedBySlug(ctx context.Context, slug string) (*models.Post, error)
	FindByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, f store.AdminFilter) ([]models.Post, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (store.PostStats, error)
}

// Service answers the public read queries.
type Service struct {
	categories CategoryRepository
	posts      PostRepository
	baseURL    string
}

// NewService creates a Service. baseURL is the absolute site URL used in
// the sitemap.
func NewService(categories CategoryRepository, posts PostRepository, baseURL string) *Service {
	return &Service{categories: categories, posts: posts, baseURL: baseURL}
}

// HomeFeed is the content of the home page.
type HomeFeed struct {
	Featured []models.Post
	Recent   []models.Post
}

// Home returns up to six featured and up to nine recent published posts,
// newest first.
func (s *Service) Home(ctx context.Context) (*HomeFeed, error) {
	featured, err := s.posts.ListPublished(ctx, store.PublishedFilter{
		FeaturedOnly: true,
		Limit:        HomeFeaturedLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("home featured: %w", err)
	}
	recent, err := s.posts.ListPublished(ctx, store.PublishedFilter{Limit: HomeRecentLimit})
	if err != nil {
		return nil, fmt.Errorf("home recent: %w", err)
	}
	return &HomeFeed{Featured: featured, Recent: recent}, nil
}

// CategoryPosts is one section of the blog index.
type CategoryPosts struct {
	Category models.Category
	Posts    []models.Post
}

// BlogIndex groups published posts by category. Sections follow category
// display order and only categories with at least one published post
// appear. A non-empty filter keeps only the category with that slug; an
// unknown slug yields no sections.
func (s *Service) BlogIndex(ctx context.Context, categorySlug string) ([]CategoryPosts, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("blog index: %w", err)
	}

	var sections []CategoryPosts
	for _, c := range cats {
		if categorySlug != "" && c.Slug != categorySlug {
			continue
		}
		posts, err := s.posts.ListPublished(ctx, store.PublishedFilter{CategoryID: c.ID})
		if err != nil {
			return nil, fmt.Errorf("blog index %s: %w", c.Slug, err)
		}
		if len(posts) == 0 {
			continue
		}
		sections = append(sections, CategoryPosts{Category: c, Posts: posts})
	}
	return sections, nil
}

// Categories returns every category in display order, for navigation.
func (s *Service) Categories(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}

// PostPage is a post together with related posts from its category.
type PostPage struct {
	Post    *models.Post
	Related []models.Post
}

// PostDetail returns the published post with the given slug and up to three
// other published posts from the same category. Missing or unpublished
// posts yield store.ErrNotFound.
func (s *Service) PostDetail(ctx context.Context, slug string) (*PostPage, error) {
	post, err := s.posts.FindPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("post detail %q: %w", slug, err)
	}
	related, err := s.posts.ListPublished(ctx, store.PublishedFilter{
		CategoryID: post.CategoryID,
		ExcludeID:  post.ID,
		Limit:      RelatedLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("related posts %q: %w", slug, err)
	}
	return &PostPage{Post: post, Related: related}, nil
}

// Sitemap renders the sitemap from every published post.
func (s *Service) Sitemap(ctx context.Context) ([]byte, error) {
	posts, err := s.posts.ListPublished(ctx, store.PublishedFilter{})
	if err != nil {
		return nil, fmt.Errorf("sitemap posts: %w", err)
	}
	return sitemap.Build(s.baseURL, posts)
}
