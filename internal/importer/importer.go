// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package importer loads posts from the legacy static HTML site. Each
// *.html file in a directory becomes one published post whose slug is the
// file name. Files whose slug already exists are skipped, so the import can
// be re-run safely.
package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"travelclean/internal/models"
	"travelclean/internal/store"
)

// Defaults applied to scraped fields.
const (
	DefaultFallbackCategory = "planning"
	DefaultReadTime         = "10 min read"
	DefaultExcerpt          = "Guide for Nigerians relocating abroad."
	DefaultContent          = "<p>Content coming soon.</p>"

	maxExcerptLen = 500
	maxFeatured   = 6
)

// featuredCategories are the destinations whose first imported posts are
// marked as featured.
var featuredCategories = map[string]bool{
	"uk":      true,
	"canada":  true,
	"germany": true,
}

// CategoryFinder resolves categories for imported posts.
type CategoryFinder interface {
	FindBySlug(ctx context.Context, slug string) (*models.Category, error)
	First(ctx context.Context) (*models.Category, error)
}

// PostWriter checks for and stores imported posts.
type PostWriter interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
	Create(ctx context.Context, p *models.Post) (*models.Post, error)
}

// Result describes what happened to one file.
type Result struct {
	File     string
	Slug     string
	Title    string
	Category string
	Featured bool
	Err      error
}

// Report summarizes an import run.
type Report struct {
	Created []Result
	Skipped []Result
	Failed  []Result
}

// Importer turns legacy HTML articles into posts.
type Importer struct {
	categories CategoryFinder
	posts      PostWriter

	// CategoryMap assigns post slugs to category slugs. Slugs not listed
	// go to Fallback.
	CategoryMap map[string]string
	Fallback    string

	now func() time.Time
}

// New creates an Importer using DefaultCategoryMap and the "planning"
// fallback category.
func New(categories CategoryFinder, posts PostWriter) *Importer {
	return &Importer{
		categories:  categories,
		posts:       posts,
		CategoryMap: DefaultCategoryMap,
		Fallback:    DefaultFallbackCategory,
		now:         time.Now,
	}
}

// Run imports every *.html file in dir in lexical file-name order. A file
// that cannot be read, parsed or stored is logged, recorded in
// Report.Failed and skipped. Run itself only fails when dir cannot be
// listed or ctx is cancelled.
func (im *Importer) Run(ctx context.Context, dir string) (*Report, error) {
	files, err := htmlFiles(dir)
	if err != nil {
		return nil, err
	}

	report := &Report{}
	cache := make(map[string]*models.Category)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		res, err := im.importFile(ctx, path, len(report.Created), cache)
		switch {
		case err == nil:
			report.Created = append(report.Created, res)
			slog.Info("imported post", "slug", res.Slug, "category", res.Category, "featured", res.Featured)
		case errors.Is(err, errExists):
			report.Skipped = append(report.Skipped, res)
			slog.Info("post exists, skipping", "slug", res.Slug)
		default:
			res.Err = err
			report.Failed = append(report.Failed, res)
			slog.Warn("import failed", "file", res.File, "error", err)
		}
	}

	return report, nil
}

var errExists = errors.New("post already exists")

func (im *Importer) importFile(ctx context.Context, path string, created int, cache map[string]*models.Category) (Result, error) {
	name := filepath.Base(path)
	res := Result{File: name, Slug: strings.TrimSuffix(name, ".html")}

	exists, err := im.posts.SlugExists(ctx, res.Slug)
	if err != nil {
		return res, fmt.Errorf("check slug: %w", err)
	}
	if exists {
		return res, errExists
	}

	f, err := os.Open(path)
	if err != nil {
		return res, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	art, err := Parse(f)
	if err != nil {
		return res, err
	}
	res.Title = art.Title
	if art.Title == "" {
		return res, fmt.Errorf("no article title found")
	}

	mapped := im.CategoryMap[res.Slug]
	if mapped == "" {
		mapped = im.Fallback
	}
	cat, err := im.resolveCategory(ctx, mapped, cache)
	if err != nil {
		return res, err
	}
	res.Category = cat.Slug
	res.Featured = featuredCategories[mapped] && created < maxFeatured

	p := &models.Post{
		Title:           art.Title,
		Slug:            res.Slug,
		Excerpt:         truncate(art.Description, maxExcerptLen),
		Content:         art.Content,
		ImageURL:        art.ImageURL,
		ReadTime:        art.ReadTime,
		PublishedDate:   im.now().UTC(),
		IsFeatured:      res.Featured,
		IsPublished:     true,
		CategoryID:      cat.ID,
		MetaDescription: truncate(art.Description, models.MaxMetaDescriptionLen),
		MetaKeywords:    truncate(art.Keywords, models.MaxMetaKeywordsLen),
	}
	if p.Excerpt == "" {
		p.Excerpt = DefaultExcerpt
	}
	if strings.TrimSpace(p.Content) == "" {
		p.Content = DefaultContent
	}
	if p.ReadTime == "" {
		p.ReadTime = DefaultReadTime
	}

	if _, err := im.posts.Create(ctx, p); err != nil {
		return res, fmt.Errorf("store post: %w", err)
	}
	return res, nil
}

// resolveCategory looks up slug, falling back to the first category by
// display order when it does not exist.
func (im *Importer) resolveCategory(ctx context.Context, slug string, cache map[string]*models.Category) (*models.Category, error) {
	if c, ok := cache[slug]; ok {
		return c, nil
	}
	c, err := im.categories.FindBySlug(ctx, slug)
	if errors.Is(err, store.ErrNotFound) {
		c, err = im.categories.First(ctx)
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("no categories exist; run the seed command first")
		}
	}
	if err != nil {
		return nil, fmt.Errorf("resolve category %q: %w", slug, err)
	}
	cache[slug] = c
	return c, nil
}

// htmlFiles lists the *.html files in dir, sorted by name.
func htmlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read import dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n])
}
