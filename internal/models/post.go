// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Field defaults and limits for posts.
const (
	DefaultReadTime = "5 min read"

	MaxMetaDescriptionLen = 300
	MaxMetaKeywordsLen    = 300
)

// displayDateLayout renders dates like "January 05, 2025".
const displayDateLayout = "January 02, 2006"

// Post is a blog article with publication and SEO metadata. Every post
// belongs to exactly one Category. Unpublished posts stay in the table but
// are hidden from every public listing.
type Post struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Excerpt         string    `json:"excerpt"`
	Content         string    `json:"content"`
	ImageURL        string    `json:"image_url"`
	ReadTime        string    `json:"read_time"`
	PublishedDate   time.Time `json:"published_date"`
	UpdatedDate     time.Time `json:"updated_date"`
	IsFeatured      bool      `json:"is_featured"`
	IsPublished     bool      `json:"is_published"`
	CategoryID      int64     `json:"category_id"`
	MetaDescription string    `json:"meta_description"`
	MetaKeywords    string    `json:"meta_keywords"`

	// Category is populated by queries that join the categories table.
	Category *Category `json:"category,omitempty"`
}

// NewPost returns a Post carrying the column defaults: published, not
// featured, a "5 min read" label and both timestamps set to now in UTC.
func NewPost() *Post {
	now := time.Now().UTC()
	return &Post{
		ReadTime:      DefaultReadTime,
		PublishedDate: now,
		UpdatedDate:   now,
		IsPublished:   true,
	}
}

// FormattedDate returns the publication date in long form, e.g.
// "January 05, 2025".
func (p *Post) FormattedDate() string {
	return p.PublishedDate.UTC().Format(displayDateLayout)
}
