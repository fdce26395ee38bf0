// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

// Category groups posts for navigation, typically a destination country
// or a topic. Categories are listed by DisplayOrder ascending.
type Category struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Emoji        string `json:"emoji"`
	DisplayOrder int    `json:"display_order"`

	// Virtual field populated by list queries.
	PostCount int `json:"post_count"`
}

// Label returns the category name prefixed with its emoji, if any.
func (c *Category) Label() string {
	if c.Emoji == "" {
		return c.Name
	}
	return c.Emoji + " " + c.Name
}
