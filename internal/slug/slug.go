// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"strings"

	gosimple "github.com/gosimple/slug"
)

// Generate creates a URL-friendly slug from the given string. Non-ASCII
// letters are transliterated, runs of whitespace and punctuation become a
// single hyphen, and leading or trailing hyphens are dropped. Underscores
// count as separators.
// Example: "Café Résumé 2026" → "cafe-resume-2026"
//
// Generate is idempotent: Generate(Generate(s)) == Generate(s).
func Generate(s string) string {
	return gosimple.MakeLang(strings.ReplaceAll(strings.TrimSpace(s), "_", " "), "en")
}

// Valid reports whether s is already in canonical slug form: lowercase
// letters and digits joined by single hyphens.
func Valid(s string) bool {
	return s != "" && !strings.Contains(s, "_") && !strings.Contains(s, "--") && gosimple.IsSlug(s)
}
