// Package sitemap renders the XML sitemap for the public site.
package sitemap

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"travelclean/internal/models"
)

const namespace = "http://www.sitemaps.org/schemas/sitemap/0.9"

// lastModLayout is the W3C date format used for <lastmod>.
const lastModLayout = "2006-01-02"

type urlSet struct {
	XMLName xml.Name `xml:"urlset"`
	XMLNS   string   `xml:"xmlns,attr"`
	URLs    []url    `xml:"url"`
}

// url is one <url> entry. LastMod is a pointer so that fixed pages omit the
// element while posts always carry it, empty when the date is unknown.
type url struct {
	Loc        string  `xml:"loc"`
	LastMod    *string `xml:"lastmod"`
	ChangeFreq string  `xml:"changefreq"`
	Priority   string  `xml:"priority"`
}

// staticPages are listed before any post, in this order.
var staticPages = []struct {
	path       string
	changeFreq string
	priority   string
}{
	{"/", "daily", "1.0"},
	{"/blog", "daily", "0.9"},
	{"/about", "monthly", "0.7"},
	{"/contact", "monthly", "0.7"},
}

// Build renders a sitemap for baseURL and the given published posts. Posts
// appear in the order received. The output is byte-identical for identical
// input.
func Build(baseURL string, posts []models.Post) ([]byte, error) {
	base := strings.TrimRight(baseURL, "/")

	set := urlSet{
		XMLNS: namespace,
		URLs:  make([]url, 0, len(staticPages)+len(posts)),
	}
	for _, p := range staticPages {
		set.URLs = append(set.URLs, url{
			Loc:        base + p.path,
			ChangeFreq: p.changeFreq,
			Priority:   p.priority,
		})
	}
	for _, p := range posts {
		lastMod := ""
		if !p.PublishedDate.IsZero() {
			lastMod = p.PublishedDate.UTC().Format(lastModLayout)
		}
		set.URLs = append(set.URLs, url{
			Loc:        base + "/post/" + p.Slug,
			LastMod:    &lastMod,
			ChangeFreq: "weekly",
			Priority:   "0.8",
		})
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return nil, fmt.Errorf("encode sitemap: %w", err)
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
