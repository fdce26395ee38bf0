package importer

import (
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Article holds the fields scraped from one legacy HTML page.
type Article struct {
	Title       string
	Description string
	Keywords    string
	ImageURL    string
	Content     string
	ReadTime    string
}

// Parse extracts an Article from a legacy page. Missing elements leave the
// corresponding field empty; ReadTime defaults to DefaultReadTime.
func Parse(r io.Reader) (*Article, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	art := &Article{
		Title:       text(doc.Find("h1.article__title").First()),
		Description: attr(doc.Find(`meta[name="description"]`).First(), "content"),
		Keywords:    attr(doc.Find(`meta[name="keywords"]`).First(), "content"),
		ImageURL:    attr(doc.Find("img.article__featured-image").First(), "src"),
		ReadTime:    DefaultReadTime,
	}

	if body := doc.Find("div.article__content").First(); body.Length() > 0 {
		html, err := body.Html()
		if err != nil {
			return nil, fmt.Errorf("article content: %w", err)
		}
		art.Content = strings.TrimSpace(html)
	}

	doc.Find("span.article__meta-item").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if t := text(s); strings.Contains(t, "min read") {
			art.ReadTime = t
			return false
		}
		return true
	})

	return art, nil
}

// text returns the whitespace-normalized text of a selection.
func text(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}

func attr(s *goquery.Selection, name string) string {
	v, _ := s.Attr(name)
	return strings.TrimSpace(v)
}
