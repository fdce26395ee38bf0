package markdown

import (
	"bufio"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"strings"
	"sync"
)

//go:embed pages/*.md
var pagesFS embed.FS

// ErrNoPage is returned by LoadPage for names without a Markdown file.
var ErrNoPage = errors.New("page not found")

// Page is a rendered fixed page.
type Page struct {
	Name  string
	Title string
	HTML  template.HTML
}

var (
	pagesOnce  sync.Once
	pagesCache map[string]*Page
	pagesErr   error
)

// LoadPage returns the rendered page stored as pages/<name>.md. The title is
// taken from the first "# " heading. All pages are rendered once on first
// use.
func LoadPage(name string) (*Page, error) {
	pagesOnce.Do(func() {
		pagesCache, pagesErr = renderPages(pagesFS)
	})
	if pagesErr != nil {
		return nil, pagesErr
	}
	p, ok := pagesCache[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoPage, name)
	}
	return p, nil
}

func renderPages(fsys fs.FS) (map[string]*Page, error) {
	files, err := fs.Glob(fsys, "pages/*.md")
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Page, len(files))
	for _, f := range files {
		src, err := fs.ReadFile(fsys, f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", f, err)
		}
		body, err := ToHTML(string(src))
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", f, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(f, "pages/"), ".md")
		out[name] = &Page{
			Name:  name,
			Title: title(string(src)),
			HTML:  template.HTML(body),
		}
	}
	return out, nil
}

// title returns the text of the first level-one heading.
func title(src string) string {
	sc := bufio.NewScanner(strings.NewReader(src))
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); strings.HasPrefix(line, "# ") {
			return strings.TrimSpace(line[2:])
		}
	}
	return ""
}
