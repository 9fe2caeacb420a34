// Package listing renders the per-directory index page.
package listing

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strings"

	"github.com/nebari-dev/dirindex/internal/humansize"
)

// Placeholder is shown instead of a size for the listing page's own entry,
// whose size is unknown until the page has been written.
const Placeholder = "-"

//go:embed templates/*.html
var templates embed.FS

var pageTemplate = template.Must(template.ParseFS(templates, "templates/listing.html"))

// Page is the data rendered into a listing.
type Page struct {
	Title string
	Items []Item
}

// Item is a single line of a listing.
type Item struct {
	Href template.URL
	Name string
	Size string
}

// NewPage builds a page for the given directory entries, keyed by display
// name, sorted by byte order and followed by an entry for fileName itself.
func NewPage(title, fileName string, entries map[string]int64) (Page, error) {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	sort.Strings(names)

	page := Page{Title: title, Items: make([]Item, 0, len(names)+1)}
	for _, name := range names {
		size, err := humansize.FormatFileSize(entries[name])
		if err != nil {
			return Page{}, fmt.Errorf("formatting size of %q: %w", name, err)
		}
		page.Items = append(page.Items, newItem(name, size))
	}
	page.Items = append(page.Items, newItem(fileName, Placeholder))
	return page, nil
}

func newItem(name, size string) Item {
	return Item{Href: template.URL(QuotePath(name)), Name: name, Size: size}
}

// Render writes page as HTML to w.
func Render(w io.Writer, page Page) error {
	return pageTemplate.Execute(w, page)
}

// QuotePath percent-encodes every byte of name except unreserved characters
// and '/', so directory entries keep their trailing slash.
func QuotePath(name string) string {
	const hex = "0123456789ABCDEF"

	var b strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if isUnreserved(c) || c == '/' {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isUnreserved(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	case c == '-', c == '_', c == '.', c == '~':
		return true
	}
	return false
}
