package probe

import (
	"io"
	"strings"

	"golang.org/x/net/html"
)

// ExtractTitle returns the text of the first <title> element in r, with
// whitespace collapsed. Parsing stops at the title, so the rest of the page is
// never read.
func ExtractTitle(r io.Reader) string {
	z := html.NewTokenizer(r)
	inTitle := false
	var b strings.Builder

	for {
		switch z.Next() {
		case html.ErrorToken:
			return collapse(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			if string(name) == "title" {
				inTitle = true
			}
		case html.TextToken:
			if inTitle {
				b.Write(z.Text())
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if inTitle && string(name) == "title" {
				return collapse(b.String())
			}
		}
	}
}

func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
