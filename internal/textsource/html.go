package textsource

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
	"golang.org/x/net/html/charset"
)

var blockElements = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true, atom.Blockquote: true,
	atom.Br: true, atom.Dd: true, atom.Div: true, atom.Dl: true, atom.Dt: true,
	atom.Figcaption: true, atom.Footer: true, atom.H1: true, atom.H2: true,
	atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true, atom.Header: true,
	atom.Hr: true, atom.Li: true, atom.Main: true, atom.Nav: true, atom.Ol: true,
	atom.P: true, atom.Pre: true, atom.Section: true, atom.Table: true,
	atom.Td: true, atom.Th: true, atom.Tr: true, atom.Ul: true,
}

// extractHTML renders an HTML document as text with one line per block
// element, the document title first. Paragraphs are separated by blank lines.
func extractHTML(payload []byte) (string, error) {
	r, err := charset.NewReader(bytes.NewReader(payload), "text/html")
	if err != nil {
		return "", fmt.Errorf("failed to detect charset: %w", err)
	}
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style, noscript, template").Remove()

	var sb strings.Builder
	if title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " "); title != "" {
		sb.WriteString(title)
		sb.WriteString("\n\n")
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}
	for _, n := range body.Nodes {
		writeNodeText(&sb, n)
	}

	return sb.String(), nil
}

func writeNodeText(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		if text := strings.Join(strings.Fields(n.Data), " "); text != "" {
			if sb.Len() > 0 && !strings.HasSuffix(sb.String(), "\n") {
				sb.WriteByte(' ')
			}
			sb.WriteString(text)
		}
		return
	case html.ElementNode:
		if n.DataAtom == atom.Head {
			return
		}
	}

	block := n.Type == html.ElementNode && blockElements[n.DataAtom]
	if block {
		endLine(sb, n.DataAtom == atom.P)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeNodeText(sb, c)
	}
	if block {
		endLine(sb, n.DataAtom == atom.P)
	}
}

// endLine terminates the current line; paragraphs also get a blank line
func endLine(sb *strings.Builder, paragraph bool) {
	s := sb.String()
	if s == "" {
		return
	}
	if !strings.HasSuffix(s, "\n") {
		sb.WriteByte('\n')
	}
	if paragraph && !strings.HasSuffix(sb.String(), "\n\n") {
		sb.WriteByte('\n')
	}
}
