package render

import (
	"fmt"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var (
	blankLinesRe = regexp.MustCompile(`\n{3,}`)
	trailingWSRe = regexp.MustCompile(`[ \t]+\n`)
)

// blockAtoms producen un salto de línea al cerrarse.
var blockAtoms = map[atom.Atom]bool{
	atom.P: true, atom.Div: true, atom.Li: true, atom.Tr: true,
	atom.H1: true, atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Blockquote: true, atom.Pre: true, atom.Table: true, atom.Ul: true, atom.Ol: true,
	atom.Section: true, atom.Article: true,
}

// PlainText extrae el texto de un fragmento HTML descartando todo el formato.
func PlainText(fragment string) (string, error) {
	nodes, err := html.ParseFragment(strings.NewReader(fragment), &html.Node{
		Type:     html.ElementNode,
		Data:     "body",
		DataAtom: atom.Body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse html: %w", err)
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			switch n.DataAtom {
			case atom.Script, atom.Style, atom.Head:
				return
			case atom.Br:
				b.WriteString("\n")
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && blockAtoms[n.DataAtom] {
			b.WriteString("\n")
		}
	}
	for _, n := range nodes {
		walk(n)
	}

	text := strings.ReplaceAll(b.String(), "\u00a0", " ")
	text = trailingWSRe.ReplaceAllString(text, "\n")
	text = blankLinesRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

// Markdown convierte el HTML renderizado a Markdown.
func Markdown(fragment string) (string, error) {
	converter := md.NewConverter("", true, nil)
	out, err := converter.ConvertString(fragment)
	if err != nil {
		return "", fmt.Errorf("failed to convert html to markdown: %w", err)
	}
	return strings.TrimSpace(out), nil
}
