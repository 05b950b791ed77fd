// Package xmldoc is a read-only query facade over a parsed XML document.
//
// The XML is tokenized with encoding/xml and turned into an x/net/html node
// tree, so that goquery and its CSS selectors can be used for querying, while
// keeping XML semantics (self-closing elements, no implied tags). Elements
// are stored by local name, attributes with their prefix, e.g. "xml:lang" or
// "xlink:href".
package xmldoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

var ErrEmptyDocument = errors.New("empty document")

// Document is a parsed XML document, together with the name it was loaded
// from (a file name, an archive member or an OAI identifier).
type Document struct {
	*goquery.Document
	Name string
}

// Parse reads an XML document. Named HTML entities, which are common in
// publisher XML, are resolved.
func Parse(r io.Reader, name string) (*Document, error) {
	root, err := buildTree(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return &Document{Document: goquery.NewDocumentFromNode(root), Name: name}, nil
}

// ParseString is a convenience wrapper around Parse.
func ParseString(s, name string) (*Document, error) {
	return Parse(strings.NewReader(s), name)
}

// FromSelection returns a document rooted at the first node of a selection.
// The underlying tree is shared, not copied.
func FromSelection(sel *goquery.Selection, name string) *Document {
	if sel.Length() == 0 {
		return &Document{Document: goquery.NewDocumentFromNode(&html.Node{Type: html.DocumentNode}), Name: name}
	}
	return &Document{Document: goquery.NewDocumentFromNode(sel.Get(0)), Name: name}
}

func attrKey(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

func buildTree(r io.Reader) (*html.Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = false
	dec.Entity = xml.HTMLEntity
	dec.CharsetReader = charset.NewReaderLabel
	var (
		root = &html.Node{Type: html.DocumentNode}
		cur  = root
	)
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &html.Node{
				Type:      html.ElementNode,
				Data:      t.Name.Local,
				Namespace: t.Name.Space,
			}
			for _, a := range t.Attr {
				n.Attr = append(n.Attr, html.Attribute{Key: attrKey(a.Name), Val: a.Value})
			}
			cur.AppendChild(n)
			cur = n
		case xml.EndElement:
			if cur != root {
				cur = cur.Parent
			}
		case xml.CharData:
			if cur == root {
				continue
			}
			cur.AppendChild(&html.Node{Type: html.TextNode, Data: string(t)})
		}
	}
	if root.FirstChild == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}
