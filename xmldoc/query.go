package xmldoc

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gbv/jconv/normal"
	"github.com/sirupsen/logrus"
)

// Text returns the normalized text of the first node in the selection. The
// boolean is false, if there is no node or the text is empty.
func Text(sel *goquery.Selection) (string, bool) {
	if sel.Length() == 0 {
		return "", false
	}
	s := normal.String(sel.First().Text())
	return s, s != ""
}

// Texts returns the normalized, non-empty texts of all nodes in document
// order.
func Texts(sel *goquery.Selection) (result []string) {
	sel.Each(func(_ int, s *goquery.Selection) {
		if v := normal.String(s.Text()); v != "" {
			result = append(result, v)
		}
	})
	return result
}

// Attr returns the trimmed value of an attribute of the first node.
func Attr(sel *goquery.Selection, name string) (string, bool) {
	v, ok := sel.First().Attr(name)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// Lang returns the declared xml:lang of the first node.
func Lang(sel *goquery.Selection) (string, bool) {
	return Attr(sel, "xml:lang")
}

// First tries each selector relative to ctx in order and returns the first
// non-empty text.
func First(ctx *goquery.Selection, selectors ...string) (string, bool) {
	for _, s := range selectors {
		if v, ok := Text(ctx.Find(s)); ok {
			return v, true
		}
	}
	logrus.WithField("selectors", selectors).Debug("xmldoc: no match")
	return "", false
}

// Has reports whether the selector matches anything below ctx.
func Has(ctx *goquery.Selection, selector string) bool {
	return ctx.Find(selector).Length() > 0
}

// Child returns direct children of sel with the given element name.
func Child(sel *goquery.Selection, name string) *goquery.Selection {
	return sel.ChildrenFiltered(name)
}

// Elements returns all elements below sel with exactly the given local name.
// CSS type selectors are case insensitive, which does not work for mixed
// case XML names like resumptionToken.
func Elements(sel *goquery.Selection, name string) *goquery.Selection {
	return sel.Find("*").FilterFunction(func(_ int, s *goquery.Selection) bool {
		return goquery.NodeName(s) == name
	})
}
