// Package normal cleans up text pulled out of XML documents.
package normal

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Normalizer rewrites a string.
type Normalizer interface {
	Normalize(string) string
}

// NormalizerFunc adapts a plain function.
type NormalizerFunc func(string) string

func (f NormalizerFunc) Normalize(s string) string { return f(s) }

// Pipeline runs normalizers in order.
type Pipeline struct {
	Normalizer []Normalizer
}

func (p *Pipeline) Normalize(s string) string {
	for _, n := range p.Normalizer {
		s = n.Normalize(s)
	}
	return s
}

// NFCNormalizer composes characters, so decomposed umlauts from some
// publishers compare equal to precomposed ones.
type NFCNormalizer struct{}

func (s *NFCNormalizer) Normalize(v string) string {
	return norm.NFC.String(v)
}

// CollapseWSNormalizer folds runs of whitespace into a single space and trims
// the result.
type CollapseWSNormalizer struct{}

func (s *CollapseWSNormalizer) Normalize(v string) string {
	var (
		b       strings.Builder
		inSpace = false
	)
	for _, c := range v {
		if unicode.IsSpace(c) {
			inSpace = true
			continue
		}
		if inSpace && b.Len() > 0 {
			b.WriteRune(' ')
		}
		inSpace = false
		b.WriteRune(c)
	}
	return b.String()
}

// RemoveNewlineAndTab drops newlines and tabs entirely, without inserting a
// space.
func RemoveNewlineAndTab(s string) string {
	var sb strings.Builder
	for _, c := range s {
		if c == '\n' || c == '\t' {
			continue
		}
		sb.WriteRune(c)
	}
	return sb.String()
}

// Text is the default pipeline for element text.
var Text = &Pipeline{
	Normalizer: []Normalizer{
		&NFCNormalizer{},
		NormalizerFunc(RemoveNewlineAndTab),
		&CollapseWSNormalizer{},
	},
}

// String applies the default text pipeline.
func String(s string) string {
	return Text.Normalize(s)
}
