package normal

import "testing"

func TestString(t *testing.T) {
	var cases = []struct {
		in   string
		want string
	}{
		{"", ""},
		{"   ", ""},
		{"Zeitschrift für Konfliktmanagement", "Zeitschrift für Konfliktmanagement"},
		{"Zeitschrift fu\u0308r", "Zeitschrift f\u00fcr"},
		{"  a   b  ", "a b"},
		{"line\nbreak", "linebreak"},
		{"tab\tbed", "tabbed"},
		{"line\n    indented", "line indented"},
		{"word\r\n  next", "word next"},
	}
	for _, c := range cases {
		if got := String(c.in); got != c.want {
			t.Errorf("String(%q): got %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPipelineOrder(t *testing.T) {
	p := &Pipeline{Normalizer: []Normalizer{
		NormalizerFunc(func(s string) string { return s + "a" }),
		NormalizerFunc(func(s string) string { return s + "b" }),
	}}
	if got := p.Normalize("x"); got != "xab" {
		t.Errorf("got %q, want xab", got)
	}
}
