package langcode

import "testing"

func TestToAlpha3(t *testing.T) {
	var cases = []struct {
		code  string
		want  string
		found bool
	}{
		{"en", "eng", true},
		{"EN", "eng", true},
		{"de", "ger", true},
		{"fr", "fre", true},
		{"nl", "dut", true},
		{"it", "ita", true},
		{"eng", "eng", true},
		{"ger", "ger", true},
		{"deu", "ger", true},
		{"", "", false},
		{"english", "", false},
		{"xx", "", false},
		{"und", "", false},
	}
	for _, c := range cases {
		got, ok := ToAlpha3(c.code)
		if got != c.want || ok != c.found {
			t.Errorf("[%s] got %q (%v), want %q (%v)", c.code, got, ok, c.want, c.found)
		}
	}
}

func TestToAlpha2(t *testing.T) {
	var cases = []struct {
		code  string
		want  string
		found bool
	}{
		{"ger", "de", true},
		{"deu", "de", true},
		{"eng", "en", true},
		{"fr", "fr", true},
		{"xx", "", false},
	}
	for _, c := range cases {
		got, ok := ToAlpha2(c.code)
		if got != c.want || ok != c.found {
			t.Errorf("[%s] got %q (%v), want %q (%v)", c.code, got, ok, c.want, c.found)
		}
	}
}

func TestValid(t *testing.T) {
	for _, c := range []string{"eng", "ger", "fre", "spa"} {
		if !Valid(c) {
			t.Errorf("expected %s to be valid", c)
		}
	}
	for _, c := range []string{"de", "deu", "fra", "", "zzzz"} {
		if Valid(c) {
			t.Errorf("expected %s to be invalid", c)
		}
	}
}
