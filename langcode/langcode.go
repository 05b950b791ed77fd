// Package langcode maps between ISO 639-1 two-letter and ISO 639-2/B
// three-letter language codes.
package langcode

import (
	"strings"

	"golang.org/x/text/language"
)

// bibliographic lists the ISO 639-2/B codes that differ from the
// terminological ones returned by x/text.
var bibliographic = map[string]string{
	"sqi": "alb",
	"hye": "arm",
	"eus": "baq",
	"mya": "bur",
	"zho": "chi",
	"ces": "cze",
	"nld": "dut",
	"fra": "fre",
	"kat": "geo",
	"deu": "ger",
	"ell": "gre",
	"isl": "ice",
	"mkd": "mac",
	"mri": "mao",
	"msa": "may",
	"fas": "per",
	"ron": "rum",
	"slk": "slo",
	"bod": "tib",
	"cym": "wel",
}

var terminological = make(map[string]string, len(bibliographic))

func init() {
	for t, b := range bibliographic {
		terminological[b] = t
	}
}

// ToAlpha3 returns the three-letter bibliographic code for a two or three
// letter language code. Unknown codes yield false.
func ToAlpha3(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	switch len(code) {
	case 2:
	case 3:
		if _, ok := terminological[code]; ok {
			return code, true
		}
	default:
		return "", false
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "", false
	}
	a3 := base.ISO3()
	if a3 == "" || a3 == "und" {
		return "", false
	}
	if b, ok := bibliographic[a3]; ok {
		return b, true
	}
	return a3, true
}

// ToAlpha2 returns the two-letter code for a language, if there is one.
func ToAlpha2(code string) (string, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if t, ok := terminological[code]; ok {
		code = t
	}
	base, err := language.ParseBase(code)
	if err != nil {
		return "", false
	}
	s := base.String()
	if len(s) != 2 {
		return "", false
	}
	return s, true
}

// Valid reports whether code is a known three-letter bibliographic code.
func Valid(code string) bool {
	if len(code) != 3 {
		return false
	}
	v, ok := ToAlpha3(code)
	return ok && v == code
}
