package convert

import (
	"regexp"
	"strings"
)

var doiRegex = regexp.MustCompile(`^10\.\d{4,}/\S+$`)

// cleanDOI returns the bare DOI or the empty string, if raw does not look
// like one. Case is preserved, since the suffix ends up in record ids.
func cleanDOI(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if strings.Contains(raw, "–") {
		return ""
	}
	if strings.Count(raw, " ") != 0 {
		return ""
	}
	for _, prefix := range []string{"doi:", "http://", "https://", "dx.doi.org/", "doi.org/"} {
		if len(raw) >= len(prefix) && strings.EqualFold(raw[:len(prefix)], prefix) {
			raw = raw[len(prefix):]
		}
	}
	if len(raw) > 9 && raw[7:9] == "//" && strings.Contains(raw, "10.1037//") {
		raw = raw[:8] + raw[9:]
	}
	if strings.ContainsRune(raw, '¬') {
		return ""
	}
	if !doiRegex.MatchString(raw) {
		return ""
	}
	if !isASCII(raw) {
		return ""
	}
	return raw
}

// doiSuffix returns the last path segment of a DOI.
func doiSuffix(doi string) string {
	if i := strings.LastIndex(doi, "/"); i >= 0 {
		return doi[i+1:]
	}
	return doi
}

func isASCII(s string) bool {
	for _, r := range s {
		if r > 127 {
			return false
		}
	}
	return true
}
