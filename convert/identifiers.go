package convert

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gbv/jconv/schema/article"
	"github.com/gbv/jconv/xmldoc"
)

// publisherTypes maps publisher name fragments to primary id types. The
// first matching entry wins.
var publisherTypes = []struct {
	fragment string
	typ      string
}{
	{"springer", "springer"},
	{"de gruyter", "degruyter"},
	{"degruyter", "degruyter"},
	{"brill", "brill"},
	{"emerald", "emerald"},
	{"wiley", "wiley"},
	{"elsevier", "elsevier"},
	{"sage", "sage"},
	{"taylor & francis", "tandf"},
}

// PublisherType returns the primary id type for a publisher name.
func PublisherType(name string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if s == "" {
		return "unknown", ErrNoPublisher
	}
	for _, p := range publisherTypes {
		if strings.Contains(s, p.fragment) {
			return p.typ, nil
		}
	}
	return "unknown", fmt.Errorf("%w: %q", ErrNoPublisher, name)
}

// resolvePublisherType tries an explicit override first, then the name
// found in the document.
func resolvePublisherType(override, name string) (string, error) {
	if override != "" {
		if typ, err := PublisherType(override); err == nil {
			return typ, nil
		}
	}
	return PublisherType(name)
}

// primaryID prefers the DOI suffix over the publisher assigned article id;
// both get the form suffix appended.
func primaryID(typ, doi, publisherID string, f PublicationForm) article.ID {
	switch {
	case doi != "":
		return article.ID{Type: typ, ID: doiSuffix(doi) + f.Suffix()}
	case publisherID != "":
		return article.ID{Type: typ, ID: publisherID + f.Suffix()}
	default:
		return article.ID{Type: "unknown"}
	}
}

// isOpenAccess checks the open-access custom flag.
func isOpenAccess(meta *goquery.Selection) bool {
	var found bool
	meta.Find("custom-meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		name, _ := xmldoc.Text(s.ChildrenFiltered("meta-name"))
		if !strings.EqualFold(name, "open-access") {
			return true
		}
		value, _ := xmldoc.Text(s.ChildrenFiltered("meta-value"))
		found = strings.EqualFold(value, "true")
		return false
	})
	return found
}

// hasCreativeCommons looks for a Creative Commons license reference in the
// permissions, either as a link or in the text.
func hasCreativeCommons(meta *goquery.Selection) bool {
	perm := meta.Find("permissions")
	if perm.Length() == 0 {
		return false
	}
	var found bool
	perm.Find("license, ext-link, license_ref").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		href, _ := s.Attr("xlink:href")
		found = isCreativeCommons(href)
		return !found
	})
	return found || isCreativeCommons(perm.Text())
}

func isCreativeCommons(s string) bool {
	s = strings.ToLower(s)
	return strings.Contains(s, "creativecommons.org") || strings.Contains(s, "creative commons")
}

// doiURL links to the DOI resolver. Access information starts at unknown
// and is only ever upgraded.
func doiURL(doi string, meta *goquery.Selection) article.URL {
	u := article.URL{
		URL:        "https://doi.org/" + doi,
		Scope:      "00",
		AccessInfo: article.AccessUnknown,
	}
	if isOpenAccess(meta) {
		u.Upgrade(article.AccessOA)
	}
	if hasCreativeCommons(meta) {
		u.Upgrade(article.AccessOALizenz)
	}
	return u
}
