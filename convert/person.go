package convert

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gbv/jconv/schema/article"
	"github.com/gbv/jconv/xmldoc"
	"github.com/sirupsen/logrus"
)

// roles maps contrib-type values to relator codes.
var roles = map[string]string{
	"author": "aut",
}

var institutionSelectors = []string{
	`institution-wrap > institution[content-type="org-name"]`,
	"institution-wrap > institution",
	"institution",
}

// resolvePerson reads one contrib node. Contributors without both given
// names and surname are not returned, the error is ErrIncompleteName then.
// The meta selection is used to look up affiliations by id.
func resolvePerson(contrib, meta *goquery.Selection) (article.Person, error) {
	var p article.Person
	name := contrib.ChildrenFiltered("name")
	if name.Length() == 0 {
		name = contrib.ChildrenFiltered("name-alternatives").ChildrenFiltered("name")
	}
	name = name.First()
	p.Firstname, _ = xmldoc.Text(name.ChildrenFiltered("given-names"))
	p.Lastname, _ = xmldoc.Text(name.ChildrenFiltered("surname"))
	if p.Firstname == "" || p.Lastname == "" {
		return p, fmt.Errorf("%w: given=%q surname=%q", ErrIncompleteName, p.Firstname, p.Lastname)
	}
	p.Fullname = p.Firstname + " " + p.Lastname
	if v, ok := xmldoc.Attr(contrib, "contrib-type"); ok {
		if role, ok := roles[v]; ok {
			p.Role = role
		} else {
			logrus.WithField("contrib-type", v).Info("unknown contributor type")
		}
	}
	aff, err := resolveAffiliation(contrib, meta)
	if err != nil {
		logrus.WithField("person", p.Fullname).Debug(err)
	} else {
		p.Affiliation = aff
	}
	return p, nil
}

// resolveAffiliation follows the first aff cross reference of a contributor.
func resolveAffiliation(contrib, meta *goquery.Selection) (*article.Affiliation, error) {
	rid, ok := xmldoc.Attr(contrib.ChildrenFiltered(`xref[ref-type="aff"]`), "rid")
	if !ok {
		return nil, ErrNoAffiliation
	}
	// rid may hold several space separated ids
	rid = strings.Fields(rid)[0]
	var node *goquery.Selection
	meta.Find("aff").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if id, _ := s.Attr("id"); id == rid {
			node = s
			return false
		}
		return true
	})
	if node == nil {
		return nil, fmt.Errorf("%w: no aff with id %q", ErrNoAffiliation, rid)
	}
	aff := &article.Affiliation{}
	aff.Name, _ = xmldoc.First(node, institutionSelectors...)
	if aff.Name == "" {
		return nil, fmt.Errorf("%w: empty name in %q", ErrNoAffiliation, rid)
	}
	node.Find("institution-id").Each(func(_ int, s *goquery.Selection) {
		v, ok := xmldoc.Text(s)
		if !ok {
			return
		}
		typ, ok := xmldoc.Attr(s, "institution-id-type")
		if !ok {
			typ = "unknown"
		}
		aff.AffiliationIDs = append(aff.AffiliationIDs, article.ID{Type: typ, ID: v})
	})
	return aff, nil
}

// resolvePersons returns all complete contributors of the article.
func resolvePersons(meta *goquery.Selection, log *logrus.Entry) (persons []article.Person) {
	meta.Find("contrib-group > contrib").Each(func(_ int, s *goquery.Selection) {
		p, err := resolvePerson(s, meta)
		if err != nil {
			log.WithError(err).Info("dropping contributor")
			return
		}
		persons = append(persons, p)
	})
	return persons
}
