package convert

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gbv/jconv/dateutil"
	"github.com/gbv/jconv/langcode"
	"github.com/gbv/jconv/schema/article"
	"github.com/gbv/jconv/xmldoc"
	"github.com/sirupsen/logrus"
)

// MarcArticle maps a MARCXML record to an article.
type MarcArticle struct {
	rec  *goquery.Selection
	name string
	log  *logrus.Entry
}

// NewMarcArticle uses the first record element of the document.
func NewMarcArticle(doc *xmldoc.Document) *MarcArticle {
	rec := doc.Find("record").First()
	if rec.Length() == 0 {
		rec = doc.Selection
	}
	m := &MarcArticle{rec: rec, name: doc.Name}
	if id := m.controlField("001"); id != "" {
		m.name = id
	}
	m.log = logrus.WithField("doc", m.name)
	return m
}

func (m *MarcArticle) controlField(tag string) string {
	v, _ := xmldoc.Text(m.rec.ChildrenFiltered(fmt.Sprintf(`controlfield[tag="%s"]`, tag)))
	return v
}

// subfields returns all values of a subfield code across all fields with
// one of the given tags, in record order.
func (m *MarcArticle) subfields(code string, tags ...string) (result []string) {
	m.rec.ChildrenFiltered("datafield").Each(func(_ int, s *goquery.Selection) {
		tag, _ := s.Attr("tag")
		for _, t := range tags {
			if t == tag {
				result = append(result, xmldoc.Texts(s.ChildrenFiltered(fmt.Sprintf(`subfield[code="%s"]`, code)))...)
				return
			}
		}
	})
	return result
}

func (m *MarcArticle) subfield(tag, code string) string {
	if vs := m.subfields(code, tag); len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Assemble returns a single record.
func (m *MarcArticle) Assemble() []Result {
	rec, err := m.Record()
	return []Result{{Name: m.name, Form: "marc", Record: rec, Err: err}}
}

func (m *MarcArticle) Record() (*article.Record, error) {
	rec := &article.Record{
		Title:     m.title(),
		LangCode:  m.languages(),
		PrimaryID: m.primaryID(),
		Persons:   m.persons(),
	}
	year, ok := m.year()
	if ok {
		rec.DateOfProduction = strconv.Itoa(year)
	}
	rec.Journal = m.journal(year)
	var lang string
	if len(rec.LangCode) > 0 {
		lang = rec.LangCode[0]
	}
	for _, v := range m.subfields("a", "520") {
		rec.Abstracts = append(rec.Abstracts, article.Abstract{LangCode: lang, Text: v})
	}
	for _, u := range m.subfields("u", "856") {
		if !strings.HasPrefix(u, "http") {
			continue
		}
		rec.URLs = append(rec.URLs, article.URL{URL: u, Scope: "00", AccessInfo: article.AccessOA})
	}
	if rec.Journal.Year == "" {
		return rec, fmt.Errorf("journal: %w", dateutil.ErrMissingDate)
	}
	return rec, nil
}

// languages reads 041$a, defaulting to English.
func (m *MarcArticle) languages() []string {
	v := m.subfield("041", "a")
	if v == "" {
		v = "en"
	}
	code, ok := langcode.ToAlpha3(v)
	if !ok {
		m.log.WithField("lang", v).Debug("unmapped language")
		return nil
	}
	return []string{code}
}

var isbdTrailer = regexp.MustCompile(`[\s/:;,.=]+$`)

// title joins 245$a and $b, dropping trailing punctuation.
func (m *MarcArticle) title() string {
	t := strings.TrimSpace(m.subfield("245", "a") + " " + m.subfield("245", "b"))
	return isbdTrailer.ReplaceAllString(t, "")
}

func (m *MarcArticle) persons() (result []article.Person) {
	m.rec.ChildrenFiltered("datafield").Each(func(_ int, s *goquery.Selection) {
		if tag, _ := s.Attr("tag"); tag != "100" && tag != "700" {
			return
		}
		if role, _ := xmldoc.Text(s.ChildrenFiltered(`subfield[code="4"]`)); role != "aut" {
			return
		}
		if name, ok := xmldoc.Text(s.ChildrenFiltered(`subfield[code="a"]`)); ok {
			result = append(result, article.Person{Fullname: name})
		}
	})
	return result
}

// primaryID uses the first 024$a, typed by its prefix; the control number
// is used only if there is no 024.
func (m *MarcArticle) primaryID() article.ID {
	if v := m.subfield("024", "a"); v != "" {
		switch {
		case strings.HasPrefix(v, "urn:"):
			return article.ID{Type: "urn", ID: v}
		case strings.HasPrefix(v, "oai:"):
			return article.ID{Type: "oai", ID: v}
		}
		return article.ID{Type: "unknown", ID: v}
	}
	return article.ID{Type: "unknown", ID: m.controlField("001")}
}

// year reads the publication year from 264$c, 260$c or the fixed field 008.
func (m *MarcArticle) year() (int, bool) {
	for _, tag := range []string{"264", "260"} {
		for _, v := range m.subfields("c", tag) {
			if y, ok := dateutil.FindYear(v); ok {
				return y, true
			}
		}
	}
	if f := m.controlField("008"); len(f) >= 11 {
		if y, err := strconv.Atoi(f[7:11]); err == nil && y > 0 {
			return y, true
		}
	}
	return 0, false
}

var (
	volumePattern = regexp.MustCompile(`(?i)\b(?:jg|jahrgang|vol|volume|bd|band)\.?\s*(\d+)`)
	issuePattern  = regexp.MustCompile(`(?i)\b(?:h|heft|no|nr|issue)\.?\s*(\d+)`)
	pagesPattern  = regexp.MustCompile(`(?i)\b(?:s|p|pp)\.?\s*(\d+)\s*-\s*(\d+)`)
	yearInParens  = regexp.MustCompile(`\((\d{4})\)`)
)

// journal reads the host item entry 773. Volume, issue, year and pages are
// parsed from $g, the year falls back to the record year.
func (m *MarcArticle) journal(year int) article.Journal {
	j := article.Journal{Title: m.subfield("773", "t")}
	j.AddID("issn", m.subfield("773", "x"))
	if v := m.subfield("773", "d"); v != "" {
		j.Publisher = &article.Publisher{Name: v}
	}
	g := m.subfield("773", "g")
	if match := volumePattern.FindStringSubmatch(g); match != nil {
		j.Volume = match[1]
	}
	if match := issuePattern.FindStringSubmatch(g); match != nil {
		j.Issue = match[1]
	}
	if match := pagesPattern.FindStringSubmatch(g); match != nil {
		j.StartPage, j.EndPage = match[1], match[2]
	}
	if match := yearInParens.FindStringSubmatch(g); match != nil {
		j.Year = match[1]
	} else if year > 0 {
		j.Year = fmt.Sprintf("%04d", year)
	}
	return j
}
