package convert

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gbv/jconv/dateutil"
	"github.com/gbv/jconv/langcode"
	"github.com/gbv/jconv/schema/article"
	"github.com/gbv/jconv/xmldoc"
	"github.com/sirupsen/logrus"
)

// OAIVariant selects the field mapping for harvested Dublin Core records.
type OAIVariant int

const (
	OAIUnknown OAIVariant = iota
	OAICairn
	OAIOpenEdition
)

func (v OAIVariant) String() string {
	switch v {
	case OAICairn:
		return "cairn"
	case OAIOpenEdition:
		return "openedition"
	default:
		return "unknown"
	}
}

// ParseOAIVariant parses a variant name as used on the command line.
func ParseOAIVariant(s string) (OAIVariant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cairn":
		return OAICairn, nil
	case "openedition":
		return OAIOpenEdition, nil
	}
	return OAIUnknown, fmt.Errorf("unknown article type: %q", s)
}

// OAIArticle is a single OAI-PMH record with oai_dc metadata.
type OAIArticle struct {
	Variant    OAIVariant
	Identifier string
	Datestamp  string

	dc  *goquery.Selection
	log *logrus.Entry
}

// NewOAIArticle wraps a record. Deleted records, records of an unknown
// variant and, for OpenEdition, records which are not articles are skipped.
func NewOAIArticle(doc *xmldoc.Document, v OAIVariant) (*OAIArticle, error) {
	rec := doc.Find("record").First()
	if rec.Length() == 0 {
		rec = doc.Selection
	}
	header := rec.ChildrenFiltered("header")
	a := &OAIArticle{Variant: v}
	a.Identifier, _ = xmldoc.Text(header.ChildrenFiltered("identifier"))
	a.Datestamp, _ = xmldoc.Text(header.ChildrenFiltered("datestamp"))
	a.log = logrus.WithFields(logrus.Fields{"doc": a.Identifier, "variant": v.String()})
	if status, _ := xmldoc.Attr(header, "status"); status == "deleted" {
		return nil, ErrSkipDeleted
	}
	if v == OAIUnknown {
		return nil, ErrSkipNoVariant
	}
	a.dc = rec.ChildrenFiltered("metadata").ChildrenFiltered("dc").First()
	if v == OAIOpenEdition && !a.isArticle() {
		return nil, ErrSkipNotArticle
	}
	return a, nil
}

func (a *OAIArticle) isArticle() bool {
	for _, t := range xmldoc.Texts(a.dc.ChildrenFiltered("type")) {
		if strings.Contains(strings.ToLower(t), "article") {
			return true
		}
	}
	return false
}

func (a *OAIArticle) field(name string) []string {
	return xmldoc.Texts(a.dc.ChildrenFiltered(name))
}

func (a *OAIArticle) first(name string) string {
	if vs := a.field(name); len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Assemble returns a single record.
func (a *OAIArticle) Assemble() []Result {
	rec, err := a.Record()
	return []Result{{Name: a.Identifier, Form: "oai", Record: rec, Err: err}}
}

// Record maps the Dublin Core fields.
func (a *OAIArticle) Record() (*article.Record, error) {
	rec := &article.Record{
		Title:     a.first("title"),
		LangCode:  a.languages(),
		PrimaryID: article.ID{Type: "oai_id", ID: a.Identifier},
		Persons:   a.persons(),
		Abstracts: a.abstracts(),
	}
	var err error
	switch a.Variant {
	case OAICairn:
		rec.DateOfProduction = a.first("date")
		rec.Copyright = a.first("rights")
		rec.SubjectTerms = a.subjectTerms(rec.LangCode)
		rec.Journal, err = a.cairnJournal()
	default:
		if a.Datestamp != "" {
			d, derr := dateutil.ParsePartial(a.Datestamp)
			if derr == nil {
				rec.DateOfProduction = d.String()
			}
		}
		rec.Journal = article.Journal{Title: "Journal"}
		if date := a.first("date"); date != "" {
			rec.Journal.Year = strings.TrimSpace(strings.Split(date, "-")[0])
		} else {
			err = fmt.Errorf("journal: %w", dateutil.ErrMissingDate)
		}
	}
	return rec, err
}

// languages keeps the first usable language. Cairn uses three letter codes,
// OpenEdition two letter ones.
func (a *OAIArticle) languages() []string {
	for _, v := range a.field("language") {
		switch a.Variant {
		case OAICairn:
			if len(v) == 3 {
				return []string{v}
			}
		default:
			if code, ok := langcode.ToAlpha3(v); ok {
				return []string{code}
			}
		}
		a.log.WithField("lang", v).Debug("unmapped language")
	}
	return nil
}

// persons reads creators in "Last, First" form, others are dropped.
func (a *OAIArticle) persons() (result []article.Person) {
	for _, c := range a.field("creator") {
		last, first, ok := strings.Cut(c, ",")
		first, last = strings.TrimSpace(first), strings.TrimSpace(last)
		if !ok || first == "" || last == "" {
			a.log.WithField("creator", c).Debug("dropping creator")
			continue
		}
		result = append(result, article.Person{
			Firstname: first,
			Lastname:  last,
			Fullname:  first + " " + last,
		})
	}
	return result
}

// abstracts pairs each description with its own language; descriptions
// without a mappable language are dropped.
func (a *OAIArticle) abstracts() (result []article.Abstract) {
	a.dc.ChildrenFiltered("description").Each(func(_ int, s *goquery.Selection) {
		text, ok := xmldoc.Text(s)
		if !ok {
			return
		}
		lang, _ := xmldoc.Lang(s)
		code, ok := langcode.ToAlpha3(lang)
		if !ok {
			return
		}
		result = append(result, article.Abstract{LangCode: code, Text: text})
	})
	return result
}

func (a *OAIArticle) subjectTerms(langs []string) (result []article.SubjectTerm) {
	var lang string
	if len(langs) > 0 {
		lang = langs[0]
	}
	for _, s := range a.field("subject") {
		var terms []string
		for _, t := range strings.Split(s, " / ") {
			if t = strings.TrimSpace(t); t != "" {
				terms = append(terms, t)
			}
		}
		if len(terms) == 0 {
			continue
		}
		result = append(result, article.SubjectTerm{
			LangCode: lang,
			Scheme:   "OpenEdition",
			Terms:    terms,
		})
	}
	return result
}

var issuePrefix = regexp.MustCompile(`^(?i)(n°|no\.?|nr\.?)\s*`)

// cairnJournal parses a source like "Title|N° 12|3|2019-05-01|p. 11-20".
// The last parseable source wins.
func (a *OAIArticle) cairnJournal() (article.Journal, error) {
	var (
		j   article.Journal
		err = fmt.Errorf("journal: %w", dateutil.ErrMissingDate)
	)
	for _, s := range a.field("source") {
		v, perr := ParseCairnSource(s)
		if perr != nil {
			a.log.WithError(perr).Debug("source")
			continue
		}
		j, err = v, nil
	}
	return j, err
}

// ParseCairnSource parses a pipe separated Cairn source field.
func ParseCairnSource(s string) (article.Journal, error) {
	var j article.Journal
	parts := strings.Split(s, "|")
	if len(parts) < 5 {
		return j, fmt.Errorf("cannot parse source: %q", s)
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	j.Title = parts[0]
	j.Issue = issuePrefix.ReplaceAllString(parts[1], "")
	j.Volume = parts[2]
	d, err := dateutil.ParsePartial(parts[3])
	if err != nil {
		return j, fmt.Errorf("source date: %w", err)
	}
	j.SetDate(d)
	pages := strings.TrimSpace(strings.TrimPrefix(parts[4], "p."))
	start, end, _ := strings.Cut(pages, "-")
	j.StartPage, j.EndPage = strings.TrimSpace(start), strings.TrimSpace(end)
	return j, nil
}
