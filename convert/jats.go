package convert

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gbv/jconv/langcode"
	"github.com/gbv/jconv/schema/article"
	"github.com/gbv/jconv/xmldoc"
	"github.com/sirupsen/logrus"
)

// JatsOptions carries context which is not part of the document.
type JatsOptions struct {
	// Publisher overrides the publisher name found in the document, when
	// looking up the primary id type.
	Publisher string
	// Name of the document for diagnostics, defaults to the document name.
	Name string
}

// Jats assembles article records from a JATS document, one per publication
// form present. Convention and forms are detected once, in NewJats.
type Jats struct {
	Source PubTypeSource
	Forms  []PublicationForm

	opts  JatsOptions
	root  *goquery.Selection
	front *goquery.Selection
	meta  *goquery.Selection
	log   *logrus.Entry
}

// NewJats prepares a document for assembly.
func NewJats(doc *xmldoc.Document, opts JatsOptions) *Jats {
	if opts.Name == "" {
		opts.Name = doc.Name
	}
	root := doc.Find("article").First()
	front := root.ChildrenFiltered("front").First()
	if front.Length() == 0 {
		front = doc.Find("front").First()
	}
	meta := front.ChildrenFiltered("article-meta").First()
	src := DetectSource(meta)
	j := &Jats{
		Source: src,
		Forms:  DetectForms(meta, src),
		opts:   opts,
		root:   root,
		front:  front,
		meta:   meta,
		log:    logrus.WithFields(logrus.Fields{"doc": opts.Name, "source": src.String()}),
	}
	j.log.WithField("forms", len(j.Forms)).Debug("detected publication forms")
	return j
}

// Assemble builds one record per detected form. A document without forms
// yields no results.
func (j *Jats) Assemble() []Result {
	if len(j.Forms) == 0 {
		j.log.Info("no publication form found")
		return nil
	}
	results := make([]Result, 0, len(j.Forms))
	for _, f := range j.Forms {
		rec, err := j.Record(f)
		results = append(results, Result{
			Name:   j.opts.Name,
			Form:   f.String(),
			Record: rec,
			Err:    err,
		})
	}
	return results
}

// Language returns the three letter code of the article language, if known.
// The language declared on the article element wins over the one of the
// article title.
func (j *Jats) Language() (string, bool) {
	v, ok := xmldoc.Lang(j.root)
	if !ok {
		v, ok = xmldoc.Lang(j.meta.ChildrenFiltered("title-group").ChildrenFiltered("article-title"))
	}
	if !ok {
		return "", false
	}
	code, ok := langcode.ToAlpha3(v)
	if !ok {
		j.log.WithField("lang", v).Debug("unmapped language")
	}
	return code, ok
}

// Record assembles the record for a single form. The returned error lists
// problems which did not prevent assembly; the record is always non-nil.
func (j *Jats) Record(f PublicationForm) (*article.Record, error) {
	var (
		errs []error
		rec  = &article.Record{}
		log  = j.log.WithField("form", f.String())
	)
	rec.Title, _ = xmldoc.First(j.meta, "title-group > article-title")
	lang, ok := j.Language()
	if ok {
		rec.LangCode = []string{lang}
	}
	journal, err := resolveJournal(j.front, j.Source)
	if err != nil {
		errs = append(errs, fmt.Errorf("journal: %w", err))
	}
	rec.Journal = journal

	rawDOI := j.articleID("doi")
	doi := cleanDOI(rawDOI)
	if doi == "" && rawDOI != "" {
		log.WithField("doi", rawDOI).Info("rejected doi")
	}
	publisherID := j.articleID("publisher-id")
	var publisherName string
	if journal.Publisher != nil {
		publisherName = journal.Publisher.Name
	}
	typ, err := resolvePublisherType(j.opts.Publisher, publisherName)
	if err != nil {
		log.WithError(err).Debug("primary id type")
		errs = append(errs, err)
	}
	// a rejected DOI still beats an empty primary id
	idDOI := doi
	if idDOI == "" && publisherID == "" {
		idDOI = strings.TrimSpace(rawDOI)
	}
	rec.PrimaryID = primaryID(typ, idDOI, publisherID, f)
	if doi != "" {
		rec.OtherIDs = append(rec.OtherIDs, article.ID{Type: "doi", ID: doi})
	}
	if publisherID != "" {
		rec.OtherIDs = append(rec.OtherIDs, article.ID{Type: "publisher-id", ID: publisherID})
	}

	rec.Persons = resolvePersons(j.meta, log)
	rec.Abstracts = j.abstracts(lang)
	rec.SubjectTerms = j.subjectTerms(lang)
	rec.Copyright = j.copyright()

	if d, err := formDate(j.meta, j.Source, f); err != nil {
		errs = append(errs, err)
	} else if !d.Equal(journal.Date()) {
		rec.DateOfProduction = d.String()
	}
	if f == FormElectronic && doi != "" {
		rec.URLs = []article.URL{doiURL(doi, j.meta)}
	}
	return rec, errors.Join(errs...)
}

func (j *Jats) articleID(typ string) string {
	v, _ := xmldoc.Text(j.meta.ChildrenFiltered(fmt.Sprintf(`article-id[pub-id-type="%s"]`, typ)))
	return v
}

// abstracts reads abstract and trans-abstract nodes. Sections take
// precedence over a flat paragraph list.
func (j *Jats) abstracts(lang string) (result []article.Abstract) {
	j.meta.Find("abstract, trans-abstract").Each(func(_ int, s *goquery.Selection) {
		var parts []string
		if secs := s.ChildrenFiltered("sec"); secs.Length() > 0 {
			secs.Each(func(_ int, sec *goquery.Selection) {
				if ps := xmldoc.Texts(sec.ChildrenFiltered("p")); len(ps) > 0 {
					parts = append(parts, strings.Join(ps, "\n\n"))
				}
			})
		} else {
			parts = xmldoc.Texts(s.ChildrenFiltered("p"))
		}
		text := strings.Join(parts, "\n\n")
		if text == "" {
			return
		}
		a := article.Abstract{LangCode: lang, Text: text}
		if code, ok := j.ownLanguage(s); ok {
			a.LangCode = code
		}
		result = append(result, a)
	})
	return result
}

func (j *Jats) subjectTerms(lang string) (result []article.SubjectTerm) {
	if form := j.articleForm(); form != "" {
		result = append(result, article.SubjectTerm{
			LangCode: lang,
			Scheme:   "form",
			Terms:    []string{form},
		})
	}
	j.meta.Find("kwd-group").Each(func(_ int, g *goquery.Selection) {
		terms := xmldoc.Texts(g.ChildrenFiltered("kwd"))
		if len(terms) == 0 {
			return
		}
		scheme, ok := xmldoc.Text(g.ChildrenFiltered("title"))
		if !ok {
			scheme, ok = xmldoc.Attr(g, "kwd-group-type")
		}
		if !ok || scheme == "Keywords" {
			scheme = "group"
		}
		st := article.SubjectTerm{LangCode: lang, Scheme: scheme, Terms: terms}
		if code, ok := j.ownLanguage(g); ok {
			st.LangCode = code
		}
		result = append(result, st)
	})
	return result
}

// ownLanguage maps the xml:lang of a node. Unmappable values are ignored,
// so that the article language stays in place.
func (j *Jats) ownLanguage(sel *goquery.Selection) (string, bool) {
	v, ok := xmldoc.Lang(sel)
	if !ok {
		return "", false
	}
	code, ok := langcode.ToAlpha3(v)
	if !ok {
		j.log.WithField("lang", v).Debug("unmapped language")
	}
	return code, ok
}

// articleForm reads the article-form custom meta, falling back to the
// article-type attribute of the root element.
func (j *Jats) articleForm() string {
	var form string
	j.meta.Find("custom-meta").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if name, _ := xmldoc.Text(s.ChildrenFiltered("meta-name")); name == "article-form" {
			form, _ = xmldoc.Text(s.ChildrenFiltered("meta-value"))
			return false
		}
		return true
	})
	if form == "" {
		form, _ = xmldoc.Attr(j.root, "article-type")
	}
	return form
}

func (j *Jats) copyright() string {
	perm := j.meta.ChildrenFiltered("permissions")
	if v, ok := xmldoc.Text(perm.ChildrenFiltered("copyright-statement")); ok {
		return v
	}
	year, _ := xmldoc.Text(perm.ChildrenFiltered("copyright-year"))
	holder, _ := xmldoc.Text(perm.ChildrenFiltered("copyright-holder"))
	if year == "" && holder == "" {
		return ""
	}
	return strings.TrimSpace("© " + strings.TrimSpace(year+" "+holder))
}
