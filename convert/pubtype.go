package convert

import (
	"fmt"

	"github.com/PuerkitoBio/goquery"
	"github.com/gbv/jconv/dateutil"
)

// PubTypeSource is the structural convention a document uses to tag
// publication dates and ISSNs with their publication form.
type PubTypeSource int

const (
	// SourceBasic tags dates with date-type="epub|ppub".
	SourceBasic PubTypeSource = iota
	// SourcePublicationFormat tags dates and ISSNs with
	// publication-format="electronic|print".
	SourcePublicationFormat
	// SourcePubType tags dates and ISSNs with pub-type="epub|ppub".
	SourcePubType
)

func (s PubTypeSource) String() string {
	switch s {
	case SourcePublicationFormat:
		return "publication-format"
	case SourcePubType:
		return "pub-type"
	default:
		return "basic"
	}
}

// PublicationForm is electronic or print.
type PublicationForm int

const (
	FormElectronic PublicationForm = iota
	FormPrint
)

var allForms = []PublicationForm{FormElectronic, FormPrint}

func (f PublicationForm) String() string {
	if f == FormPrint {
		return "print"
	}
	return "electronic"
}

// Suffix is appended to identifiers derived for this form.
func (f PublicationForm) Suffix() string {
	if f == FormPrint {
		return "-p"
	}
	return "-e"
}

// profile describes the queries of one PubTypeSource.
type profile struct {
	dateAttr      string
	issnAttr      string
	electronic    string
	print         string
	publisherID   string
	publisherIDSx string
}

var profiles = map[PubTypeSource]profile{
	SourceBasic: {
		dateAttr:    "date-type",
		issnAttr:    "pub-type",
		electronic:  "epub",
		print:       "ppub",
		publisherID: "publisher-id",
	},
	SourcePublicationFormat: {
		dateAttr:    "publication-format",
		issnAttr:    "publication-format",
		electronic:  "electronic",
		print:       "print",
		publisherID: "publisher-id",
	},
	SourcePubType: {
		dateAttr:      "pub-type",
		issnAttr:      "pub-type",
		electronic:    "epub",
		print:         "ppub",
		publisherID:   "nlm-publisher-id",
		publisherIDSx: "_nlm",
	},
}

func (p profile) value(f PublicationForm) string {
	if f == FormPrint {
		return p.print
	}
	return p.electronic
}

func (p profile) dateSelector(f PublicationForm) string {
	return fmt.Sprintf(`pub-date[%s="%s"]`, p.dateAttr, p.value(f))
}

func (p profile) issnSelector(f PublicationForm) string {
	return fmt.Sprintf(`issn[%s="%s"]`, p.issnAttr, p.value(f))
}

// DetectSource classifies the convention of an article-meta node. The probes
// run in a fixed order and only check for presence. Like formDate, only
// direct pub-date children are considered.
func DetectSource(meta *goquery.Selection) PubTypeSource {
	switch {
	case meta.ChildrenFiltered("pub-date[publication-format]").Length() > 0:
		return SourcePublicationFormat
	case meta.ChildrenFiltered("pub-date[pub-type]").Length() > 0:
		return SourcePubType
	default:
		return SourceBasic
	}
}

// formDate resolves the publication date of a form under a convention.
func formDate(meta *goquery.Selection, src PubTypeSource, f PublicationForm) (dateutil.PartialDate, error) {
	sel := meta.ChildrenFiltered(profiles[src].dateSelector(f))
	d, err := dateutil.FromSelection(sel)
	if err != nil {
		return d, fmt.Errorf("%s date: %w", f, err)
	}
	return d, nil
}

// DetectForms returns the publication forms with a resolvable date, in the
// order electronic, print.
func DetectForms(meta *goquery.Selection, src PubTypeSource) (forms []PublicationForm) {
	for _, f := range allForms {
		if _, err := formDate(meta, src, f); err == nil {
			forms = append(forms, f)
		}
	}
	return forms
}
