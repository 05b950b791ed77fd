package convert

import (
	"github.com/PuerkitoBio/goquery"
	"github.com/gbv/jconv/dateutil"
	"github.com/gbv/jconv/schema/article"
	"github.com/gbv/jconv/xmldoc"
)

var journalTitleSelectors = []string{
	"journal-title-group > journal-title",
	"journal-title",
	`journal-title-group > abbrev-journal-title[abbrev-type="full"]`,
	"abbrev-journal-title",
}

// resolveJournal reconstructs the journal of an article. The journal date is
// the earliest form date found, independent of the form being assembled. If
// no date resolves, the partially filled journal is returned together with
// dateutil.ErrMissingDate.
func resolveJournal(front *goquery.Selection, src PubTypeSource) (article.Journal, error) {
	var (
		j     article.Journal
		p     = profiles[src]
		jmeta = front.ChildrenFiltered("journal-meta")
		meta  = front.ChildrenFiltered("article-meta")
	)
	j.Title, _ = xmldoc.First(jmeta, journalTitleSelectors...)
	if v, ok := xmldoc.Text(jmeta.Find(`journal-id[journal-id-type="publisher-id"]`)); ok {
		j.AddID(p.publisherID, v+p.publisherIDSx)
	}
	if v, ok := xmldoc.Text(jmeta.Find(`journal-id[journal-id-type="doi"]`)); ok {
		j.AddID("doi", v)
	}
	if v, ok := xmldoc.Text(jmeta.Find(p.issnSelector(FormElectronic))); ok {
		j.AddID("eissn", v)
	}
	if v, ok := xmldoc.Text(jmeta.Find(p.issnSelector(FormPrint))); ok {
		j.AddID("pissn", v)
	}
	name, _ := xmldoc.Text(jmeta.Find("publisher > publisher-name"))
	place, _ := xmldoc.Text(jmeta.Find("publisher > publisher-loc"))
	if name != "" || place != "" {
		j.Publisher = &article.Publisher{Name: name, Place: place}
	}
	j.Volume, _ = xmldoc.Text(meta.ChildrenFiltered("volume"))
	j.Issue, _ = xmldoc.Text(meta.ChildrenFiltered("issue"))
	j.StartPage, _ = xmldoc.Text(meta.ChildrenFiltered("fpage"))
	j.EndPage, _ = xmldoc.Text(meta.ChildrenFiltered("lpage"))

	var dates []dateutil.PartialDate
	for _, f := range allForms {
		if d, err := formDate(meta, src, f); err == nil {
			dates = append(dates, d)
		}
	}
	d, ok := dateutil.Earliest(dates...)
	if !ok {
		return j, dateutil.ErrMissingDate
	}
	j.SetDate(d)
	return j, nil
}
