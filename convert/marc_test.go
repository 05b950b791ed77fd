package convert

import (
	"testing"

	"github.com/gbv/jconv/schema/article"
	"github.com/google/go-cmp/cmp"
)

func TestMarcArticle(t *testing.T) {
	m := NewMarcArticle(mustParseFile(t, "testdata/marc-ssoar.xml"))
	results := m.Assemble()
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Name != "ssoar-104623" {
		t.Errorf("name: %q", results[0].Name)
	}
	want := &article.Record{
		Title:     "Soziale Ungleichheit : eine Einführung",
		LangCode:  []string{"ger"},
		PrimaryID: article.ID{Type: "urn", ID: "urn:nbn:de:0168-ssoar-104623-1"},
		Journal: article.Journal{
			Title:      "Soziale Welt",
			JournalIDs: []article.ID{{Type: "issn", ID: "0038-6073"}},
			Publisher:  &article.Publisher{Name: "Nomos"},
			Year:       "2023",
			Volume:     "74",
			Issue:      "2",
			StartPage:  "145",
			EndPage:    "167",
		},
		Persons: []article.Person{
			{Fullname: "Schmidt, Anna"},
			{Fullname: "Weber, Jonas"},
		},
		Abstracts:        []article.Abstract{{LangCode: "ger", Text: "Der Beitrag gibt eine Einführung."}},
		DateOfProduction: "2023",
		URLs: []article.URL{
			{URL: "https://www.ssoar.info/ssoar/handle/document/104623", Scope: "00", AccessInfo: article.AccessOA},
		},
	}
	if diff := cmp.Diff(want, results[0].Record); diff != "" {
		t.Errorf("record (-want +got):\n%s", diff)
	}
	if err := article.NewValidator().Validate(results[0].Record); err != nil {
		t.Error(err)
	}
}

func TestMarcFallbacks(t *testing.T) {
	doc := mustParseString(t, `<record>
		<controlfield tag="001">ctrl-1</controlfield>
		<controlfield tag="008">250902s1999    gw            000 0 eng d</controlfield>
		<datafield tag="245"><subfield code="a">Plain title.</subfield></datafield>
		<datafield tag="773"><subfield code="t">Host</subfield></datafield>
	</record>`)
	rec, err := NewMarcArticle(doc).Record()
	if err != nil {
		t.Fatal(err)
	}
	if rec.Title != "Plain title" {
		t.Errorf("title: %q", rec.Title)
	}
	if rec.PrimaryID != (article.ID{Type: "unknown", ID: "ctrl-1"}) {
		t.Errorf("primary_id: %v", rec.PrimaryID)
	}
	if diff := cmp.Diff([]string{"eng"}, rec.LangCode); diff != "" {
		t.Errorf("default language (-want +got):\n%s", diff)
	}
	if rec.DateOfProduction != "1999" || rec.Journal.Year != "1999" {
		t.Errorf("year fallback: %q %q", rec.DateOfProduction, rec.Journal.Year)
	}
}

func TestMarcPrimaryIDPrefix(t *testing.T) {
	var cases = []struct {
		value string
		want  article.ID
	}{
		{"oai:ssoar.info:1", article.ID{Type: "oai", ID: "oai:ssoar.info:1"}},
		{"10.1000/x", article.ID{Type: "unknown", ID: "10.1000/x"}},
	}
	for _, c := range cases {
		doc := mustParseString(t, `<record><controlfield tag="001">c</controlfield>
			<datafield tag="024"><subfield code="a">`+c.value+`</subfield></datafield></record>`)
		if got := NewMarcArticle(doc).primaryID(); got != c.want {
			t.Errorf("got %v, want %v", got, c.want)
		}
	}
}
