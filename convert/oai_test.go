package convert

import (
	"errors"
	"testing"

	"github.com/gbv/jconv/schema/article"
	"github.com/google/go-cmp/cmp"
)

func TestOAICairn(t *testing.T) {
	a, err := NewOAIArticle(mustParseFile(t, "testdata/oai-cairn.xml"), OAICairn)
	if err != nil {
		t.Fatal(err)
	}
	results := a.Assemble()
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	if results[0].Err != nil {
		t.Errorf("unexpected error: %v", results[0].Err)
	}
	want := &article.Record{
		Title:     "La sociologie des conflits",
		LangCode:  []string{"fre"},
		PrimaryID: article.ID{Type: "oai_id", ID: "oai:cairn.info:RFS_601_0011"},
		Journal: article.Journal{
			Title:     "Revue française de sociologie",
			Year:      "2019",
			Month:     "03",
			Day:       "01",
			Volume:    "60",
			Issue:     "1",
			StartPage: "11",
			EndPage:   "40",
		},
		Persons: []article.Person{{Firstname: "Marie", Lastname: "Dupont", Fullname: "Marie Dupont"}},
		Abstracts: []article.Abstract{
			{LangCode: "fre", Text: "Cet article examine les conflits."},
			{LangCode: "eng", Text: "This article examines conflicts."},
		},
		SubjectTerms: []article.SubjectTerm{
			{LangCode: "fre", Scheme: "OpenEdition", Terms: []string{"Sociologie", "Conflits", "Médiation"}},
		},
		Copyright:        "© Presses de Sciences Po",
		DateOfProduction: "2019-03-01",
	}
	if diff := cmp.Diff(want, results[0].Record); diff != "" {
		t.Errorf("record (-want +got):\n%s", diff)
	}
	if err := article.NewValidator().Validate(results[0].Record); err != nil {
		t.Error(err)
	}
}

func TestOAIOpenEdition(t *testing.T) {
	a, err := NewOAIArticle(mustParseFile(t, "testdata/oai-openedition.xml"), OAIOpenEdition)
	if err != nil {
		t.Fatal(err)
	}
	rec, err := a.Record()
	if err != nil {
		t.Fatal(err)
	}
	if rec.DateOfProduction != "2021-11-09" {
		t.Errorf("dateOfProduction: %q", rec.DateOfProduction)
	}
	if diff := cmp.Diff(article.Journal{Title: "Journal", Year: "2020"}, rec.Journal); diff != "" {
		t.Errorf("journal (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"fre"}, rec.LangCode); diff != "" {
		t.Errorf("lang_code (-want +got):\n%s", diff)
	}
	if len(rec.SubjectTerms) != 0 || rec.Copyright != "" {
		t.Errorf("unexpected subject terms or copyright: %v %q", rec.SubjectTerms, rec.Copyright)
	}
}

func TestOAISkip(t *testing.T) {
	var cases = []struct {
		about   string
		record  string
		variant OAIVariant
		err     error
	}{
		{
			"deleted",
			`<record><header status="deleted"><identifier>oai:x:1</identifier></header></record>`,
			OAICairn,
			ErrSkipDeleted,
		},
		{
			"no variant",
			`<record><header><identifier>oai:x:1</identifier></header><metadata><dc><title>T</title></dc></metadata></record>`,
			OAIUnknown,
			ErrSkipNoVariant,
		},
		{
			"not an article",
			`<record><header><identifier>oai:x:1</identifier></header><metadata><dc><title>T</title><type>book</type></dc></metadata></record>`,
			OAIOpenEdition,
			ErrSkipNotArticle,
		},
	}
	for _, c := range cases {
		_, err := NewOAIArticle(mustParseString(t, c.record), c.variant)
		if !errors.Is(err, c.err) {
			t.Errorf("[%s] got %v, want %v", c.about, err, c.err)
		}
		if !IsSkip(err) {
			t.Errorf("[%s] expected a skip", c.about)
		}
	}
}

func TestParseCairnSource(t *testing.T) {
	j, err := ParseCairnSource("Politix|N° 125|32|2019-01-15|p. 7-33")
	if err != nil {
		t.Fatal(err)
	}
	want := article.Journal{
		Title: "Politix", Issue: "125", Volume: "32",
		Year: "2019", Month: "01", Day: "15",
		StartPage: "7", EndPage: "33",
	}
	if diff := cmp.Diff(want, j); diff != "" {
		t.Errorf("journal (-want +got):\n%s", diff)
	}
	for _, bad := range []string{"", "Title only", "T|1|2|no date|p. 1-2"} {
		if _, err := ParseCairnSource(bad); err == nil {
			t.Errorf("%q: expected error", bad)
		}
	}
}

func TestParseOAIVariant(t *testing.T) {
	for s, want := range map[string]OAIVariant{"cairn": OAICairn, "OpenEdition": OAIOpenEdition} {
		got, err := ParseOAIVariant(s)
		if err != nil || got != want {
			t.Errorf("%s: got %v, %v", s, got, err)
		}
	}
	if _, err := ParseOAIVariant("elsevier"); err == nil {
		t.Errorf("expected error")
	}
}
