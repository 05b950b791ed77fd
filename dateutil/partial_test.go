package dateutil

import (
	"errors"
	"testing"
	"time"

	"github.com/gbv/jconv/xmldoc"
)

func TestPartialDateOrder(t *testing.T) {
	var (
		y    = PartialDate{Year: 2020}
		ym   = PartialDate{Year: 2020, Month: 6}
		ymd  = PartialDate{Year: 2020, Month: 6, Day: 15}
		next = PartialDate{Year: 2021}
	)
	ordered := []PartialDate{y, ym, ymd, next}
	for i := range ordered {
		for j := range ordered {
			got := ordered[i].Before(ordered[j])
			if want := i < j; got != want {
				t.Errorf("%v before %v: got %v, want %v", ordered[i], ordered[j], got, want)
			}
		}
	}
	if !ymd.Equal(PartialDate{Year: 2020, Month: 6, Day: 15}) {
		t.Errorf("expected equal dates")
	}
	if ym.Equal(ymd) {
		t.Errorf("dates differing in day must not be equal")
	}
}

func TestEarliest(t *testing.T) {
	var cases = []struct {
		about string
		dates []PartialDate
		want  PartialDate
		found bool
	}{
		{"none", nil, PartialDate{}, false},
		{"only zero", []PartialDate{{}}, PartialDate{}, false},
		{"single", []PartialDate{{Year: 2019}}, PartialDate{Year: 2019}, true},
		{"skip zero", []PartialDate{{}, {Year: 2019, Month: 3}}, PartialDate{Year: 2019, Month: 3}, true},
		{"year before month", []PartialDate{{Year: 2020, Month: 1}, {Year: 2020}}, PartialDate{Year: 2020}, true},
		{"later first", []PartialDate{{Year: 2021}, {Year: 2020, Month: 12, Day: 31}}, PartialDate{Year: 2020, Month: 12, Day: 31}, true},
	}
	for _, c := range cases {
		got, ok := Earliest(c.dates...)
		if got != c.want || ok != c.found {
			t.Errorf("[%s] got %v (%v), want %v (%v)", c.about, got, ok, c.want, c.found)
		}
	}
}

func TestString(t *testing.T) {
	var cases = []struct {
		d    PartialDate
		want string
	}{
		{PartialDate{}, ""},
		{PartialDate{Year: 2020}, "2020"},
		{PartialDate{Year: 2020, Month: 6}, "2020-06"},
		{PartialDate{Year: 2020, Month: 6, Day: 5}, "2020-06-05"},
	}
	for _, c := range cases {
		if got := c.d.String(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}

func TestFromSelection(t *testing.T) {
	doc, err := xmldoc.ParseString(`<front>
	<pub-date id="full"><day>15</day><month>06</month><year>2020</year></pub-date>
	<pub-date id="ym"><month>6</month><year>2020</year></pub-date>
	<pub-date id="y"><year> 2020 </year></pub-date>
	<pub-date id="badmonth"><month>13</month><day>3</day><year>2020</year></pub-date>
	<pub-date id="noyear"><month>6</month></pub-date>
	<pub-date id="season"><season>Spring</season><year>2018</year></pub-date>
</front>`, "dates.xml")
	if err != nil {
		t.Fatal(err)
	}
	var cases = []struct {
		id   string
		want PartialDate
		err  error
	}{
		{"full", PartialDate{2020, 6, 15}, nil},
		{"ym", PartialDate{2020, 6, 0}, nil},
		{"y", PartialDate{2020, 0, 0}, nil},
		{"badmonth", PartialDate{2020, 0, 0}, nil},
		{"noyear", PartialDate{}, ErrMissingDate},
		{"season", PartialDate{2018, 0, 0}, nil},
		{"missing", PartialDate{}, ErrMissingDate},
	}
	for _, c := range cases {
		got, err := FromSelection(doc.Find(`pub-date[id="` + c.id + `"]`))
		if !errors.Is(err, c.err) {
			t.Errorf("[%s] got err %v, want %v", c.id, err, c.err)
		}
		if got != c.want {
			t.Errorf("[%s] got %v, want %v", c.id, got, c.want)
		}
	}
}

func TestParsePartial(t *testing.T) {
	var cases = []struct {
		s       string
		want    PartialDate
		wantErr bool
	}{
		{"2009", PartialDate{Year: 2009}, false},
		{"2009-04", PartialDate{Year: 2009, Month: 4}, false},
		{"2009-04-01", PartialDate{Year: 2009, Month: 4, Day: 1}, false},
		{" 2009-04-01 ", PartialDate{Year: 2009, Month: 4, Day: 1}, false},
		{"2009-13", PartialDate{}, true},
		{"April 1, 2009", PartialDate{Year: 2009, Month: 4, Day: 1}, false},
		{"no date", PartialDate{}, true},
	}
	for _, c := range cases {
		got, err := ParsePartial(c.s)
		if (err != nil) != c.wantErr {
			t.Errorf("[%s] got err %v", c.s, err)
		}
		if got != c.want {
			t.Errorf("[%s] got %v, want %v", c.s, got, c.want)
		}
	}
}

func TestFindYear(t *testing.T) {
	var cases = []struct {
		s     string
		want  int
		found bool
	}{
		{"c2011", 0, false},
		{"[2011]", 2011, true},
		{"Berlin, 1998.", 1998, true},
		{"n.d.", 0, false},
	}
	for _, c := range cases {
		got, ok := FindYear(c.s)
		if got != c.want || ok != c.found {
			t.Errorf("[%s] got %v (%v), want %v (%v)", c.s, got, ok, c.want, c.found)
		}
	}
}

func TestDaily(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 4, 0, 0, 0, 0, time.UTC)
	ivs := Daily(start, end)
	if len(ivs) != 3 {
		t.Fatalf("got %d intervals, want 3", len(ivs))
	}
	for i, iv := range ivs {
		if err := iv.Validate(); err != nil {
			t.Errorf("interval %d: %v", i, err)
		}
		if iv.Start.Day() != i+1 {
			t.Errorf("interval %d starts on day %d", i, iv.Start.Day())
		}
	}
	if got := Daily(end, start); len(got) != 0 {
		t.Errorf("expected no intervals for reversed range, got %d", len(got))
	}
}
