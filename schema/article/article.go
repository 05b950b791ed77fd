// Package article contains the canonical article record, which all source
// families converge to.
package article

import (
	"fmt"
	"strconv"

	"github.com/gbv/jconv/dateutil"
)

// Access information values for URLs, in increasing order of openness.
const (
	AccessUnknown  = "unknown"
	AccessOA       = "OA"
	AccessOALizenz = "OALizenz"
)

// Record is a normalized article.
type Record struct {
	Title            string        `json:"title" validate:"required"`
	LangCode         []string      `json:"lang_code" validate:"max=1,dive,len=3,langcode"`
	PrimaryID        ID            `json:"primary_id"`
	OtherIDs         []ID          `json:"other_ids,omitempty" validate:"dive"`
	Journal          Journal       `json:"journal"`
	Persons          []Person      `json:"persons" validate:"dive"`
	Abstracts        []Abstract    `json:"abstracts,omitempty" validate:"dive"`
	SubjectTerms     []SubjectTerm `json:"subject_terms,omitempty" validate:"dive"`
	Copyright        string        `json:"copyright,omitempty"`
	DateOfProduction string        `json:"dateOfProduction,omitempty" validate:"omitempty,partialdate"`
	URLs             []URL         `json:"urls,omitempty" validate:"dive"`
}

// ID is an identifier together with its scheme.
type ID struct {
	Type string `json:"type" validate:"required"`
	ID   string `json:"id"`
}

// Journal is the containing journal of an article.
type Journal struct {
	Title      string     `json:"title"`
	JournalIDs []ID       `json:"journal_ids,omitempty" validate:"dive"`
	Publisher  *Publisher `json:"publisher,omitempty"`
	Year       string     `json:"year" validate:"required,numeric,len=4"`
	Month      string     `json:"month,omitempty" validate:"omitempty,numeric,len=2"`
	Day        string     `json:"day,omitempty" validate:"omitempty,numeric,len=2"`
	Volume     string     `json:"volume,omitempty"`
	Issue      string     `json:"issue,omitempty"`
	StartPage  string     `json:"start_page,omitempty"`
	EndPage    string     `json:"end_page,omitempty"`
}

// SetDate flattens a partial date into year, month and day.
func (j *Journal) SetDate(d dateutil.PartialDate) {
	j.Year, j.Month, j.Day = "", "", ""
	if d.Year == 0 {
		return
	}
	j.Year = fmt.Sprintf("%04d", d.Year)
	if d.Month > 0 {
		j.Month = fmt.Sprintf("%02d", d.Month)
		if d.Day > 0 {
			j.Day = fmt.Sprintf("%02d", d.Day)
		}
	}
}

// Date returns the journal date as a partial date.
func (j *Journal) Date() dateutil.PartialDate {
	var d dateutil.PartialDate
	d.Year, _ = strconv.Atoi(j.Year)
	d.Month, _ = strconv.Atoi(j.Month)
	d.Day, _ = strconv.Atoi(j.Day)
	return d
}

// AddID appends an identifier, unless one with the same type exists.
func (j *Journal) AddID(typ, id string) bool {
	if id == "" {
		return false
	}
	for _, v := range j.JournalIDs {
		if v.Type == typ {
			return false
		}
	}
	j.JournalIDs = append(j.JournalIDs, ID{Type: typ, ID: id})
	return true
}

type Publisher struct {
	Name  string `json:"name,omitempty"`
	Place string `json:"place,omitempty"`
}

// Person is a contributor. Fullname is always set; first and last name only
// if known separately.
type Person struct {
	Firstname   string       `json:"firstname,omitempty"`
	Lastname    string       `json:"lastname,omitempty"`
	Fullname    string       `json:"fullname" validate:"required"`
	Role        string       `json:"role,omitempty" validate:"omitempty,oneof=aut"`
	Affiliation *Affiliation `json:"affiliation,omitempty"`
}

type Affiliation struct {
	Name           string `json:"name" validate:"required"`
	AffiliationIDs []ID   `json:"affiliation_ids,omitempty" validate:"dive"`
}

type Abstract struct {
	LangCode string `json:"lang_code,omitempty" validate:"omitempty,langcode"`
	Text     string `json:"text" validate:"required"`
}

type SubjectTerm struct {
	LangCode string   `json:"lang_code,omitempty" validate:"omitempty,langcode"`
	Scheme   string   `json:"scheme" validate:"required"`
	Terms    []string `json:"terms" validate:"min=1,dive,required"`
}

type URL struct {
	URL        string `json:"url" validate:"required,url"`
	Scope      string `json:"scope" validate:"required"`
	AccessInfo string `json:"access_info" validate:"oneof=unknown OA OALizenz"`
}

// Upgrade raises the access information to v, if v is more open than the
// current value. Access information never gets downgraded.
func (u *URL) Upgrade(v string) {
	if accessRank(v) > accessRank(u.AccessInfo) {
		u.AccessInfo = v
	}
}

func accessRank(v string) int {
	switch v {
	case AccessOA:
		return 1
	case AccessOALizenz:
		return 2
	}
	return 0
}
