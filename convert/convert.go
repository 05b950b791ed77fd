package convert

import (
	"errors"
	"fmt"

	"github.com/gbv/jconv/schema/article"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Skip marks an input which yields no record, without being a failure.
type Skip struct {
	err error
}

func (s Skip) Error() string {
	return s.err.Error()
}

var (
	ErrSkipDeleted    = Skip{err: errors.New("deleted record")}
	ErrSkipNotArticle = Skip{err: errors.New("not an article")}
	ErrSkipNoVariant  = Skip{err: errors.New("no article variant")}

	ErrNoPublisher    = errors.New("no publisher")
	ErrIncompleteName = errors.New("incomplete name")
	ErrNoAffiliation  = errors.New("no affiliation")
)

// IsSkip reports whether err is a Skip.
func IsSkip(err error) bool {
	var s Skip
	return errors.As(err, &s)
}

// Result is a single assembled record. Err collects problems found during
// assembly, which did not stop the record from being built; the validation
// gate decides about it.
type Result struct {
	Name   string
	Form   string
	Record *article.Record
	Err    error
}

// Assembler turns one parsed input into zero or more records.
type Assembler interface {
	Assemble() []Result
}

// Batch runs assemblers sequentially through a validation gate. Records
// which fail validation are dropped and flag the whole batch.
type Batch struct {
	ID               string
	Validator        article.Validator
	Accepted         []Result
	ValidationFailed bool
	NumRejected      int

	log *logrus.Entry
}

// NewBatch creates a batch. A nil validator accepts every record.
func NewBatch(v article.Validator) *Batch {
	id := uuid.New().String()
	return &Batch{
		ID:        id,
		Validator: v,
		log:       logrus.WithField("batch", id),
	}
}

// Add assembles and validates, returning the accepted results of this call.
func (b *Batch) Add(a Assembler) []Result {
	var accepted []Result
	for _, r := range a.Assemble() {
		log := b.log.WithFields(logrus.Fields{"doc": r.Name, "form": r.Form})
		if r.Err != nil {
			log.WithError(r.Err).Debug("incomplete record")
		}
		if b.Validator != nil {
			if err := b.Validator.Validate(r.Record); err != nil {
				log.WithError(err).Info("rejected record")
				b.ValidationFailed = true
				b.NumRejected++
				continue
			}
		}
		accepted = append(accepted, r)
	}
	b.Accepted = append(b.Accepted, accepted...)
	return accepted
}

// Reset drops accepted results, keeping the failure flag.
func (b *Batch) Reset() {
	b.Accepted = nil
}

func (b *Batch) String() string {
	return fmt.Sprintf("batch %s: %d accepted, %d rejected", b.ID, len(b.Accepted), b.NumRejected)
}
