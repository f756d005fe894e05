package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/pos_core/internal/apperrors"
)

const (
	folioDateLayout  = "20060102"
	MaxFolioSequence = 9999
)

// Folio is the human-readable receipt number of a sale, formatted YYYYMMDD-NNNN.
type Folio struct {
	date     time.Time
	sequence int
}

// NewFolio builds the folio for the given day and sequence number.
func NewFolio(date time.Time, sequence int) (Folio, error) {
	if sequence < 1 || sequence > MaxFolioSequence {
		return Folio{}, apperrors.Newf(apperrors.CodeInvalidArgument, "folio sequence must be between 1 and %d", MaxFolioSequence)
	}
	y, m, d := date.Date()
	return Folio{date: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), sequence: sequence}, nil
}

// ParseFolio parses a folio in its canonical string form.
func ParseFolio(value string) (Folio, error) {
	value = strings.TrimSpace(value)
	datePart, seqPart, ok := strings.Cut(value, "-")
	if !ok || len(datePart) != 8 || len(seqPart) != 4 || !isDigits(datePart) || !isDigits(seqPart) {
		return Folio{}, apperrors.Newf(apperrors.CodeInvalidArgument, "invalid folio format %q, expected YYYYMMDD-NNNN", value)
	}
	date, err := time.ParseInLocation(folioDateLayout, datePart, time.UTC)
	if err != nil {
		return Folio{}, apperrors.Newf(apperrors.CodeInvalidArgument, "invalid folio date %q", datePart)
	}
	seq, err := strconv.Atoi(seqPart)
	if err != nil {
		return Folio{}, apperrors.Newf(apperrors.CodeInvalidArgument, "invalid folio sequence %q", seqPart)
	}
	return NewFolio(date, seq)
}

// String returns the canonical representation.
func (f Folio) String() string {
	if f.IsZero() {
		return ""
	}
	return fmt.Sprintf("%s-%04d", f.date.Format(folioDateLayout), f.sequence)
}

// Date returns the business day the folio belongs to.
func (f Folio) Date() time.Time { return f.date }

// Sequence returns the per-day sequence number.
func (f Folio) Sequence() int { return f.sequence }

// IsZero reports whether the folio was never assigned.
func (f Folio) IsZero() bool { return f.sequence == 0 }

// MarshalText implements encoding.TextMarshaler.
func (f Folio) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *Folio) UnmarshalText(b []byte) error {
	if len(b) == 0 {
		*f = Folio{}
		return nil
	}
	parsed, err := ParseFolio(string(b))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}
