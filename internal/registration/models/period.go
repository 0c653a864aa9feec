package models

import (
	"fmt"
	"time"

	dErrors "protokollo/pkg/domain-errors"
)

// Period is a calendar-month key in "YYYY-MM" form. It scopes both numbering
// counters and listing queries; the same derivation runs on the write and
// read paths so a record always lists under the period that numbered it.
type Period string

// PeriodOf derives the period of a point in time.
func PeriodOf(t time.Time) Period {
	return Period(t.Format("2006-01"))
}

// ParsePeriod validates an external "YYYY-MM" value.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return "", dErrors.Newf(dErrors.CodeValidation, "invalid period %q, want YYYY-MM", s).WithField("month")
	}
	return PeriodOf(t), nil
}

// Previous returns the calendar month before p. Used by the monthly archive.
func (p Period) Previous() Period {
	t, err := time.Parse("2006-01", string(p))
	if err != nil {
		return p
	}
	return PeriodOf(t.AddDate(0, -1, 0))
}

func (p Period) String() string { return string(p) }

// Date is a calendar date without a time component, serialized as
// "YYYY-MM-DD". Entry dates are dates, not instants: the registry book does
// not care what time of day a document arrived.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// DateOf truncates a point in time to its calendar date.
func DateOf(t time.Time) Date {
	return Date{Year: t.Year(), Month: t.Month(), Day: t.Day()}
}

// ParseDate validates an external "YYYY-MM-DD" value.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Date{}, dErrors.Newf(dErrors.CodeValidation, "invalid date %q, want YYYY-MM-DD", s).WithField("entryDate")
	}
	return DateOf(t), nil
}

// Period returns the calendar month the date falls in.
func (d Date) Period() Period {
	return PeriodOf(d.Time())
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// IsZero reports whether the date is unset.
func (d Date) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// MarshalJSON serializes the date as a "YYYY-MM-DD" string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON accepts a "YYYY-MM-DD" string.
func (d *Date) UnmarshalJSON(b []byte) error {
	s := string(b)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date must be a JSON string")
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
