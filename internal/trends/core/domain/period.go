package domain

import (
	"fmt"
	"time"
)

// Period is one calendar month on the analysis axis.
type Period struct {
	Year  int
	Month time.Month
}

func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod reads a "YYYY-MM" key.
func ParsePeriod(s string) (Period, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return Period{}, fmt.Errorf("invalid period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

func (p Period) Before(o Period) bool {
	if p.Year != o.Year {
		return p.Year < o.Year
	}
	return p.Month < o.Month
}

// Next is the following calendar month.
func (p Period) Next() Period {
	if p.Month == time.December {
		return Period{Year: p.Year + 1, Month: time.January}
	}
	return Period{Year: p.Year, Month: p.Month + 1}
}

func (p Period) Time() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// MonthsBetween counts periods from a to b exclusive; 0 when equal.
func MonthsBetween(a, b Period) int {
	return (b.Year-a.Year)*12 + int(b.Month) - int(a.Month)
}
