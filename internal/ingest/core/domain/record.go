package domain

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedRecord is returned by record sources for input that cannot be
// decoded into a RawRecord at all. The aggregator counts it and moves on.
var ErrMalformedRecord = errors.New("malformed record")

// Version is one revision entry of a paper record.
type Version struct {
	Version string
	Created string
}

// RawRecord is one bibliographic entry as it arrives from the snapshot.
// It is consumed once by classification and never retained.
type RawRecord struct {
	ID         string
	Versions   []Version
	UpdateDate string
	Categories string
}

// TimeBucket is a calendar-month grouping key.
type TimeBucket struct {
	Year  int
	Month time.Month
}

func BucketOf(t time.Time) TimeBucket {
	return TimeBucket{Year: t.Year(), Month: t.Month()}
}

// ParseBucket reads a "YYYY-MM" key.
func ParseBucket(s string) (TimeBucket, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return TimeBucket{}, fmt.Errorf("invalid time bucket %q: %w", s, err)
	}
	return BucketOf(t), nil
}

func (b TimeBucket) Before(o TimeBucket) bool {
	if b.Year != o.Year {
		return b.Year < o.Year
	}
	return b.Month < o.Month
}

// Time returns the first instant of the bucket's month, UTC.
func (b TimeBucket) Time() time.Time {
	return time.Date(b.Year, b.Month, 1, 0, 0, 0, 0, time.UTC)
}

func (b TimeBucket) String() string {
	return fmt.Sprintf("%04d-%02d", b.Year, int(b.Month))
}

// RejectReason classifies why a record could not be counted.
type RejectReason string

const (
	ReasonMissingOrInvalidDate RejectReason = "missing_or_invalid_date"
	ReasonMissingCategory      RejectReason = "missing_category"
	ReasonMalformedRecord      RejectReason = "malformed_record"
)

// ClassificationKind tags the outcome of classifying one record.
type ClassificationKind int

const (
	// Accepted: the record contributes one count to (Bucket, Category).
	Accepted ClassificationKind = iota
	// Rejected: the record is malformed or incomplete; counted by reason.
	Rejected
	// FilteredOut: the record is well-formed but excluded by configuration.
	FilteredOut
)

// Classification is the tagged result of the normalization step.
// Bucket/Category are set only for Accepted, Reason only for Rejected.
type Classification struct {
	Kind     ClassificationKind
	Bucket   TimeBucket
	Category string
	Reason   RejectReason
}
