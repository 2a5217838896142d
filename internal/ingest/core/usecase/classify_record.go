package usecase

import (
	"strings"

	"paper-trends-service/internal/ingest/core/domain"

	"github.com/araddon/dateparse"
)

// Filters narrows which well-formed records are counted. Records failing a
// filter are skipped silently, distinct from malformed-record rejection.
type Filters struct {
	// CategoryPrefix keeps only records whose main category starts with the
	// prefix, compared case-insensitively. Empty means no filter.
	CategoryPrefix string
	// Since keeps only records bucketed at this month or later.
	Since *domain.TimeBucket
}

// Classifier turns one raw record into a (bucket, category) pair, a rejection
// reason, or a filter skip. Pure: no side effects, no retained state.
type Classifier struct {
	prefix string
	since  *domain.TimeBucket
}

func NewClassifier(f Filters) *Classifier {
	return &Classifier{
		prefix: strings.ToLower(f.CategoryPrefix),
		since:  f.Since,
	}
}

func (c *Classifier) Classify(rec *domain.RawRecord) domain.Classification {
	bucket, ok := resolveBucket(rec)
	if !ok {
		return domain.Classification{Kind: domain.Rejected, Reason: domain.ReasonMissingOrInvalidDate}
	}

	category, ok := mainCategory(rec.Categories)
	if !ok {
		return domain.Classification{Kind: domain.Rejected, Reason: domain.ReasonMissingCategory}
	}

	if c.since != nil && bucket.Before(*c.since) {
		return domain.Classification{Kind: domain.FilteredOut}
	}
	if c.prefix != "" && !strings.HasPrefix(strings.ToLower(category), c.prefix) {
		return domain.Classification{Kind: domain.FilteredOut}
	}

	return domain.Classification{Kind: domain.Accepted, Bucket: bucket, Category: category}
}

// resolveBucket picks the earliest version timestamp, falling back to the
// record-level update date. Timestamps arrive in several text formats
// (RFC1123-style version stamps, ISO dates), hence the permissive parse.
func resolveBucket(rec *domain.RawRecord) (domain.TimeBucket, bool) {
	created := ""
	if len(rec.Versions) > 0 {
		created = strings.TrimSpace(rec.Versions[0].Created)
	}
	if created == "" {
		created = strings.TrimSpace(rec.UpdateDate)
	}
	if created == "" {
		return domain.TimeBucket{}, false
	}

	t, err := dateparse.ParseAny(created)
	if err != nil {
		return domain.TimeBucket{}, false
	}
	return domain.BucketOf(t.UTC()), true
}

// mainCategory extracts the primary category label: the first
// whitespace-separated token of the categories field.
func mainCategory(categories string) (string, bool) {
	fields := strings.Fields(categories)
	if len(fields) == 0 {
		return "", false
	}
	return fields[0], true
}
