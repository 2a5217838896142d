package ports

import (
	"context"

	"paper-trends-service/internal/ingest/core/domain"
)

// RecordSourcePort is a forward-only producer of raw records.
//
// Next:
//   record != nil, err == nil                     -> one record
//   record == nil, err == io.EOF                  -> end of stream
//   record == nil, err == domain.ErrMalformedRecord -> unreadable entry, stream continues
//   record == nil, other err                      -> source failure, stream over
type RecordSourcePort interface {
	Next(ctx context.Context) (*domain.RawRecord, error)
	Close() error
}
