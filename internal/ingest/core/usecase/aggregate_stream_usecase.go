package usecase

import (
	"context"
	"errors"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"paper-trends-service/internal/ingest/core/domain"
	"paper-trends-service/internal/ingest/core/ports"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrInvalidWorkerCount = errors.New("worker count must be positive")
)

// Diagnostics describes one aggregation run. Rejections never abort a run;
// they are counted here by reason.
type Diagnostics struct {
	RunID       string
	Accepted    int64
	FilteredOut int64
	Rejections  map[domain.RejectReason]int64
	Elapsed     time.Duration
}

// Seen is the total number of stream entries the run consumed.
func (d Diagnostics) Seen() int64 {
	n := d.Accepted + d.FilteredOut
	for _, c := range d.Rejections {
		n += c
	}
	return n
}

func (d *Diagnostics) merge(other Diagnostics) {
	d.Accepted += other.Accepted
	d.FilteredOut += other.FilteredOut
	for reason, c := range other.Rejections {
		d.Rejections[reason] += c
	}
}

// AggregateStreamUseCase folds a record stream into a count matrix.
type AggregateStreamUseCase struct {
	classifier *Classifier

	// Progress, when set, is called after every ProgressEvery consumed
	// records with the run-wide count. Sharded runs call it from whichever
	// worker crosses the threshold, so it must be safe for concurrent use.
	Progress      func(seen int64)
	ProgressEvery int64
}

func NewAggregateStreamUseCase(classifier *Classifier) *AggregateStreamUseCase {
	return &AggregateStreamUseCase{classifier: classifier}
}

// Execute consumes the source to completion, one record at a time. The matrix
// grows with distinct (month, category) cells only. Cancellation is honored
// between records: the partial matrix and diagnostics built so far are
// returned together with the context error, and both remain valid.
func (uc *AggregateStreamUseCase) Execute(ctx context.Context, source ports.RecordSourcePort) (*domain.CountMatrix, Diagnostics, error) {
	started := time.Now()
	matrix := domain.NewCountMatrix()
	diag := Diagnostics{
		RunID:      uuid.NewString(),
		Rejections: make(map[domain.RejectReason]int64),
	}

	var seen atomic.Int64
	err := uc.consume(ctx, source, matrix, &diag, &seen)
	diag.Elapsed = time.Since(started)
	return matrix, diag, err
}

// ExecuteSharded runs the same fold with several workers pulling from the
// shared source, each owning a private matrix, then merges cell-wise.
// Accumulation is commutative and associative, so the result is identical to
// a single-pass run over the same stream.
func (uc *AggregateStreamUseCase) ExecuteSharded(ctx context.Context, source ports.RecordSourcePort, workers int) (*domain.CountMatrix, Diagnostics, error) {
	if workers < 1 {
		return nil, Diagnostics{}, ErrInvalidWorkerCount
	}

	started := time.Now()
	shared := &lockedSource{source: source}

	matrices := make([]*domain.CountMatrix, workers)
	partials := make([]Diagnostics, workers)

	// One counter across all workers, so progress reports stream-wide
	// totals rather than per-shard ones.
	var seen atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		i := i
		matrices[i] = domain.NewCountMatrix()
		partials[i] = Diagnostics{Rejections: make(map[domain.RejectReason]int64)}
		g.Go(func() error {
			return uc.consume(gctx, shared, matrices[i], &partials[i], &seen)
		})
	}
	err := g.Wait()

	matrix := matrices[0]
	diag := partials[0]
	diag.RunID = uuid.NewString()
	for i := 1; i < workers; i++ {
		matrix.Merge(matrices[i])
		diag.merge(partials[i])
	}
	diag.Elapsed = time.Since(started)
	return matrix, diag, err
}

func (uc *AggregateStreamUseCase) consume(ctx context.Context, source ports.RecordSourcePort, matrix *domain.CountMatrix, diag *Diagnostics, seen *atomic.Int64) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		rec, err := source.Next(ctx)
		switch {
		case err == nil:
			// fall through to classification
		case errors.Is(err, io.EOF):
			return nil
		case errors.Is(err, domain.ErrMalformedRecord):
			diag.Rejections[domain.ReasonMalformedRecord]++
			uc.progress(seen.Add(1))
			continue
		default:
			return err
		}

		switch cl := uc.classifier.Classify(rec); cl.Kind {
		case domain.Accepted:
			matrix.Add(cl.Bucket, cl.Category, 1)
			diag.Accepted++
		case domain.FilteredOut:
			diag.FilteredOut++
		case domain.Rejected:
			diag.Rejections[cl.Reason]++
		}
		uc.progress(seen.Add(1))
	}
}

func (uc *AggregateStreamUseCase) progress(seen int64) {
	if uc.Progress == nil || uc.ProgressEvery <= 0 {
		return
	}
	if seen%uc.ProgressEvery == 0 {
		uc.Progress(seen)
	}
}

// lockedSource serializes Next across shard workers. Each worker still owns
// its matrix exclusively; only the stream cursor is shared.
type lockedSource struct {
	mu     sync.Mutex
	source ports.RecordSourcePort
}

func (s *lockedSource) Next(ctx context.Context) (*domain.RawRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source.Next(ctx)
}

func (s *lockedSource) Close() error {
	return s.source.Close()
}
