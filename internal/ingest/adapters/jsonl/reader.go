package jsonl

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"strings"

	"paper-trends-service/internal/ingest/core/domain"
	"paper-trends-service/internal/ingest/core/ports"

	"github.com/klauspost/compress/gzip"
)

// Snapshot records can carry long abstracts; one line can run to a few
// hundred KB. Anything past this limit is structurally unreadable: the line
// is discarded to its end and counted as malformed, never a stream failure.
const maxLineBytes = 4 * 1024 * 1024

type rawEnvelope struct {
	ID       string `json:"id"`
	Versions []struct {
		Version string `json:"version"`
		Created string `json:"created"`
	} `json:"versions"`
	UpdateDate string `json:"update_date"`
	Categories string `json:"categories"`
}

// Reader yields one RawRecord per non-blank JSON line. Unreadable lines,
// over-long ones included, surface as domain.ErrMalformedRecord and do not
// end the stream.
type Reader struct {
	buf     *bufio.Reader
	closers []io.Closer
}

var _ ports.RecordSourcePort = (*Reader)(nil)

// Open reads a JSON-lines snapshot from disk, decompressing transparently
// when the file name ends in .gz.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var src io.Reader = f
	closers := []io.Closer{f}
	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, err
		}
		src = gz
		closers = []io.Closer{gz, f}
	}

	return newReader(src, closers), nil
}

// New wraps an already-open stream, for tests and piped input.
func New(src io.Reader) *Reader {
	return newReader(src, nil)
}

func newReader(src io.Reader, closers []io.Closer) *Reader {
	return &Reader{buf: bufio.NewReaderSize(src, maxLineBytes), closers: closers}
}

func (r *Reader) Next(ctx context.Context) (*domain.RawRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for {
		line, err := r.readLine()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
		atEOF := errors.Is(err, io.EOF)

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			if atEOF {
				return nil, io.EOF
			}
			continue
		}

		var env rawEnvelope
		if err := json.Unmarshal([]byte(trimmed), &env); err != nil {
			return nil, domain.ErrMalformedRecord
		}

		rec := &domain.RawRecord{
			ID:         env.ID,
			UpdateDate: env.UpdateDate,
			Categories: env.Categories,
		}
		for _, v := range env.Versions {
			rec.Versions = append(rec.Versions, domain.Version{Version: v.Version, Created: v.Created})
		}
		return rec, nil
	}
}

// readLine frames one line against the fixed buffer. A line longer than
// maxLineBytes is consumed to its terminator and reported as one malformed
// record, so the stream position stays on the next line.
func (r *Reader) readLine() (string, error) {
	line, err := r.buf.ReadSlice('\n')
	if err == nil || errors.Is(err, io.EOF) {
		return string(line), err
	}
	if !errors.Is(err, bufio.ErrBufferFull) {
		return "", err
	}
	for {
		_, err = r.buf.ReadSlice('\n')
		switch {
		case err == nil, errors.Is(err, io.EOF):
			return "", domain.ErrMalformedRecord
		case errors.Is(err, bufio.ErrBufferFull):
			// keep discarding the over-long line
		default:
			return "", err
		}
	}
}

func (r *Reader) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
