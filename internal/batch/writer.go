package batch

import (
	"context"
	"errors"
	"fmt"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/types"
)

// WriteFunc persists one chunk of records
type WriteFunc[T any] func(ctx context.Context, records []T) error

// Writer splits records into fixed-size chunks and writes all chunks concurrently.
// A write succeeds only if every chunk succeeds; chunks that already committed are not rolled back,
// so the underlying sink must upsert by id.
type Writer[T any] struct {
	name       string
	size       int
	write      WriteFunc[T]
	sequential bool
}

// WriterOption configures a Writer
type WriterOption func(*writerOptions)

type writerOptions struct {
	sequential bool
}

// Sequential sends chunks one after another and stops at the first failing chunk
func Sequential() WriterOption {
	return func(o *writerOptions) {
		o.sequential = true
	}
}

// NewWriter creates a writer that sends chunks of size records to write
func NewWriter[T any](name string, size int, write WriteFunc[T], opts ...WriterOption) *Writer[T] {
	var o writerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return &Writer[T]{
		name:       name,
		size:       size,
		write:      write,
		sequential: o.sequential,
	}
}

// Write persists records. Empty input is a no-op.
// The returned error joins the errors of every failed chunk.
func (w *Writer[T]) Write(ctx context.Context, records []T) error {
	if len(records) == 0 {
		return nil
	}

	chunks := types.Chunk(records, w.size)

	var err error
	if w.sequential {
		err = w.writeSequential(ctx, chunks)
	} else {
		err = w.writeConcurrent(ctx, chunks)
	}
	if err != nil {
		logger.WarnCtx(ctx, "Batch write failed",
			zap.String("writer", w.name),
			zap.Int("records", len(records)),
			zap.Int("chunks", len(chunks)),
			zap.Error(err),
		)
		return err
	}

	logger.DebugCtx(ctx, "Batch write completed",
		zap.String("writer", w.name),
		zap.Int("records", len(records)),
		zap.Int("chunks", len(chunks)),
	)
	return nil
}

func (w *Writer[T]) writeConcurrent(ctx context.Context, chunks [][]T) error {
	errs := make([]error, len(chunks))

	pool := pond.NewPool(len(chunks))
	group := pool.NewGroup()
	for i, chunk := range chunks {
		group.Submit(func() {
			if err := w.write(ctx, chunk); err != nil {
				errs[i] = w.chunkError(i, len(chunks), len(chunk), err)
			}
		})
	}
	_ = group.Wait()
	pool.StopAndWait()

	return errors.Join(errs...)
}

func (w *Writer[T]) writeSequential(ctx context.Context, chunks [][]T) error {
	for i, chunk := range chunks {
		if err := w.write(ctx, chunk); err != nil {
			return w.chunkError(i, len(chunks), len(chunk), err)
		}
	}
	return nil
}

func (w *Writer[T]) chunkError(i, total, size int, err error) error {
	return fmt.Errorf("%s chunk %d/%d (%d records): %w", w.name, i+1, total, size, err)
}
