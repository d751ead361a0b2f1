package features

import (
	"io"

	"github.com/cockroachdb/errors"
)

// PairSource yields (truth, mixed) pairs and returns io.EOF once it is empty.
type PairSource[T any, M any] interface {
	Next() (T, M, error)
}

type Batch[T any, M any] struct {
	Truth []T
	Mixed []M
}

func (b Batch[T, M]) Len() int {
	return len(b.Truth)
}

// Batcher groups consecutive pairs. A short final batch is returned before
// io.EOF.
type Batcher[T any, M any] struct {
	source    PairSource[T, M]
	batchSize int
	exhausted bool
}

func NewBatcher[T any, M any](source PairSource[T, M], batchSize int) (*Batcher[T, M], error) {
	if batchSize <= 0 {
		return nil, errors.Newf("batch size %d must be positive", batchSize)
	}

	return &Batcher[T, M]{
		source:    source,
		batchSize: batchSize,
	}, nil
}

func (b *Batcher[T, M]) Next() (Batch[T, M], error) {
	if b.exhausted {
		return Batch[T, M]{}, io.EOF
	}

	batch := Batch[T, M]{
		Truth: make([]T, 0, b.batchSize),
		Mixed: make([]M, 0, b.batchSize),
	}

	for batch.Len() < b.batchSize {
		truth, mixed, err := b.source.Next()
		if errors.Is(err, io.EOF) {
			b.exhausted = true
			break
		}
		if err != nil {
			return Batch[T, M]{}, err
		}

		batch.Truth = append(batch.Truth, truth)
		batch.Mixed = append(batch.Mixed, mixed)
	}

	if batch.Len() == 0 {
		return Batch[T, M]{}, io.EOF
	}

	return batch, nil
}

// SlicePairs replays a fixed list of pairs, then io.EOF.
type SlicePairs[T any, M any] struct {
	Truth []T
	Mixed []M
	next  int
}

func (s *SlicePairs[T, M]) Next() (T, M, error) {
	var (
		truth T
		mixed M
	)

	if s.next >= len(s.Truth) || s.next >= len(s.Mixed) {
		return truth, mixed, io.EOF
	}

	truth, mixed = s.Truth[s.next], s.Mixed[s.next]
	s.next++
	return truth, mixed, nil
}
