package batchfile

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/separation-be/src/training/features"
	"github.com/vmihailenco/msgpack/v5"
)

// File is the on-disk layout of one batch. Truth is indexed
// (example, signal, time-frame, feature-bin), Mixed drops the signal axis.
type File struct {
	Truth [][][][]float64 `msgpack:"truth"`
	Mixed [][][]float64   `msgpack:"mixed"`
}

func FromBatch(batch features.Batch[features.Tensor3, features.Tensor2]) File {
	file := File{
		Truth: make([][][][]float64, len(batch.Truth)),
		Mixed: make([][][]float64, len(batch.Mixed)),
	}

	for i, truth := range batch.Truth {
		file.Truth[i] = truth
	}
	for i, mixed := range batch.Mixed {
		file.Mixed[i] = mixed
	}

	return file
}

// Name is the file name of the i-th batch of a run.
func Name(i int) string {
	return fmt.Sprintf("batch-%05d.msgpack", i)
}

func Write(path string, file File) error {
	if len(file.Truth) != len(file.Mixed) {
		return errors.Newf("batch has %d truth examples but %d mixed", len(file.Truth), len(file.Mixed))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "failed to create directory for %s", path)
	}

	out, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "failed to create %s", path)
	}

	writer := bufio.NewWriter(out)
	if err := msgpack.NewEncoder(writer).Encode(file); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "failed to encode %s", path)
	}

	if err := writer.Flush(); err != nil {
		_ = out.Close()
		return errors.Wrapf(err, "failed to write %s", path)
	}

	return errors.Wrapf(out.Close(), "failed to close %s", path)
}

func Read(path string) (File, error) {
	in, err := os.Open(path)
	if err != nil {
		return File{}, errors.Wrapf(err, "failed to open %s", path)
	}
	defer in.Close()

	file := File{}
	if err := msgpack.NewDecoder(bufio.NewReader(in)).Decode(&file); err != nil {
		return File{}, errors.Wrapf(err, "failed to decode %s", path)
	}

	return file, nil
}
