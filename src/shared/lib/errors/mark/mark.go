package mark

import "github.com/cockroachdb/errors"

// Wrap annotates err with msg and tags the result with marker so callers can
// classify it with errors.Is / markers.Is.
func Wrap(err error, marker error, msg string) error {
	return errors.Mark(errors.WrapWithDepth(1, err, msg), marker)
}

func Message(marker error, msg string) error {
	return errors.Mark(errors.NewWithDepth(1, msg), marker)
}
