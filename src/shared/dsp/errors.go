package dsp

import "github.com/cockroachdb/errors"

var (
	ErrShapeMismatch = errors.New("array shapes do not match the transform's axes")
	ErrBadParameter  = errors.New("invalid transform parameter")
)
