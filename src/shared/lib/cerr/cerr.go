package cerr

import (
	"github.com/apex/log"
	"github.com/cockroachdb/errors"
)

type F = map[string]any

// Context accumulates structured fields and an optional cause until Error
// turns it into an error value.
type Context struct {
	fields F
	cause  error
}

func Field(key string, value any) Context {
	return Context{}.Field(key, value)
}

func Fields(fields F) Context {
	return Context{}.Fields(fields)
}

func Wrap(err error) Context {
	return Context{}.Wrap(err)
}

func Error(msg string) error {
	return Context{}.errorWithDepth(1, msg)
}

func (c Context) Field(key string, value any) Context {
	return c.Fields(F{key: value})
}

func (c Context) Fields(fields F) Context {
	merged := make(F, len(c.fields)+len(fields))
	for k, v := range c.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	return Context{
		fields: merged,
		cause:  c.cause,
	}
}

func (c Context) Wrap(err error) Context {
	return Context{
		fields: c.fields,
		cause:  err,
	}
}

func (c Context) Error(msg string) error {
	return c.errorWithDepth(1, msg)
}

func (c Context) errorWithDepth(depth int, msg string) error {
	var err error
	if c.cause != nil {
		err = errors.WrapWithDepth(depth+1, c.cause, msg)
	} else {
		err = errors.NewWithDepth(depth+1, msg)
	}

	if len(c.fields) == 0 {
		return err
	}

	return &fieldsError{
		cause:  err,
		fields: c.fields,
	}
}

// CollectFields walks the whole cause chain, outer fields winning over inner ones.
func CollectFields(err error) F {
	collected := F{}
	for e := err; e != nil; e = errors.UnwrapOnce(e) {
		fe, ok := e.(*fieldsError)
		if !ok {
			continue
		}

		for k, v := range fe.fields {
			if _, exists := collected[k]; !exists {
				collected[k] = v
			}
		}
	}

	return collected
}

func Log(err error) {
	if err == nil {
		return
	}

	log.WithFields(log.Fields(CollectFields(err))).
		WithError(err).
		Error(err.Error())
}

type fieldsError struct {
	cause  error
	fields F
}

func (f *fieldsError) Error() string {
	return f.cause.Error()
}

func (f *fieldsError) Cause() error {
	return f.cause
}

func (f *fieldsError) Unwrap() error {
	return f.cause
}
