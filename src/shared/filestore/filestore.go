package filestore

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	FileNotFound = errors.New("file not found")
	ErrBadKey    = errors.New("file key is not a bare file name")
)

type FileInfo struct {
	Key     string
	ModTime time.Time
}

// FileStore holds flat, uniquely named blobs: uploaded audio waiting to be
// separated and the separated results waiting to be fetched.
type FileStore interface {
	WriteFile(ctx context.Context, key string, contents []byte) error
	GetFile(ctx context.Context, key string) ([]byte, error)
	DeleteFile(ctx context.Context, key string) error
	ListFiles(ctx context.Context) ([]FileInfo, error)
}

// ValidateKey only admits bare file names, so a key can never address
// anything outside of its store.
func ValidateKey(key string) error {
	switch {
	case key == "", key == ".", key == "..":
		return errors.Wrapf(ErrBadKey, "%q", key)
	case strings.ContainsAny(key, `/\`), strings.Contains(key, ".."):
		return errors.Wrapf(ErrBadKey, "%q", key)
	case filepath.Base(key) != key:
		return errors.Wrapf(ErrBadKey, "%q", key)
	}

	return nil
}

// Expired returns the files last modified before cutoff.
func Expired(files []FileInfo, cutoff time.Time) []FileInfo {
	expired := []FileInfo{}
	for _, file := range files {
		if file.ModTime.Before(cutoff) {
			expired = append(expired, file)
		}
	}
	return expired
}
