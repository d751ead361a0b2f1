package filestore

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
)

var _ FileStore = LocalFileStore{}

type LocalFileStore struct {
	dir string
}

func NewLocalFileStore(dir string) (LocalFileStore, error) {
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return LocalFileStore{}, cerr.Field("dir", dir).Wrap(err).Error("Failed to create file store directory")
	}

	return LocalFileStore{dir: dir}, nil
}

func (l LocalFileStore) Dir() string {
	return l.dir
}

func (l LocalFileStore) path(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(l.dir, key), nil
}

func (l LocalFileStore) WriteFile(ctx context.Context, key string, contents []byte) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}

	// write then rename so readers never see a partial file
	tempFile, err := os.CreateTemp(l.dir, ".writing-*")
	if err != nil {
		return cerr.Field("key", key).Wrap(err).Error("Failed to create temp file")
	}
	defer os.Remove(tempFile.Name())

	if _, err := tempFile.Write(contents); err != nil {
		tempFile.Close()
		return cerr.Field("key", key).Wrap(err).Error("Failed to write file")
	}

	if err := tempFile.Close(); err != nil {
		return cerr.Field("key", key).Wrap(err).Error("Failed to close file")
	}

	if err := os.Rename(tempFile.Name(), path); err != nil {
		return cerr.Field("key", key).Wrap(err).Error("Failed to move file into place")
	}

	return nil
}

func (l LocalFileStore) GetFile(ctx context.Context, key string) ([]byte, error) {
	path, err := l.path(key)
	if err != nil {
		return nil, err
	}

	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Mark(cerr.Field("key", key).Wrap(err).Error("File does not exist"), FileNotFound)
	} else if err != nil {
		return nil, cerr.Field("key", key).Wrap(err).Error("Failed to read file")
	}

	return contents, nil
}

func (l LocalFileStore) DeleteFile(ctx context.Context, key string) error {
	path, err := l.path(key)
	if err != nil {
		return err
	}

	err = os.Remove(path)
	if errors.Is(err, os.ErrNotExist) {
		return errors.Mark(cerr.Field("key", key).Wrap(err).Error("File does not exist"), FileNotFound)
	} else if err != nil {
		return cerr.Field("key", key).Wrap(err).Error("Failed to delete file")
	}

	return nil
}

func (l LocalFileStore) ListFiles(ctx context.Context) ([]FileInfo, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, cerr.Field("dir", l.dir).Wrap(err).Error("Failed to list directory")
	}

	files := []FileInfo{}
	for _, entry := range entries {
		if !entry.Type().IsRegular() || ValidateKey(entry.Name()) != nil {
			continue
		}

		info, err := entry.Info()
		if errors.Is(err, os.ErrNotExist) {
			continue
		} else if err != nil {
			return nil, cerr.Field("key", entry.Name()).Wrap(err).Error("Failed to stat file")
		}

		files = append(files, FileInfo{Key: entry.Name(), ModTime: info.ModTime()})
	}

	return files, nil
}
