package dummy

import (
	"context"
	"sync"
	"time"

	"github.com/veedubyou/separation-be/src/shared/filestore"
	"github.com/veedubyou/separation-be/src/shared/lib/errors/mark"
)

var _ filestore.FileStore = &FileStore{}

func NewDummyFileStore() *FileStore {
	return &FileStore{
		Unavailable: false,
		Files:       make(map[string][]byte),
		ModTimes:    make(map[string]time.Time),
		Now:         time.Now,
	}
}

type FileStore struct {
	Unavailable bool
	Files       map[string][]byte
	ModTimes    map[string]time.Time
	Now         func() time.Time
	mutex       sync.RWMutex
}

func (f *FileStore) WriteFile(ctx context.Context, key string, contents []byte) error {
	if f.Unavailable {
		return NetworkFailure
	}

	if err := filestore.ValidateKey(key); err != nil {
		return err
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	f.Files[key] = append([]byte(nil), contents...)
	f.ModTimes[key] = f.Now()
	return nil
}

func (f *FileStore) GetFile(ctx context.Context, key string) ([]byte, error) {
	if f.Unavailable {
		return nil, NetworkFailure
	}

	if err := filestore.ValidateKey(key); err != nil {
		return nil, err
	}

	f.mutex.RLock()
	defer f.mutex.RUnlock()

	contents, ok := f.Files[key]
	if !ok {
		return nil, mark.Wrap(NotFound, filestore.FileNotFound, "File is not found")
	}

	return contents, nil
}

func (f *FileStore) DeleteFile(ctx context.Context, key string) error {
	if f.Unavailable {
		return NetworkFailure
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	if _, ok := f.Files[key]; !ok {
		return mark.Wrap(NotFound, filestore.FileNotFound, "File is not found")
	}

	delete(f.Files, key)
	delete(f.ModTimes, key)
	return nil
}

func (f *FileStore) ListFiles(ctx context.Context) ([]filestore.FileInfo, error) {
	if f.Unavailable {
		return nil, NetworkFailure
	}

	f.mutex.RLock()
	defer f.mutex.RUnlock()

	files := []filestore.FileInfo{}
	for key, modTime := range f.ModTimes {
		files = append(files, filestore.FileInfo{Key: key, ModTime: modTime})
	}

	return files, nil
}

func (f *FileStore) Has(key string) bool {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	_, ok := f.Files[key]
	return ok
}
