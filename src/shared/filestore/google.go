package filestore

import (
	"context"
	"io"

	"cloud.google.com/go/storage"
	"github.com/cockroachdb/errors"
	"github.com/veedubyou/separation-be/src/shared/lib/cerr"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

var _ FileStore = GoogleFileStore{}

// GoogleFileStore keeps files in a Cloud Storage bucket, each store under
// its own object name prefix.
type GoogleFileStore struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGoogleFileStore(bucket string, prefix string, options ...option.ClientOption) (GoogleFileStore, error) {
	client, err := storage.NewClient(context.Background(), options...)
	if err != nil {
		return GoogleFileStore{}, cerr.Wrap(err).Error("Failed to create storage client")
	}

	return GoogleFileStore{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (g GoogleFileStore) object(key string) (*storage.ObjectHandle, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	return g.client.Bucket(g.bucket).Object(g.prefix + key), nil
}

func (g GoogleFileStore) WriteFile(ctx context.Context, key string, contents []byte) error {
	object, err := g.object(key)
	if err != nil {
		return err
	}

	writer := object.NewWriter(ctx)
	if _, err := writer.Write(contents); err != nil {
		writer.Close()
		return cerr.Field("key", key).Wrap(err).Error("Failed to write object")
	}

	if err := writer.Close(); err != nil {
		return cerr.Field("key", key).Wrap(err).Error("Failed to finalize object")
	}

	return nil
}

func (g GoogleFileStore) GetFile(ctx context.Context, key string) ([]byte, error) {
	object, err := g.object(key)
	if err != nil {
		return nil, err
	}

	reader, err := object.NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, errors.Mark(cerr.Field("key", key).Wrap(err).Error("Object does not exist"), FileNotFound)
	} else if err != nil {
		return nil, cerr.Field("key", key).Wrap(err).Error("Failed to open object")
	}
	defer reader.Close()

	contents, err := io.ReadAll(reader)
	if err != nil {
		return nil, cerr.Field("key", key).Wrap(err).Error("Failed to read object")
	}

	return contents, nil
}

func (g GoogleFileStore) DeleteFile(ctx context.Context, key string) error {
	object, err := g.object(key)
	if err != nil {
		return err
	}

	err = object.Delete(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return errors.Mark(cerr.Field("key", key).Wrap(err).Error("Object does not exist"), FileNotFound)
	} else if err != nil {
		return cerr.Field("key", key).Wrap(err).Error("Failed to delete object")
	}

	return nil
}

func (g GoogleFileStore) ListFiles(ctx context.Context) ([]FileInfo, error) {
	files := []FileInfo{}
	objects := g.client.Bucket(g.bucket).Objects(ctx, &storage.Query{Prefix: g.prefix})

	for {
		attrs, err := objects.Next()
		if err == iterator.Done {
			break
		} else if err != nil {
			return nil, cerr.Field("prefix", g.prefix).Wrap(err).Error("Failed to list objects")
		}

		key := attrs.Name[len(g.prefix):]
		if ValidateKey(key) != nil {
			continue
		}

		files = append(files, FileInfo{Key: key, ModTime: attrs.Updated})
	}

	return files, nil
}

func (g GoogleFileStore) Close() error {
	return g.client.Close()
}
