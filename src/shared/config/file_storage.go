package config

// FileStorage decides where uploads and converted files live
type FileStorage interface {
	fileStorage()
}

var _ FileStorage = LocalFileStorage{}

type LocalFileStorage struct {
	UploadDir    string
	ConvertedDir string
}

func (LocalFileStorage) fileStorage() {}

var _ FileStorage = GoogleFileStorage{}

// GoogleFileStorage keeps both stores in one bucket, separated by prefix
type GoogleFileStorage struct {
	SecretKey       string
	BucketName      string
	UploadPrefix    string
	ConvertedPrefix string
}

func (GoogleFileStorage) fileStorage() {}
