package graph

import "os"

// Storage abstracts the backing file so tests can substitute an in-memory
// implementation.
type Storage interface {
	Read() ([]byte, error)
	Write(data []byte) error
}

type fileStorage struct {
	path string
}

func NewFileStorage(path string) Storage {
	return &fileStorage{path: path}
}

func (f *fileStorage) Read() ([]byte, error) {
	return os.ReadFile(f.path)
}

func (f *fileStorage) Write(data []byte) error {
	return os.WriteFile(f.path, data, 0644)
}
