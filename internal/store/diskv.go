package store

import (
	"errors"
	"io/fs"

	"github.com/peterbourgon/diskv/v3"
)

// DiskStore keeps one file per key in a flat directory. Reads always hit the
// disk so that other processes sharing the directory are seen.
type DiskStore struct {
	d *diskv.Diskv
}

func NewDiskStore(basePath string) *DiskStore {
	return &DiskStore{d: diskv.New(diskv.Options{
		BasePath:     basePath,
		Transform:    func(string) []string { return []string{} },
		CacheSizeMax: 0,
	})}
}

func (s *DiskStore) Get(key string) (string, bool, error) {
	val, err := s.d.Read(key)
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return string(val), true, nil
}

func (s *DiskStore) Set(key, value string) error {
	return s.d.Write(key, []byte(value))
}
