package storage

import "msver/internal/structures"

// Office365Store and WindowsStore are distinct wrapper types so each
// harvester/service pair gets wired to its own base directory.

type Office365Store struct {
	FileStore
}

type WindowsStore struct {
	FileStore
}

func NewOffice365Store(conf *structures.Config) (*Office365Store, error) {
	s, err := NewLocalStore(conf.Office365.StorageDir)
	if err != nil {
		return nil, err
	}
	return &Office365Store{FileStore: s}, nil
}

func NewWindowsStore(conf *structures.Config) (*WindowsStore, error) {
	s, err := NewLocalStore(conf.Windows.StorageDir)
	if err != nil {
		return nil, err
	}
	return &WindowsStore{FileStore: s}, nil
}
