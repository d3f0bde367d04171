// Package storage keeps the dated stage tables: on local disk, in an Azure
// blob container, or both.
package storage

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned by Retrieve for a missing object
	ErrNotFound = errors.New("object not found")

	// ErrNoInput means a stage's required input table does not exist
	ErrNoInput = errors.New("required input table missing")
)

// Storage stores named objects
type Storage interface {
	Store(ctx context.Context, name string, data []byte) error
	Retrieve(ctx context.Context, name string) ([]byte, error)

	// List returns the names starting with prefix, sorted
	List(ctx context.Context, prefix string) ([]string, error)
}

// Open returns local storage under dataDir, mirrored to an Azure blob
// container when accountName is set
func Open(ctx context.Context, dataDir, accountName, containerName string) (Storage, error) {
	local, err := NewLocalStorage(dataDir)
	if err != nil {
		return nil, err
	}
	if accountName == "" {
		return local, nil
	}

	azure, err := NewAzureStorage(ctx, accountName, containerName)
	if err != nil {
		return nil, err
	}
	return NewMirrorStorage(local, azure), nil
}
