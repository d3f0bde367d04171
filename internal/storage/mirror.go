package storage

import (
	"context"
	"log/slog"
)

// MirrorStorage writes to a primary and a secondary store and reads from the
// primary. A failed secondary write is logged, not returned.
type MirrorStorage struct {
	primary   Storage
	secondary Storage
}

var _ Storage = (*MirrorStorage)(nil)

// NewMirrorStorage creates a mirrored store
func NewMirrorStorage(primary, secondary Storage) *MirrorStorage {
	return &MirrorStorage{primary: primary, secondary: secondary}
}

func (m *MirrorStorage) Store(ctx context.Context, name string, data []byte) error {
	if err := m.primary.Store(ctx, name, data); err != nil {
		return err
	}
	if err := m.secondary.Store(ctx, name, data); err != nil {
		slog.Warn("Mirror write failed", "name", name, "error", err)
	}
	return nil
}

func (m *MirrorStorage) Retrieve(ctx context.Context, name string) ([]byte, error) {
	return m.primary.Retrieve(ctx, name)
}

func (m *MirrorStorage) List(ctx context.Context, prefix string) ([]string, error) {
	return m.primary.List(ctx, prefix)
}
