package archive

import (
	"context"
	"fmt"
)

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendKuzu   = "kuzu"
)

// Open creates the store for backend and initializes its schema. For the
// kuzu backend an empty path opens an in-memory database; otherwise path is
// the database directory.
func Open(ctx context.Context, backend, path string) (Store, error) {
	var (
		s   Store
		err error
	)
	switch backend {
	case "", BackendMemory:
		s = NewMemStore()
	case BackendKuzu:
		s, err = openKuzu(path)
	default:
		return nil, fmt.Errorf("archive: unknown backend %q", backend)
	}
	if err != nil {
		return nil, err
	}
	if err := s.InitSchema(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}
