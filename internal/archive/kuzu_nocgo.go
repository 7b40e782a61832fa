//go:build !cgo

package archive

import "errors"

// ErrKuzuUnavailable is returned for the kuzu backend in builds without cgo,
// since the driver wraps KuzuDB's C library.
var ErrKuzuUnavailable = errors.New("archive: kuzu backend requires cgo")

func openKuzu(string) (Store, error) {
	return nil, ErrKuzuUnavailable
}
