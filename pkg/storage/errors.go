package storage

import "errors"

var (
	// ErrPageNotFound means the requested page exceeds the allocated range
	ErrPageNotFound = errors.New("storage: page not found")

	// ErrInvalidPageID means a caller passed the invalid sentinel or an
	// id outside the addressable range
	ErrInvalidPageID = errors.New("storage: invalid page id")
)
