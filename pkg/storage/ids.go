package storage

import "math"

// PageID is a unique identifier for a page: its position in the backing file.
// Page N lives at byte offset N * PageSize.
type PageID uint32

// InvalidPageID is the sentinel meaning "no page"
const InvalidPageID PageID = math.MaxUint32

// Valid reports whether the id is usable as a page position
func (id PageID) Valid() bool {
	return id != InvalidPageID
}
