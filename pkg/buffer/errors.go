package buffer

import "errors"

var (
	// ErrNoFreeFrames means the pool is full and every frame is pinned
	ErrNoFreeFrames = errors.New("buffer: no free frames available")

	// ErrPagePinned means a page could not be deleted because guards
	// still reference it
	ErrPagePinned = errors.New("buffer: page still pinned")
)
