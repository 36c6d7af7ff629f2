package buffer

import "github.com/H0TB0X420/InterchangeDB/pkg/storage"

// ReadGuard is a scoped handle for shared access to a page. It holds a
// shared lock on the frame's page and a pin on the frame; multiple read
// guards on the same page coexist.
//
// Callers must call Release when done. Release is idempotent; using the
// guard after Release panics. Guards are not safe for concurrent use by
// multiple goroutines.
type ReadGuard struct {
	pool     *BufferPool
	frame    *Frame
	pageID   storage.PageID
	released bool
}

// PageID returns the id of the guarded page
func (g *ReadGuard) PageID() storage.PageID {
	return g.pageID
}

// FrameID returns the id of the frame holding the page
func (g *ReadGuard) FrameID() FrameID {
	return g.frame.id
}

// IsReleased reports whether the guard has been released
func (g *ReadGuard) IsReleased() bool {
	return g.released
}

// Data returns the page contents. The returned slice must not be
// written to and must not be used after Release.
func (g *ReadGuard) Data() []byte {
	if g.released {
		panic("buffer: ReadGuard used after Release")
	}
	return g.frame.page.Data()
}

// Release drops the page lock and unpins the frame. Safe to call more
// than once; only the first call has any effect.
//
// The page lock is released before the unpin so that a concurrent
// victim search that picks this frame never waits on a lock this guard
// still holds.
func (g *ReadGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.frame.mu.RUnlock()
	g.pool.unpinFrame(g.frame, false)
}

// WriteGuard is a scoped handle for exclusive access to a page. It holds
// the frame's page lock exclusively plus a pin; no other reader or
// writer of the page can proceed while it exists.
//
// Releasing a write guard always marks the page dirty, whether or not
// bytes actually changed - write guards are expected to be taken only
// when mutation is intended, and this keeps mutation tracking out of the
// page itself.
type WriteGuard struct {
	pool     *BufferPool
	frame    *Frame
	pageID   storage.PageID
	released bool
}

// PageID returns the id of the guarded page
func (g *WriteGuard) PageID() storage.PageID {
	return g.pageID
}

// FrameID returns the id of the frame holding the page
func (g *WriteGuard) FrameID() FrameID {
	return g.frame.id
}

// IsReleased reports whether the guard has been released
func (g *WriteGuard) IsReleased() bool {
	return g.released
}

// Data returns the page contents for reading and writing. The slice
// must not be used after Release.
func (g *WriteGuard) Data() []byte {
	if g.released {
		panic("buffer: WriteGuard used after Release")
	}
	return g.frame.page.Data()
}

// Release drops the page lock, marks the page dirty and unpins the
// frame. Safe to call more than once; only the first call has any
// effect.
func (g *WriteGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	g.frame.mu.Unlock()
	g.pool.unpinFrame(g.frame, true)
}
