package buffer

import (
	"sync"
	"sync/atomic"

	"github.com/H0TB0X420/InterchangeDB/pkg/storage"
)

// Frame is a slot in the buffer pool. Each frame can hold one page at a
// time; the pool allocates a fixed number of frames at startup and never
// destroys them.
//
// The page bytes are guarded by a reader/writer lock. The pin count and
// dirty flag are plain atomics: synchronization between threads touching
// the same page goes through the page lock, not through these counters,
// so no ordering stronger than atomicity is needed.
type Frame struct {
	id FrameID

	// mu guards the page bytes. Guards hold it for their lifetime.
	mu   sync.RWMutex
	page storage.Page

	// idMu guards pageID. InvalidPageID means the frame is empty.
	idMu   sync.Mutex
	pageID storage.PageID

	pinCount atomic.Int32
	dirty    atomic.Bool
}

func newFrame(id FrameID) *Frame {
	f := &Frame{id: id}
	f.pageID = storage.InvalidPageID
	return f
}

// ID returns the frame's index in the pool
func (f *Frame) ID() FrameID {
	return f.id
}

// PageID returns the id of the loaded page, or InvalidPageID if empty
func (f *Frame) PageID() storage.PageID {
	f.idMu.Lock()
	defer f.idMu.Unlock()
	return f.pageID
}

// SetPageID records which page occupies the frame
func (f *Frame) SetPageID(pageID storage.PageID) {
	f.idMu.Lock()
	f.pageID = pageID
	f.idMu.Unlock()
}

// Pin increments the pin count and returns the new count
func (f *Frame) Pin() int32 {
	return f.pinCount.Add(1)
}

// Unpin decrements the pin count and returns the new count.
// Panics if the count would go negative - that means an unpin without a
// matching pin, which is a bug in the caller, not a recoverable state.
func (f *Frame) Unpin() int32 {
	n := f.pinCount.Add(-1)
	if n < 0 {
		panic("buffer: frame pin count underflow")
	}
	return n
}

// PinCount returns the current number of outstanding pins
func (f *Frame) PinCount() int32 {
	return f.pinCount.Load()
}

// IsPinned reports whether any guard references the frame
func (f *Frame) IsPinned() bool {
	return f.PinCount() > 0
}

// MarkDirty flags the page as modified since the last flush or load
func (f *Frame) MarkDirty() {
	f.dirty.Store(true)
}

// ClearDirty resets the dirty flag
func (f *Frame) ClearDirty() {
	f.dirty.Store(false)
}

// IsDirty reports whether the page has unflushed modifications
func (f *Frame) IsDirty() bool {
	return f.dirty.Load()
}

// IsEmpty reports whether no page is loaded
func (f *Frame) IsEmpty() bool {
	return !f.PageID().Valid()
}

// IsEvictable reports whether the frame holds a page that no guard
// references
func (f *Frame) IsEvictable() bool {
	return f.PageID().Valid() && !f.IsPinned()
}

// Reset returns the frame to its empty state: zeroed page, no identity,
// no pins, clean
func (f *Frame) Reset() {
	f.mu.Lock()
	f.page.Reset()
	f.mu.Unlock()
	f.SetPageID(storage.InvalidPageID)
	f.pinCount.Store(0)
	f.dirty.Store(false)
}
