package buffer

import (
	"fmt"
	"sync"

	"github.com/H0TB0X420/InterchangeDB/pkg/storage"
)

// BufferPool caches disk pages in a fixed set of frames and arbitrates
// concurrent access to them. Higher layers fetch pages by id, receive a
// guard, read or write through it, and release it; the pool takes care
// of pinning, eviction and dirty write-back.
//
// Internal locking, in acquisition order: the page-table lock (RWMutex),
// the free-list lock, the replacer's internal lock, the disk manager's
// lock, and finally the per-frame page locks. The fetch fast path looks
// up the frame under the shared page-table lock, releases it, and only
// then acquires the page lock, so a reader blocked on a writer never
// holds up the table. The miss path holds the exclusive table lock
// across the disk read; concurrent lookups wait, which keeps the
// install atomic at the cost of throughput under miss storms.
type BufferPool struct {
	// frames is the fixed pool of slots, never resized after construction
	frames []*Frame

	// mu guards pageTable
	mu        sync.RWMutex
	pageTable map[storage.PageID]FrameID

	// flMu guards freeList, a LIFO stack of empty frames
	flMu     sync.Mutex
	freeList []FrameID

	replacer Replacer
	diskMgr  *storage.DiskManager
	stats    *Stats
	poolSize int
}

// NewBufferPool creates a buffer pool with poolSize frames and a FIFO
// eviction policy. Panics if poolSize is not positive.
func NewBufferPool(poolSize int, diskMgr *storage.DiskManager) *BufferPool {
	return NewBufferPoolWithReplacer(poolSize, diskMgr, NewFIFOReplacer())
}

// NewBufferPoolWithReplacer creates a buffer pool with the given
// eviction policy. The policy cannot be swapped after construction.
func NewBufferPoolWithReplacer(poolSize int, diskMgr *storage.DiskManager, replacer Replacer) *BufferPool {
	if poolSize <= 0 {
		panic("buffer: pool size must be positive")
	}

	frames := make([]*Frame, poolSize)
	freeList := make([]FrameID, 0, poolSize)
	for i := poolSize - 1; i >= 0; i-- {
		frames[i] = newFrame(FrameID(i))
		freeList = append(freeList, FrameID(i))
	}

	return &BufferPool{
		frames:    frames,
		pageTable: make(map[storage.PageID]FrameID, poolSize),
		freeList:  freeList,
		replacer:  replacer,
		diskMgr:   diskMgr,
		stats:     NewStats(),
		poolSize:  poolSize,
	}
}

// FetchPageRead returns a shared guard on the requested page, loading it
// from disk if it is not resident.
func (bp *BufferPool) FetchPageRead(pageID storage.PageID) (*ReadGuard, error) {
	f, err := bp.fetchFrame(pageID)
	if err != nil {
		return nil, err
	}
	f.mu.RLock()
	return &ReadGuard{pool: bp, frame: f, pageID: pageID}, nil
}

// FetchPageWrite returns an exclusive guard on the requested page,
// loading it from disk if it is not resident. The page is marked dirty
// when the guard is released.
func (bp *BufferPool) FetchPageWrite(pageID storage.PageID) (*WriteGuard, error) {
	f, err := bp.fetchFrame(pageID)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	return &WriteGuard{pool: bp, frame: f, pageID: pageID}, nil
}

// CheckedReadPage is FetchPageRead returning nil instead of an error
func (bp *BufferPool) CheckedReadPage(pageID storage.PageID) *ReadGuard {
	g, err := bp.FetchPageRead(pageID)
	if err != nil {
		return nil
	}
	return g
}

// CheckedWritePage is FetchPageWrite returning nil instead of an error
func (bp *BufferPool) CheckedWritePage(pageID storage.PageID) *WriteGuard {
	g, err := bp.FetchPageWrite(pageID)
	if err != nil {
		return nil
	}
	return g
}

// AllocatePageID extends the database file by one page and returns the
// new id. The page is not brought into the pool.
func (bp *BufferPool) AllocatePageID() (storage.PageID, error) {
	return bp.diskMgr.AllocatePage()
}

// NewPage allocates a page on disk, installs it zero-filled into the
// pool (no disk read) and returns an exclusive guard on it.
//
// If no frame can be obtained the freshly allocated page id stays on
// disk unused; a compaction utility can reclaim it later.
func (bp *BufferPool) NewPage() (*WriteGuard, error) {
	pageID, err := bp.AllocatePageID()
	if err != nil {
		return nil, err
	}

	bp.mu.Lock()
	frameID, err := bp.acquireFreeFrameLocked()
	if err != nil {
		bp.mu.Unlock()
		return nil, err
	}

	f := bp.frames[frameID]
	f.mu.Lock()
	f.page.Reset()
	f.mu.Unlock()

	f.SetPageID(pageID)
	f.Pin()
	bp.pageTable[pageID] = frameID
	bp.replacer.RecordAccess(frameID)
	bp.replacer.SetEvictable(frameID, false)
	bp.mu.Unlock()

	f.mu.Lock()
	return &WriteGuard{pool: bp, frame: f, pageID: pageID}, nil
}

// DeletePage removes a page from the pool (not from disk). Deleting a
// page that is not resident is a no-op; deleting a pinned page fails
// with ErrPagePinned. Dirty contents are discarded - callers that need
// them durable must flush first.
func (bp *BufferPool) DeletePage(pageID storage.PageID) error {
	bp.mu.Lock()
	defer bp.mu.Unlock()

	frameID, ok := bp.pageTable[pageID]
	if !ok {
		return nil
	}

	f := bp.frames[frameID]
	if f.IsPinned() {
		return fmt.Errorf("%w: page %d", ErrPagePinned, pageID)
	}

	delete(bp.pageTable, pageID)
	f.SetPageID(storage.InvalidPageID)
	f.ClearDirty()
	bp.replacer.Remove(frameID)

	bp.flMu.Lock()
	bp.freeList = append(bp.freeList, frameID)
	bp.flMu.Unlock()

	return nil
}

// FlushPage writes the page to disk if it is resident and dirty, then
// clears its dirty flag. Flushing a non-resident page is a no-op. Pin
// state and evictability are unaffected.
func (bp *BufferPool) FlushPage(pageID storage.PageID) error {
	bp.mu.RLock()
	frameID, ok := bp.pageTable[pageID]
	bp.mu.RUnlock()
	if !ok {
		return nil
	}
	return bp.flushFrame(bp.frames[frameID], pageID)
}

// FlushAllPages writes every resident dirty page to disk
func (bp *BufferPool) FlushAllPages() error {
	type target struct {
		pageID  storage.PageID
		frameID FrameID
	}

	bp.mu.RLock()
	targets := make([]target, 0, len(bp.pageTable))
	for pageID, frameID := range bp.pageTable {
		targets = append(targets, target{pageID, frameID})
	}
	bp.mu.RUnlock()

	for _, t := range targets {
		if err := bp.flushFrame(bp.frames[t.frameID], t.pageID); err != nil {
			return err
		}
	}
	return nil
}

// GetPinCount returns the pin count of a resident page. The second
// return value is false when the page is not in the pool.
func (bp *BufferPool) GetPinCount(pageID storage.PageID) (int32, bool) {
	bp.mu.RLock()
	defer bp.mu.RUnlock()

	frameID, ok := bp.pageTable[pageID]
	if !ok {
		return 0, false
	}
	return bp.frames[frameID].PinCount(), true
}

// ContainsPage reports whether the page is resident in the pool
func (bp *BufferPool) ContainsPage(pageID storage.PageID) bool {
	bp.mu.RLock()
	defer bp.mu.RUnlock()
	_, ok := bp.pageTable[pageID]
	return ok
}

// Stats returns the pool's performance counters
func (bp *BufferPool) Stats() *Stats {
	return bp.stats
}

// PoolSize returns the number of frames in the pool
func (bp *BufferPool) PoolSize() int {
	return bp.poolSize
}

// FreeFrameCount returns the number of empty frames
func (bp *BufferPool) FreeFrameCount() int {
	bp.flMu.Lock()
	defer bp.flMu.Unlock()
	return len(bp.freeList)
}

// PageCount returns the number of pages resident in the pool
func (bp *BufferPool) PageCount() int {
	bp.mu.RLock()
	defer bp.mu.RUnlock()
	return len(bp.pageTable)
}

// DiskManager returns the pool's disk collaborator
func (bp *BufferPool) DiskManager() *storage.DiskManager {
	return bp.diskMgr
}

// unpinFrame is called by guards on release. The guard has already
// dropped the page lock; marking dirty, unpinning and flipping the
// evictability flag happen after, so a victim search that picks this
// frame never deadlocks against the releasing guard.
func (bp *BufferPool) unpinFrame(f *Frame, dirty bool) {
	if dirty {
		f.MarkDirty()
	}
	if f.Unpin() == 0 {
		bp.replacer.SetEvictable(f.id, true)
	}
}

// fetchFrame locates the frame for a page, loading the page from disk
// on a miss, and returns it pinned and marked non-evictable. The caller
// acquires the page lock afterwards; no pool lock is held at that point.
func (bp *BufferPool) fetchFrame(pageID storage.PageID) (*Frame, error) {
	if !pageID.Valid() {
		return nil, fmt.Errorf("%w: %d", storage.ErrInvalidPageID, pageID)
	}

	// Fast path: cache hit under the shared page-table lock.
	bp.mu.RLock()
	if frameID, ok := bp.pageTable[pageID]; ok {
		f := bp.pinResidentLocked(frameID)
		bp.mu.RUnlock()
		return f, nil
	}
	bp.mu.RUnlock()

	// Slow path: re-check under the exclusive lock, then load.
	bp.mu.Lock()
	defer bp.mu.Unlock()

	if frameID, ok := bp.pageTable[pageID]; ok {
		return bp.pinResidentLocked(frameID), nil
	}

	bp.stats.cacheMisses.Add(1)

	frameID, err := bp.acquireFreeFrameLocked()
	if err != nil {
		return nil, err
	}
	f := bp.frames[frameID]

	pageData, err := bp.diskMgr.ReadPage(pageID)
	if err != nil {
		// Hand the frame back so the pool stays whole.
		bp.flMu.Lock()
		bp.freeList = append(bp.freeList, frameID)
		bp.flMu.Unlock()
		return nil, err
	}
	bp.stats.pagesRead.Add(1)

	f.mu.Lock()
	f.page.CopyFrom(pageData)
	f.mu.Unlock()

	f.SetPageID(pageID)
	f.Pin()
	bp.pageTable[pageID] = frameID
	bp.replacer.RecordAccess(frameID)
	bp.replacer.SetEvictable(frameID, false)

	return f, nil
}

// pinResidentLocked handles a cache hit. Called with bp.mu held in
// either mode.
func (bp *BufferPool) pinResidentLocked(frameID FrameID) *Frame {
	f := bp.frames[frameID]
	f.Pin()
	bp.replacer.RecordAccess(frameID)
	bp.replacer.SetEvictable(frameID, false)
	bp.stats.cacheHits.Add(1)
	return f
}

// acquireFreeFrameLocked returns an empty frame, evicting a victim if
// the free list is exhausted. Called with bp.mu held exclusively.
func (bp *BufferPool) acquireFreeFrameLocked() (FrameID, error) {
	bp.flMu.Lock()
	if n := len(bp.freeList); n > 0 {
		frameID := bp.freeList[n-1]
		bp.freeList = bp.freeList[:n-1]
		bp.flMu.Unlock()
		return frameID, nil
	}
	bp.flMu.Unlock()

	return bp.evictFrameLocked()
}

// evictFrameLocked asks the replacer for a victim, writes it back if
// dirty and clears its identity. Called with bp.mu held exclusively.
func (bp *BufferPool) evictFrameLocked() (FrameID, error) {
	frameID, ok := bp.replacer.Evict()
	if !ok {
		return 0, ErrNoFreeFrames
	}

	f := bp.frames[frameID]
	oldPageID := f.PageID()

	if f.IsDirty() && oldPageID.Valid() {
		if err := bp.flushFrame(f, oldPageID); err != nil {
			// Leave the victim resident and re-register it so a
			// later eviction can retry the flush.
			bp.replacer.RecordAccess(frameID)
			bp.replacer.SetEvictable(frameID, true)
			return 0, err
		}
	}

	if oldPageID.Valid() {
		delete(bp.pageTable, oldPageID)
	}
	f.ClearDirty()
	f.SetPageID(storage.InvalidPageID)
	bp.stats.evictions.Add(1)

	return frameID, nil
}

// flushFrame writes a frame's page to disk under a shared page lock, so
// concurrent readers are undisturbed while a concurrent writer makes the
// flush wait. The identity re-check guards against the frame having
// been recycled between lookup and lock acquisition.
func (bp *BufferPool) flushFrame(f *Frame, pageID storage.PageID) error {
	if !f.IsDirty() {
		return nil
	}

	f.mu.RLock()
	if f.PageID() != pageID {
		f.mu.RUnlock()
		return nil
	}

	err := bp.diskMgr.WritePage(pageID, &f.page)
	if err == nil {
		f.ClearDirty()
		bp.stats.pagesWritten.Add(1)
	}
	f.mu.RUnlock()

	return err
}
