package storage

import (
	"fmt"
	"os"
	"sync"
)

// DiskManager handles physical disk I/O for a single database file.
//
// Pages are laid out contiguously: page N lives at byte offset N*PageSize.
// Allocation is append-only; the file grows one zeroed page at a time.
// Every write is followed by a sync so the data is durable before the
// call returns.
//
// All operations are serialized behind a single mutex - I/O is the
// bottleneck, so finer-grained locking buys nothing here.
type DiskManager struct {
	mu          sync.Mutex
	dataFile    *os.File
	pageCount   uint32
	totalReads  uint64
	totalWrites uint64
}

// NewDiskManager opens the database file at path, creating it if needed.
// The page count is derived from the current file size.
func NewDiskManager(path string) (*DiskManager, error) {
	file, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file: %w", err)
	}

	fileInfo, err := file.Stat()
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to stat data file: %w", err)
	}

	return &DiskManager{
		dataFile:  file,
		pageCount: uint32(fileInfo.Size() / PageSize),
	}, nil
}

// ReadPage reads a page from disk.
// Returns ErrPageNotFound if the page has not been allocated.
func (dm *DiskManager) ReadPage(pageID PageID) (*Page, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if !pageID.Valid() || uint32(pageID) >= dm.pageCount {
		return nil, fmt.Errorf("%w: page %d (page count %d)", ErrPageNotFound, pageID, dm.pageCount)
	}

	page := NewPage()
	offset := int64(pageID) * PageSize
	if _, err := dm.dataFile.ReadAt(page.Data(), offset); err != nil {
		return nil, fmt.Errorf("failed to read page %d: %w", pageID, err)
	}

	dm.totalReads++
	return page, nil
}

// WritePage writes a page to disk and syncs it to durable media.
// The page must have been allocated with AllocatePage.
func (dm *DiskManager) WritePage(pageID PageID, page *Page) error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if !pageID.Valid() || uint32(pageID) >= dm.pageCount {
		return fmt.Errorf("%w: page %d (page count %d)", ErrPageNotFound, pageID, dm.pageCount)
	}

	offset := int64(pageID) * PageSize
	if _, err := dm.dataFile.WriteAt(page.Data(), offset); err != nil {
		return fmt.Errorf("failed to write page %d: %w", pageID, err)
	}
	if err := dm.dataFile.Sync(); err != nil {
		return fmt.Errorf("failed to sync page %d: %w", pageID, err)
	}

	dm.totalWrites++
	return nil
}

// AllocatePage extends the file by one zeroed page and returns its id
func (dm *DiskManager) AllocatePage() (PageID, error) {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if PageID(dm.pageCount) == InvalidPageID {
		return InvalidPageID, fmt.Errorf("%w: page id space exhausted", ErrInvalidPageID)
	}

	pageID := PageID(dm.pageCount)
	offset := int64(pageID) * PageSize

	zeros := make([]byte, PageSize)
	if _, err := dm.dataFile.WriteAt(zeros, offset); err != nil {
		return InvalidPageID, fmt.Errorf("failed to allocate page %d: %w", pageID, err)
	}
	if err := dm.dataFile.Sync(); err != nil {
		return InvalidPageID, fmt.Errorf("failed to sync allocation of page %d: %w", pageID, err)
	}

	dm.pageCount++
	return pageID, nil
}

// PageCount returns the number of pages in the database file
func (dm *DiskManager) PageCount() uint32 {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.pageCount
}

// FileSize returns the total size of the database file in bytes
func (dm *DiskManager) FileSize() int64 {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return int64(dm.pageCount) * PageSize
}

// Sync flushes all buffered file data to disk
func (dm *DiskManager) Sync() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()
	return dm.dataFile.Sync()
}

// Close syncs and closes the data file
func (dm *DiskManager) Close() error {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	if err := dm.dataFile.Sync(); err != nil {
		return err
	}
	return dm.dataFile.Close()
}

// Stats returns disk manager statistics
func (dm *DiskManager) Stats() map[string]interface{} {
	dm.mu.Lock()
	defer dm.mu.Unlock()

	return map[string]interface{}{
		"page_count":   dm.pageCount,
		"file_size":    int64(dm.pageCount) * PageSize,
		"total_reads":  dm.totalReads,
		"total_writes": dm.totalWrites,
	}
}
