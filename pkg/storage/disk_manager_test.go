package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDiskManagerCreate(t *testing.T) {
	dir := "./test_disk_create"
	defer os.RemoveAll(dir)
	os.MkdirAll(dir, 0755)

	dm, err := NewDiskManager(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create disk manager: %v", err)
	}
	defer dm.Close()

	if dm.PageCount() != 0 {
		t.Errorf("Expected 0 pages in fresh file, got %d", dm.PageCount())
	}
	if dm.FileSize() != 0 {
		t.Errorf("Expected empty file, got %d bytes", dm.FileSize())
	}
}

func TestDiskManagerAllocateAndRead(t *testing.T) {
	dir := "./test_disk_allocate"
	defer os.RemoveAll(dir)
	os.MkdirAll(dir, 0755)

	dm, err := NewDiskManager(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create disk manager: %v", err)
	}
	defer dm.Close()

	pageID, err := dm.AllocatePage()
	if err != nil {
		t.Fatalf("Failed to allocate page: %v", err)
	}
	if pageID != 0 {
		t.Errorf("Expected first page id 0, got %d", pageID)
	}
	if dm.PageCount() != 1 {
		t.Errorf("Expected page count 1, got %d", dm.PageCount())
	}

	// Freshly allocated pages read back as zeros
	page, err := dm.ReadPage(pageID)
	if err != nil {
		t.Fatalf("Failed to read allocated page: %v", err)
	}
	if page.Data()[0] != 0 || page.Data()[PageSize-1] != 0 {
		t.Error("Expected allocated page to be zeroed")
	}
}

func TestDiskManagerWriteReadRoundTrip(t *testing.T) {
	dir := "./test_disk_roundtrip"
	defer os.RemoveAll(dir)
	os.MkdirAll(dir, 0755)

	dm, err := NewDiskManager(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create disk manager: %v", err)
	}
	defer dm.Close()

	pageID, _ := dm.AllocatePage()

	page := NewPage()
	page.Data()[0] = 0xAB
	page.Data()[100] = 0xCD
	page.Data()[PageSize-1] = 0xEF

	if err := dm.WritePage(pageID, page); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}

	got, err := dm.ReadPage(pageID)
	if err != nil {
		t.Fatalf("Failed to read page: %v", err)
	}
	if got.Data()[0] != 0xAB || got.Data()[100] != 0xCD || got.Data()[PageSize-1] != 0xEF {
		t.Error("Read page does not match written data")
	}
}

func TestDiskManagerPersistence(t *testing.T) {
	dir := "./test_disk_persistence"
	defer os.RemoveAll(dir)
	os.MkdirAll(dir, 0755)
	path := filepath.Join(dir, "test.db")

	// Create and write
	dm, err := NewDiskManager(path)
	if err != nil {
		t.Fatalf("Failed to create disk manager: %v", err)
	}
	pageID, _ := dm.AllocatePage()
	page := NewPage()
	page.Data()[0] = 0x42
	if err := dm.WritePage(pageID, page); err != nil {
		t.Fatalf("Failed to write page: %v", err)
	}
	dm.Close()

	// Reopen and verify
	dm2, err := NewDiskManager(path)
	if err != nil {
		t.Fatalf("Failed to reopen disk manager: %v", err)
	}
	defer dm2.Close()

	if dm2.PageCount() != 1 {
		t.Fatalf("Expected 1 page after reopen, got %d", dm2.PageCount())
	}
	got, err := dm2.ReadPage(0)
	if err != nil {
		t.Fatalf("Failed to read page after reopen: %v", err)
	}
	if got.Data()[0] != 0x42 {
		t.Errorf("Expected persisted byte 0x42, got %#x", got.Data()[0])
	}
}

func TestDiskManagerMultiplePages(t *testing.T) {
	dir := "./test_disk_multiple"
	defer os.RemoveAll(dir)
	os.MkdirAll(dir, 0755)

	dm, err := NewDiskManager(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create disk manager: %v", err)
	}
	defer dm.Close()

	for i := 0; i < 10; i++ {
		pageID, err := dm.AllocatePage()
		if err != nil {
			t.Fatalf("Failed to allocate page %d: %v", i, err)
		}
		if pageID != PageID(i) {
			t.Fatalf("Expected page id %d, got %d", i, pageID)
		}

		page := NewPage()
		page.Data()[0] = byte(i)
		if err := dm.WritePage(pageID, page); err != nil {
			t.Fatalf("Failed to write page %d: %v", i, err)
		}
	}

	if dm.PageCount() != 10 {
		t.Errorf("Expected 10 pages, got %d", dm.PageCount())
	}
	if dm.FileSize() != 10*PageSize {
		t.Errorf("Expected file size %d, got %d", 10*PageSize, dm.FileSize())
	}

	for i := 0; i < 10; i++ {
		page, err := dm.ReadPage(PageID(i))
		if err != nil {
			t.Fatalf("Failed to read page %d: %v", i, err)
		}
		if page.Data()[0] != byte(i) {
			t.Errorf("Page %d: expected byte %d, got %d", i, i, page.Data()[0])
		}
	}
}

func TestDiskManagerReadUnallocated(t *testing.T) {
	dir := "./test_disk_read_missing"
	defer os.RemoveAll(dir)
	os.MkdirAll(dir, 0755)

	dm, err := NewDiskManager(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create disk manager: %v", err)
	}
	defer dm.Close()

	dm.AllocatePage() // page 0 exists

	if _, err := dm.ReadPage(1); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("Expected ErrPageNotFound, got %v", err)
	}
	if _, err := dm.ReadPage(InvalidPageID); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("Expected ErrPageNotFound for sentinel, got %v", err)
	}
}

func TestDiskManagerWriteUnallocated(t *testing.T) {
	dir := "./test_disk_write_missing"
	defer os.RemoveAll(dir)
	os.MkdirAll(dir, 0755)

	dm, err := NewDiskManager(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create disk manager: %v", err)
	}
	defer dm.Close()

	if err := dm.WritePage(0, NewPage()); !errors.Is(err, ErrPageNotFound) {
		t.Errorf("Expected ErrPageNotFound, got %v", err)
	}
}

func TestDiskManagerStats(t *testing.T) {
	dir := "./test_disk_stats"
	defer os.RemoveAll(dir)
	os.MkdirAll(dir, 0755)

	dm, err := NewDiskManager(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatalf("Failed to create disk manager: %v", err)
	}
	defer dm.Close()

	pageID, _ := dm.AllocatePage()
	dm.WritePage(pageID, NewPage())
	dm.ReadPage(pageID)

	stats := dm.Stats()
	if stats["total_reads"].(uint64) != 1 {
		t.Errorf("Expected 1 read, got %v", stats["total_reads"])
	}
	if stats["total_writes"].(uint64) != 1 {
		t.Errorf("Expected 1 write, got %v", stats["total_writes"])
	}
	if stats["page_count"].(uint32) != 1 {
		t.Errorf("Expected page count 1, got %v", stats["page_count"])
	}
}
