package buffer

import "testing"

func TestFIFOBasicOrder(t *testing.T) {
	r := NewFIFOReplacer()

	r.RecordAccess(0)
	r.RecordAccess(1)
	r.RecordAccess(2)

	r.SetEvictable(0, true)
	r.SetEvictable(1, true)
	r.SetEvictable(2, true)

	if r.Size() != 3 {
		t.Fatalf("Expected 3 evictable frames, got %d", r.Size())
	}

	for _, want := range []FrameID{0, 1, 2} {
		got, ok := r.Evict()
		if !ok || got != want {
			t.Fatalf("Expected to evict frame %d, got %d (ok=%v)", want, got, ok)
		}
	}
	if _, ok := r.Evict(); ok {
		t.Error("Expected no more evictable frames")
	}
}

func TestFIFOSkipsPinnedWithoutDraining(t *testing.T) {
	r := NewFIFOReplacer()

	r.RecordAccess(0)
	r.RecordAccess(1)
	r.RecordAccess(2)

	// Only frame 1 is evictable; 0 and 2 are pinned.
	r.SetEvictable(0, false)
	r.SetEvictable(1, true)
	r.SetEvictable(2, false)

	got, ok := r.Evict()
	if !ok || got != 1 {
		t.Fatalf("Expected to evict frame 1, got %d (ok=%v)", got, ok)
	}

	if _, ok := r.Evict(); ok {
		t.Fatal("Expected no evictable frames while 0 and 2 are pinned")
	}

	// Unpinning later must surface the frames in their original order:
	// the failed searches above must not have dropped them.
	r.SetEvictable(0, true)
	r.SetEvictable(2, true)

	got, ok = r.Evict()
	if !ok || got != 0 {
		t.Fatalf("Expected frame 0 first after unpinning, got %d (ok=%v)", got, ok)
	}
	got, ok = r.Evict()
	if !ok || got != 2 {
		t.Fatalf("Expected frame 2 second after unpinning, got %d (ok=%v)", got, ok)
	}
}

func TestFIFOEvictEmptyThenRefill(t *testing.T) {
	r := NewFIFOReplacer()

	if _, ok := r.Evict(); ok {
		t.Fatal("Expected empty replacer to have no victim")
	}

	r.RecordAccess(5)
	if _, ok := r.Evict(); ok {
		t.Fatal("Expected no victim while frame 5 is not evictable")
	}

	r.SetEvictable(5, true)
	got, ok := r.Evict()
	if !ok || got != 5 {
		t.Fatalf("Expected frame 5, got %d (ok=%v)", got, ok)
	}
}

func TestFIFOReaccessDoesNotReorder(t *testing.T) {
	r := NewFIFOReplacer()

	r.RecordAccess(0)
	r.RecordAccess(1)
	r.RecordAccess(0) // repeat access must not move frame 0

	r.SetEvictable(0, true)
	r.SetEvictable(1, true)

	got, _ := r.Evict()
	if got != 0 {
		t.Errorf("Expected FIFO to evict frame 0 first, got %d", got)
	}
	got, _ = r.Evict()
	if got != 1 {
		t.Errorf("Expected FIFO to evict frame 1 second, got %d", got)
	}
}

func TestFIFORemove(t *testing.T) {
	r := NewFIFOReplacer()

	r.RecordAccess(0)
	r.RecordAccess(1)
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)

	r.Remove(0)

	if r.Size() != 1 {
		t.Errorf("Expected 1 evictable frame after remove, got %d", r.Size())
	}

	got, ok := r.Evict()
	if !ok || got != 1 {
		t.Fatalf("Expected frame 1 (frame 0 was removed), got %d (ok=%v)", got, ok)
	}
}

func TestFIFORemovedFrameCanReenter(t *testing.T) {
	r := NewFIFOReplacer()

	r.RecordAccess(0)
	r.RecordAccess(1)
	r.Remove(0)

	// Frame 0 is reused: a new first access puts it at the tail.
	r.RecordAccess(0)
	r.SetEvictable(0, true)
	r.SetEvictable(1, true)

	got, _ := r.Evict()
	if got != 1 {
		t.Errorf("Expected frame 1 first (0 re-entered at tail), got %d", got)
	}
	got, _ = r.Evict()
	if got != 0 {
		t.Errorf("Expected frame 0 second, got %d", got)
	}
}

func TestFIFOSetEvictableIdempotent(t *testing.T) {
	r := NewFIFOReplacer()

	r.RecordAccess(0)
	r.SetEvictable(0, true)
	r.SetEvictable(0, true)
	if r.Size() != 1 {
		t.Errorf("Expected size 1, got %d", r.Size())
	}

	r.SetEvictable(0, false)
	r.SetEvictable(0, false)
	if r.Size() != 0 {
		t.Errorf("Expected size 0, got %d", r.Size())
	}
}
