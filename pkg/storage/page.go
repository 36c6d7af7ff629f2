package storage

const (
	// PageSize is the size of each page (4KB, typical OS page size)
	PageSize = 4096

	// MaxPages is the number of addressable pages with a 32-bit PageID
	MaxPages = uint64(InvalidPageID) + 1

	// MaxFileSize is the largest database file the page layout can address (16TB)
	MaxFileSize = MaxPages * PageSize
)

// Page is a fixed-size block of data - the unit of I/O between disk and memory.
// A freshly created page is zero-filled. The buffer pool stores pages in frames
// and hands out raw byte access through guards; the page itself carries no
// identity and no locking.
type Page struct {
	data [PageSize]byte
}

// NewPage creates a new zeroed page
func NewPage() *Page {
	return &Page{}
}

// Data returns the full page contents as a mutable slice
func (p *Page) Data() []byte {
	return p.data[:]
}

// Reset zeroes out the entire page
func (p *Page) Reset() {
	clear(p.data[:])
}

// CopyFrom replaces this page's contents with those of src
func (p *Page) CopyFrom(src *Page) {
	copy(p.data[:], src.data[:])
}

// Header reads the page header from the first PageHeaderSize bytes
func (p *Page) Header() PageHeader {
	return decodePageHeader(p.data[:])
}

// SetHeader writes the header into the first PageHeaderSize bytes
func (p *Page) SetHeader(h PageHeader) {
	h.encode(p.data[:])
}

// UpdateChecksum computes the page checksum and stores it in the header.
// Call after all modifications to the page are complete.
func (p *Page) UpdateChecksum() {
	h := p.Header()
	h.Checksum = ComputeChecksum(p.data[:])
	h.encode(p.data[:])
}

// VerifyChecksum reports whether the stored checksum matches the page contents
func (p *Page) VerifyChecksum() bool {
	return p.Header().Checksum == ComputeChecksum(p.data[:])
}
