package storage

import (
	"encoding/binary"
	"hash/crc32"
)

// PageType represents the type of page
type PageType uint8

const (
	// PageTypeInvalid marks an uninitialized or corrupted page
	PageTypeInvalid PageType = iota
	// PageTypeData is a generic data page
	PageTypeData
	// PageTypeBTreeInternal is a B-tree internal (non-leaf) node
	PageTypeBTreeInternal
	// PageTypeBTreeLeaf is a B-tree leaf node
	PageTypeBTreeLeaf
	// PageTypeFree is a page on a free list
	PageTypeFree
)

// String returns the string representation of the page type
func (t PageType) String() string {
	switch t {
	case PageTypeData:
		return "data"
	case PageTypeBTreeInternal:
		return "btree_internal"
	case PageTypeBTreeLeaf:
		return "btree_leaf"
	case PageTypeFree:
		return "free"
	default:
		return "invalid"
	}
}

const (
	// PageHeaderSize is the size of the page header:
	// [1-byte type][4-byte CRC32 checksum][8-byte LSN], little-endian
	PageHeaderSize = 13

	offsetPageType = 0
	offsetChecksum = 1
	offsetLSN      = 5
)

// PageHeader is the metadata stored at the beginning of every page.
// The buffer pool moves pages as opaque bytes and never interprets the
// header; higher layers and integrity checks do.
type PageHeader struct {
	Type     PageType
	Checksum uint32
	LSN      uint64
}

func decodePageHeader(data []byte) PageHeader {
	t := PageType(data[offsetPageType])
	if t > PageTypeFree {
		t = PageTypeInvalid
	}
	return PageHeader{
		Type:     t,
		Checksum: binary.LittleEndian.Uint32(data[offsetChecksum:]),
		LSN:      binary.LittleEndian.Uint64(data[offsetLSN:]),
	}
}

func (h PageHeader) encode(data []byte) {
	data[offsetPageType] = byte(h.Type)
	binary.LittleEndian.PutUint32(data[offsetChecksum:], h.Checksum)
	binary.LittleEndian.PutUint64(data[offsetLSN:], h.LSN)
}

// ComputeChecksum computes the CRC32 checksum of a full page.
// The checksum field itself is fed as zeros so the checksum does not
// include itself and can be verified in place.
func ComputeChecksum(data []byte) uint32 {
	crc := crc32.NewIEEE()
	crc.Write(data[:offsetChecksum])
	var zeros [4]byte
	crc.Write(zeros[:])
	crc.Write(data[offsetChecksum+4:])
	return crc.Sum32()
}
