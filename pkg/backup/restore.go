package backup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/H0TB0X420/InterchangeDB/pkg/storage"
)

// Restore rebuilds a page file at path from a snapshot stream.
// The target file is truncated; restoring over a live database is the
// caller's mistake to avoid.
func Restore(r io.Reader, path string) (*Manifest, error) {
	manifestBytes, err := readFrame(r)
	if err != nil {
		return nil, err
	}

	var manifest Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, fmt.Errorf("backup: failed to decode manifest: %w", err)
	}
	if manifest.Version != SnapshotVersion {
		return nil, fmt.Errorf("backup: unsupported snapshot version %q", manifest.Version)
	}
	if manifest.PageSize != storage.PageSize {
		return nil, fmt.Errorf("backup: snapshot page size %d does not match %d", manifest.PageSize, storage.PageSize)
	}

	algorithm, err := ParseAlgorithm(manifest.Algorithm)
	if err != nil {
		return nil, err
	}

	var zstdDec *zstd.Decoder
	if algorithm == AlgorithmZstd {
		zstdDec, err = zstd.NewReader(nil)
		if err != nil {
			return nil, fmt.Errorf("backup: failed to create zstd decoder: %w", err)
		}
		defer zstdDec.Close()
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("backup: failed to create restore target: %w", err)
	}
	defer file.Close()

	for i := uint32(0); i < manifest.PageCount; i++ {
		frame, err := readFrame(r)
		if err != nil {
			return nil, err
		}

		pageData, err := decompress(algorithm, zstdDec, frame)
		if err != nil {
			return nil, fmt.Errorf("backup: failed to decompress page %d: %w", i, err)
		}
		if len(pageData) != storage.PageSize {
			return nil, fmt.Errorf("backup: page %d decompressed to %d bytes, want %d", i, len(pageData), storage.PageSize)
		}

		if _, err := file.WriteAt(pageData, int64(i)*storage.PageSize); err != nil {
			return nil, fmt.Errorf("backup: failed to write page %d: %w", i, err)
		}
	}

	if err := file.Sync(); err != nil {
		return nil, fmt.Errorf("backup: failed to sync restore target: %w", err)
	}

	return &manifest, nil
}

func decompress(algorithm Algorithm, zstdDec *zstd.Decoder, data []byte) ([]byte, error) {
	switch algorithm {
	case AlgorithmNone:
		return data, nil
	case AlgorithmSnappy:
		return snappy.Decode(nil, data)
	case AlgorithmZstd:
		return zstdDec.DecodeAll(data, nil)
	case AlgorithmGzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		return io.ReadAll(gr)
	default:
		return nil, fmt.Errorf("backup: unknown algorithm %d", algorithm)
	}
}
