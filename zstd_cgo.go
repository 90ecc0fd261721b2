//go:build cgo

package genepool

// If cgo is enabled, we use the DataDog cgo binding to libzstd.

import "github.com/DataDog/zstd"

// CompressZStandard compresses src, appending to dst if it has capacity.
func CompressZStandard(dst, src []byte) ([]byte, error) {
	return zstd.Compress(dst, src)
}

// DecompressZStandard decompresses Zstd compressed data. If dst is too small,
// or nil, a new buffer is allocated and returned.
func DecompressZStandard(dst, src []byte) ([]byte, error) {
	return zstd.Decompress(dst, src)
}
