//go:build !cgo

package genepool

// If cgo is not enabled, we use the pure Go implementation from
// klauspost/compress. Its output is interchangeable with libzstd's.

import (
	"github.com/klauspost/compress/zstd"
)

var (
	zstdEncoder *zstd.Encoder
	zstdDecoder *zstd.Decoder
)

func init() {
	var err error
	if zstdEncoder, err = zstd.NewWriter(nil); err != nil {
		panic(err)
	}
	if zstdDecoder, err = zstd.NewReader(nil); err != nil {
		panic(err)
	}
}

// CompressZStandard compresses src, appending to dst[:0].
func CompressZStandard(dst, src []byte) ([]byte, error) {
	return zstdEncoder.EncodeAll(src, dst[:0]), nil
}

// DecompressZStandard decompresses Zstd compressed data into dst[:0].
func DecompressZStandard(dst, src []byte) ([]byte, error) {
	return zstdDecoder.DecodeAll(src, dst[:0])
}
