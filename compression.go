package genepool

import "strings"

// Compression indicates how (and whether) a serialized pool is compressed.
type Compression uint32

const (
	CompressionDisabled Compression = iota
	CompressionZStandard
)

// ZStandardSuffix marks destinations and sources holding Zstandard data.
const ZStandardSuffix = ".zst"

func (c Compression) String() string {
	switch c {
	case CompressionDisabled:
		return "CompressionDisabled"
	case CompressionZStandard:
		return "CompressionZStandard"

	default:
		return "Illegal selection"
	}
}

// CompressionFor picks the compression implied by a destination's name.
func CompressionFor(path string) Compression {
	if strings.HasSuffix(path, ZStandardSuffix) {
		return CompressionZStandard
	}

	return CompressionDisabled
}
