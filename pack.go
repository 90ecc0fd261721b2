package genepool

import (
	"bytes"
	"fmt"
	"io"
)

// Sequences are stored in the pool index with two bits per base, four bases
// per byte, most significant bits first. The final byte is zero padded.

type bitReader struct {
	reader io.ByteReader
	byte   byte
	offset byte
}

func newBitReader(r io.ByteReader) *bitReader {
	return &bitReader{reader: r}
}

func (r *bitReader) ReadBit() (bool, error) {
	if r.offset == 8 {
		r.offset = 0
	}
	if r.offset == 0 {
		var err error
		if r.byte, err = r.reader.ReadByte(); err != nil {
			return false, err
		}
	}
	bit := (r.byte & (0x80 >> r.offset)) != 0
	r.offset++
	return bit, nil
}

// ReadUint reads nbits bits as an unsigned integer, most significant first.
func (r *bitReader) ReadUint(nbits int) (uint64, error) {
	var result uint64
	for i := nbits - 1; i >= 0; i-- {
		bit, err := r.ReadBit()
		if err != nil {
			return 0, err
		}
		if bit {
			result |= 1 << uint(i)
		}
	}
	return result, nil
}

type bitWriter struct {
	buf    []byte
	offset byte
}

func (w *bitWriter) WriteBit(bit bool) {
	if w.offset == 0 {
		w.buf = append(w.buf, 0)
	}
	if bit {
		w.buf[len(w.buf)-1] |= 0x80 >> w.offset
	}
	w.offset = (w.offset + 1) % 8
}

// WriteUint writes the low nbits of v, most significant first.
func (w *bitWriter) WriteUint(v uint64, nbits int) {
	for i := nbits - 1; i >= 0; i-- {
		w.WriteBit(v&(1<<uint(i)) != 0)
	}
}

func (w *bitWriter) Bytes() []byte {
	return w.buf
}

func packSequence(seq string) ([]byte, error) {
	w := &bitWriter{buf: make([]byte, 0, (len(seq)+3)/4)}
	for i := 0; i < len(seq); i++ {
		code, ok := baseCode(seq[i])
		if !ok {
			return nil, fmt.Errorf("symbol %q at %d is not in %s", seq[i], i, Alphabet)
		}
		w.WriteUint(uint64(code), 2)
	}

	return w.Bytes(), nil
}

func unpackSequence(data []byte, length int) (string, error) {
	if need := (length + 3) / 4; len(data) != need {
		return "", fmt.Errorf("packed sequence has %d bytes; expected %d for %d bases", len(data), need, length)
	}

	r := newBitReader(bytes.NewReader(data))
	seq := make([]byte, length)
	for i := range seq {
		code, err := r.ReadUint(2)
		if err != nil {
			return "", err
		}
		seq[i] = codeBase(uint8(code))
	}

	return string(seq), nil
}
