package genepool

import (
	"bytes"
	"context"
	"encoding/json"
	"io"

	"github.com/carbocation/pfx"
)

// Indent is the indentation used for emitted documents.
const Indent = "    "

// Encode renders the pool as the JSON document consumed downstream.
// Individuals and locations are sorted first so that equal pools always
// encode to identical bytes.
func Encode(p *GenePool) ([]byte, error) {
	out := *p
	out.Individuals = append([]string{}, p.Individuals...)
	out.Locations = append([]int{}, p.Locations...)
	out.sort()

	data, err := json.MarshalIndent(&out, "", Indent)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return append(data, '\n'), nil
}

// Decode parses a document produced by Encode and checks its invariants.
func Decode(r io.Reader) (*GenePool, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()

	p := &GenePool{}
	if err := dec.Decode(p); err != nil {
		return nil, pfx.Err(err)
	}
	if p.Locations == nil {
		p.Locations = []int{}
	}
	if err := p.Check(); err != nil {
		return nil, pfx.Err(err)
	}

	return p, nil
}

// Write encodes the pool to dest. See Create for the destinations understood.
func Write(ctx context.Context, dest string, p *GenePool) (int, error) {
	data, err := Encode(p)
	if err != nil {
		return 0, pfx.Err(err)
	}

	w, err := Create(ctx, dest)
	if err != nil {
		return 0, pfx.Err(err)
	}

	n, err := io.Copy(w, bytes.NewReader(data))
	if err != nil {
		w.Close()
		return int(n), pfx.Err(err)
	}

	if err := w.Close(); err != nil {
		return int(n), pfx.Err(err)
	}

	return int(n), nil
}

// Read loads a pool from src. See Open for the sources understood.
func Read(ctx context.Context, src string) (*GenePool, error) {
	r, err := Open(ctx, src)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer r.Close()

	p, err := Decode(r)
	if err != nil {
		return nil, pfx.Err(err)
	}

	return p, nil
}
