package genepool

import (
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

// Individual is one row of the "Individual" table. ID is the individual's
// position in the sorted pool.
type Individual struct {
	ID       int    `db:"id"`
	Packed   []byte `db:"sequence"`
	Sequence string `db:"-"`
}

// IndividualReader streams the individuals of an index in ID order. Read
// returns nil once the rows are exhausted or an error occurs; check Error
// afterwards.
type IndividualReader struct {
	IndividualsSeen int
	rows            *sqlx.Rows
	length          int
	err             error
}

func (b *Index) NewIndividualReader() (*IndividualReader, error) {
	rows, err := b.DB.Queryx("SELECT * FROM Individual ORDER BY id ASC")
	if err != nil {
		return nil, pfx.Err(err)
	}

	return &IndividualReader{
		rows:   rows,
		length: b.Metadata.Length,
	}, nil
}

func (ir *IndividualReader) Error() error {
	return ir.err
}

func (ir *IndividualReader) Read() *Individual {
	if ir.err != nil {
		return nil
	}
	if !ir.rows.Next() {
		if err := ir.rows.Err(); err != nil {
			ir.err = pfx.Err(err)
		}
		return nil
	}

	ind := &Individual{}
	if err := ir.rows.StructScan(ind); err != nil {
		ir.err = pfx.Err(err)
		return nil
	}

	seq, err := unpackSequence(ind.Packed, ir.length)
	if err != nil {
		ir.err = pfx.Err(err)
		return nil
	}
	ind.Sequence = seq

	ir.IndividualsSeen++

	return ind
}

func (ir *IndividualReader) Close() error {
	return ir.rows.Close()
}
