package genepool

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
)

const indexSchema = `
CREATE TABLE Metadata (
	run_id TEXT NOT NULL,
	seed INTEGER NOT NULL,
	length INTEGER NOT NULL,
	num_genomes INTEGER NOT NULL,
	num_snp INTEGER NOT NULL,
	prob_other REAL NOT NULL,
	reference TEXT NOT NULL,
	susceptible_loc INTEGER NOT NULL,
	susceptible_base TEXT NOT NULL,
	checksum INTEGER NOT NULL,
	index_creation_time INTEGER NOT NULL
);
CREATE TABLE Site (
	position INTEGER PRIMARY KEY,
	reference_allele TEXT NOT NULL,
	count_a INTEGER NOT NULL,
	count_c INTEGER NOT NULL,
	count_g INTEGER NOT NULL,
	count_t INTEGER NOT NULL,
	susceptible INTEGER NOT NULL
);
CREATE TABLE Individual (
	id INTEGER PRIMARY KEY,
	sequence BLOB NOT NULL
);
`

// Index is a SQLite summary of one generated pool: the run parameters, one
// row per SNP site with its allele counts, and every individual with its
// sequence 2-bit packed.
type Index struct {
	DB       *sqlx.DB
	Metadata *IndexMetadata
}

// IndexMetadata conforms to the single row of the "Metadata" table.
type IndexMetadata struct {
	RunID             string  `db:"run_id"`
	Seed              int64   `db:"seed"`
	Length            int     `db:"length"`
	NumGenomes        int     `db:"num_genomes"`
	NumSNP            int     `db:"num_snp"`
	ProbOther         float64 `db:"prob_other"`
	Reference         string  `db:"reference"`
	SusceptibleLoc    int     `db:"susceptible_loc"`
	SusceptibleBase   string  `db:"susceptible_base"`
	Checksum          int64   `db:"checksum"`
	IndexCreationTime Time    `db:"index_creation_time"`
}

// SiteIndex conforms to the rows of the "Site" table.
type SiteIndex struct {
	Position        int    `db:"position"`
	ReferenceAllele string `db:"reference_allele"`
	CountA          int    `db:"count_a"`
	CountC          int    `db:"count_c"`
	CountG          int    `db:"count_g"`
	CountT          int    `db:"count_t"`
	Susceptible     bool   `db:"susceptible"`
}

// Counts returns the allele counts in Alphabet order.
func (s SiteIndex) Counts() [len(Alphabet)]int {
	return [len(Alphabet)]int{s.CountA, s.CountC, s.CountG, s.CountT}
}

// Config returns the parameters the indexed pool was generated with.
func (m *IndexMetadata) Config() Config {
	return Config{
		Length:     m.Length,
		NumGenomes: m.NumGenomes,
		NumSNP:     m.NumSNP,
		ProbOther:  m.ProbOther,
		Seed:       m.Seed,
	}
}

func (b *Index) Close() error {
	return b.DB.Close()
}

// indexURI turns a path into a SQLite URI filename. URI filenames have to
// begin with 'file:'; see https://www.sqlite.org/c3ref/open.html .
func indexURI(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}

	return path
}

// WriteIndex stores p, generated from cfg, in a new SQLite file at path. An
// existing file at path is replaced.
func WriteIndex(path string, cfg Config, p *GenePool) error {
	path, err := ExpandHome(path)
	if err != nil {
		return pfx.Err(err)
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return pfx.Err(err)
	}

	checksum, err := Checksum(p)
	if err != nil {
		return pfx.Err(err)
	}

	db, err := connectIndex(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer db.Close()

	if _, err := db.Exec(indexSchema); err != nil {
		return pfx.Err(fmt.Errorf("creating index schema: %w", err))
	}

	tx, err := db.Beginx()
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	meta := &IndexMetadata{
		RunID:             RunID(cfg).String(),
		Seed:              cfg.Seed,
		Length:            p.Length,
		NumGenomes:        len(p.Individuals),
		NumSNP:            len(p.Locations),
		ProbOther:         cfg.ProbOther,
		Reference:         p.Reference,
		SusceptibleLoc:    p.SusceptibleLoc,
		SusceptibleBase:   p.SusceptibleBase,
		Checksum:          int64(checksum),
		IndexCreationTime: Time(time.Now()),
	}
	if _, err := tx.NamedExec(`INSERT INTO Metadata VALUES (:run_id, :seed, :length, :num_genomes, :num_snp,
		:prob_other, :reference, :susceptible_loc, :susceptible_base, :checksum, :index_creation_time)`, meta); err != nil {
		return pfx.Err(err)
	}

	siteStmt, err := tx.PrepareNamed(`INSERT INTO Site VALUES (:position, :reference_allele,
		:count_a, :count_c, :count_g, :count_t, :susceptible)`)
	if err != nil {
		return pfx.Err(err)
	}
	defer siteStmt.Close()

	for _, loc := range p.Locations {
		f, err := p.Frequencies(loc)
		if err != nil {
			return pfx.Err(err)
		}
		row := SiteIndex{
			Position:        loc,
			ReferenceAllele: f.Reference.String(),
			CountA:          f.Counts[0],
			CountC:          f.Counts[1],
			CountG:          f.Counts[2],
			CountT:          f.Counts[3],
			Susceptible:     loc == p.SusceptibleLoc,
		}
		if _, err := siteStmt.Exec(row); err != nil {
			return pfx.Err(err)
		}
	}

	indStmt, err := tx.Preparex(`INSERT INTO Individual VALUES (?, ?)`)
	if err != nil {
		return pfx.Err(err)
	}
	defer indStmt.Close()

	for i, ind := range p.Individuals {
		packed, err := packSequence(ind)
		if err != nil {
			return pfx.Err(fmt.Errorf("individual %d: %w", i, err))
		}
		if _, err := indStmt.Exec(i, packed); err != nil {
			return pfx.Err(err)
		}
	}

	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// OpenIndex opens an index previously written by WriteIndex.
func OpenIndex(path string) (*Index, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	if _, err := os.Stat(path); err != nil {
		return nil, pfx.Err(err)
	}

	db, err := connectIndex(path)
	if err != nil {
		return nil, pfx.Err(err)
	}

	idx := &Index{
		DB:       db,
		Metadata: &IndexMetadata{},
	}
	if err := idx.DB.Get(idx.Metadata, "SELECT * FROM Metadata LIMIT 1"); err != nil {
		db.Close()
		return nil, pfx.Err(fmt.Errorf("reading index metadata: %w", err))
	}

	return idx, nil
}

// Sites returns every SNP site of the indexed pool, by ascending position.
func (b *Index) Sites() ([]SiteIndex, error) {
	var sites []SiteIndex
	if err := b.DB.Select(&sites, "SELECT * FROM Site ORDER BY position ASC"); err != nil {
		return nil, pfx.Err(err)
	}

	return sites, nil
}

// Pool rebuilds the full GenePool held in the index and checks its
// invariants.
func (b *Index) Pool() (*GenePool, error) {
	sites, err := b.Sites()
	if err != nil {
		return nil, pfx.Err(err)
	}

	p := &GenePool{
		Length:          b.Metadata.Length,
		Reference:       b.Metadata.Reference,
		Individuals:     make([]string, 0, b.Metadata.NumGenomes),
		Locations:       make([]int, 0, len(sites)),
		SusceptibleLoc:  b.Metadata.SusceptibleLoc,
		SusceptibleBase: b.Metadata.SusceptibleBase,
	}
	for _, s := range sites {
		p.Locations = append(p.Locations, s.Position)
	}

	ir, err := b.NewIndividualReader()
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer ir.Close()

	for ind := ir.Read(); ind != nil; ind = ir.Read() {
		p.Individuals = append(p.Individuals, ind.Sequence)
	}
	if ir.Error() != nil {
		return nil, pfx.Err(ir.Error())
	}

	p.sort()
	if err := p.Check(); err != nil {
		return nil, pfx.Err(err)
	}

	return p, nil
}
