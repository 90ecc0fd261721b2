package genepool

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/carbocation/pfx"
)

// Alphabet contains the symbols from which every sequence is built, in sorted
// order.
const Alphabet = "ACGT"

// SNPWeights is the probability of each allele at a SNP site. The first weight
// belongs to the reference allele; the remaining weights are attached to the
// other three alleles in an order that is shuffled independently per site.
var SNPWeights = [len(Alphabet)]float64{0.70, 0.15, 0.08, 0.07}

// ErrInvariant indicates a defect in the generator itself rather than a bad
// input. Generate aborts instead of returning a malformed pool.
var ErrInvariant = errors.New("genepool: invariant violation")

// GenePool is the generated population. Once Generate returns, the pool is
// not modified again; the JSON field names are consumed by downstream sample
// generators and must stay stable.
type GenePool struct {
	Length          int      `json:"length"`
	Reference       string   `json:"reference"`
	Individuals     []string `json:"individuals"`
	Locations       []int    `json:"locations"`
	SusceptibleLoc  int      `json:"susceptible_loc"`
	SusceptibleBase string   `json:"susceptible_base"`
}

// Config holds the parameters of one run.
type Config struct {
	Length     int
	NumGenomes int
	NumSNP     int
	ProbOther  float64
	Seed       int64
}

// ConfigError reports a configuration value that violates its constraint.
type ConfigError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Validate checks every field of the configuration. It is called by Generate
// before any random draw is made.
func (c Config) Validate() error {
	if c.Length <= 0 {
		return &ConfigError{Field: "length", Value: c.Length, Reason: "must be > 0"}
	}
	if c.NumGenomes <= 0 {
		return &ConfigError{Field: "num_genomes", Value: c.NumGenomes, Reason: "must be > 0"}
	}
	if c.NumSNP < 0 || c.NumSNP > c.Length {
		return &ConfigError{Field: "num_snp", Value: c.NumSNP, Reason: fmt.Sprintf("must be in [0, %d]", c.Length)}
	}
	if math.IsNaN(c.ProbOther) || c.ProbOther < 0 {
		return &ConfigError{Field: "prob_other", Value: c.ProbOther, Reason: "must be >= 0.0"}
	}

	return nil
}

// Generate builds a new GenePool from cfg. The same cfg always yields the
// same pool: every random draw comes from a single Source seeded with
// cfg.Seed, in a fixed order.
func Generate(cfg Config) (*GenePool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rng := NewSource(cfg.Seed)

	reference, err := RandomReference(rng, cfg.Length)
	if err != nil {
		return nil, pfx.Err(err)
	}

	locations, err := SampleLocations(rng, cfg.Length, cfg.NumSNP)
	if err != nil {
		return nil, pfx.Err(err)
	}

	individuals := make([][]byte, cfg.NumGenomes)
	for i := range individuals {
		individuals[i] = []byte(reference)
	}

	if err := AssignAlleles(rng, reference, locations, individuals); err != nil {
		return nil, pfx.Err(err)
	}

	if err := MutateBackground(rng, cfg.ProbOther, locations, individuals); err != nil {
		return nil, pfx.Err(err)
	}

	loc, base, err := AssignSusceptibility(rng, reference, locations, individuals)
	if err != nil {
		return nil, pfx.Err(err)
	}

	pool := &GenePool{
		Length:          cfg.Length,
		Reference:       reference,
		Individuals:     freeze(individuals),
		Locations:       locations,
		SusceptibleLoc:  loc,
		SusceptibleBase: base,
	}
	pool.sort()

	return pool, nil
}

// Carrier reports whether seq carries the susceptibility marker of the pool.
// A pool without a marker has no carriers.
func (p *GenePool) Carrier(seq string) bool {
	if p.SusceptibleBase == "" || p.SusceptibleLoc < 0 || p.SusceptibleLoc >= len(seq) {
		return false
	}

	return seq[p.SusceptibleLoc] == p.SusceptibleBase[0]
}

// Check verifies the structural invariants of the pool. It is meant for pools
// that were read back from a document rather than produced by Generate.
func (p *GenePool) Check() error {
	if p.Length <= 0 {
		return fmt.Errorf("%w: length %d is not positive", ErrInvariant, p.Length)
	}
	if err := checkSequence(p.Reference, p.Length); err != nil {
		return fmt.Errorf("%w: reference: %v", ErrInvariant, err)
	}
	for i, ind := range p.Individuals {
		if err := checkSequence(ind, p.Length); err != nil {
			return fmt.Errorf("%w: individual %d: %v", ErrInvariant, i, err)
		}
	}

	seen := make(map[int]struct{}, len(p.Locations))
	for _, loc := range p.Locations {
		if loc < 0 || loc >= p.Length {
			return fmt.Errorf("%w: location %d outside [0, %d)", ErrInvariant, loc, p.Length)
		}
		if _, exists := seen[loc]; exists {
			return fmt.Errorf("%w: location %d is repeated", ErrInvariant, loc)
		}
		seen[loc] = struct{}{}
	}

	if len(p.Locations) == 0 {
		if p.SusceptibleLoc != 0 || p.SusceptibleBase != "" {
			return fmt.Errorf("%w: susceptibility marker set without locations", ErrInvariant)
		}
		return nil
	}
	if _, exists := seen[p.SusceptibleLoc]; !exists {
		return fmt.Errorf("%w: susceptible_loc %d is not a SNP location", ErrInvariant, p.SusceptibleLoc)
	}
	if p.SusceptibleBase == "" {
		return nil
	}
	if len(p.SusceptibleBase) != 1 || !IsBase(p.SusceptibleBase[0]) {
		return fmt.Errorf("%w: susceptible_base %q is not a single base", ErrInvariant, p.SusceptibleBase)
	}
	if p.SusceptibleBase[0] == p.Reference[p.SusceptibleLoc] {
		return fmt.Errorf("%w: susceptible_base %s equals the reference allele", ErrInvariant, p.SusceptibleBase)
	}

	return nil
}

func (p *GenePool) sort() {
	sort.Strings(p.Individuals)
	sort.Ints(p.Locations)
}

func freeze(buffers [][]byte) []string {
	out := make([]string, len(buffers))
	for i, buf := range buffers {
		out[i] = string(buf)
	}

	return out
}

func checkSequence(seq string, length int) error {
	if len(seq) != length {
		return fmt.Errorf("length %d, expected %d", len(seq), length)
	}
	for i := 0; i < len(seq); i++ {
		if !IsBase(seq[i]) {
			return fmt.Errorf("symbol %q at %d is not in %s", seq[i], i, Alphabet)
		}
	}

	return nil
}
