package genepool

import "fmt"

// SiteFrequency counts the alleles carried by the individuals of a pool at one
// locus.
type SiteFrequency struct {
	Position  int
	Reference Allele
	Counts    [len(Alphabet)]int // Indexed by position in Alphabet
	Total     int
}

// Count returns how many individuals carry a.
func (f SiteFrequency) Count(a Allele) int {
	code, ok := baseCode(byte(a))
	if !ok {
		return 0
	}

	return f.Counts[code]
}

// Frequency returns the fraction of individuals carrying a.
func (f SiteFrequency) Frequency(a Allele) float64 {
	if f.Total == 0 {
		return 0
	}

	return float64(f.Count(a)) / float64(f.Total)
}

// ReferenceFrequency is the fraction of individuals carrying the reference
// allele.
func (f SiteFrequency) ReferenceFrequency() float64 {
	return f.Frequency(f.Reference)
}

// Frequencies tallies the alleles present at loc across all individuals.
func (p *GenePool) Frequencies(loc int) (SiteFrequency, error) {
	if loc < 0 || loc >= len(p.Reference) {
		return SiteFrequency{}, fmt.Errorf("location %d outside [0, %d)", loc, len(p.Reference))
	}

	f := SiteFrequency{
		Position:  loc,
		Reference: Allele(p.Reference[loc]),
	}
	for i, ind := range p.Individuals {
		if loc >= len(ind) {
			return SiteFrequency{}, fmt.Errorf("individual %d has length %d", i, len(ind))
		}
		code, ok := baseCode(ind[loc])
		if !ok {
			return SiteFrequency{}, fmt.Errorf("individual %d has %q at %d", i, ind[loc], loc)
		}
		f.Counts[code]++
		f.Total++
	}

	return f, nil
}
