package genepool

import (
	"fmt"

	"github.com/carbocation/pfx"
)

// WeightedAllele pairs an allele with its probability at one site.
type WeightedAllele struct {
	Allele Allele
	Weight float64
}

// Site is the allele distribution at one SNP location. Alleles[0] is always
// the reference allele carrying SNPWeights[0]; the others follow in the order
// shuffled for this site.
type Site struct {
	Position int
	Alleles  []WeightedAllele

	weights []float64
}

// NewSite builds the distribution for the SNP at position. The three
// non-reference bases are shuffled with one draw each.
func NewSite(rng *Source, reference string, position int) (*Site, error) {
	if position < 0 || position >= len(reference) {
		return nil, fmt.Errorf("%w: location %d outside [0, %d)", ErrInvariant, position, len(reference))
	}

	ref := reference[position]
	candidates := otherBases(ref)
	if len(candidates) != len(Alphabet)-1 {
		return nil, fmt.Errorf("%w: %d candidate alleles at %d, expected %d", ErrInvariant, len(candidates), position, len(Alphabet)-1)
	}

	order, err := rng.Sample(len(candidates), len(candidates))
	if err != nil {
		return nil, pfx.Err(err)
	}

	site := &Site{
		Position: position,
		Alleles:  make([]WeightedAllele, 0, len(SNPWeights)),
	}
	site.Alleles = append(site.Alleles, WeightedAllele{Allele: Allele(ref), Weight: SNPWeights[0]})
	for i, idx := range order {
		site.Alleles = append(site.Alleles, WeightedAllele{Allele: Allele(candidates[idx]), Weight: SNPWeights[i+1]})
	}

	site.weights = make([]float64, len(site.Alleles))
	for i, wa := range site.Alleles {
		site.weights[i] = wa.Weight
	}

	return site, nil
}

// Reference returns the reference allele of the site.
func (s *Site) Reference() Allele {
	return s.Alleles[0].Allele
}

// Draw picks one allele from the site's distribution.
func (s *Site) Draw(rng *Source) (Allele, error) {
	i, err := rng.Weighted(s.weights)
	if err != nil {
		return 0, pfx.Err(err)
	}

	return s.Alleles[i].Allele, nil
}

// AssignAlleles visits locations in the given order and, for each, builds its
// Site and overwrites that position in every individual with a fresh draw.
// All draws for one location are made before the next location is visited.
func AssignAlleles(rng *Source, reference string, locations []int, individuals [][]byte) error {
	for _, loc := range locations {
		site, err := NewSite(rng, reference, loc)
		if err != nil {
			return pfx.Err(err)
		}

		for _, ind := range individuals {
			if len(ind) != len(reference) {
				return fmt.Errorf("%w: individual of length %d, expected %d", ErrInvariant, len(ind), len(reference))
			}
			allele, err := site.Draw(rng)
			if err != nil {
				return pfx.Err(err)
			}
			ind[loc] = byte(allele)
		}
	}

	return nil
}
