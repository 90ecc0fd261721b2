package genepool

import "fmt"

// MutateBackground gives each individual one chance, with probability
// probOther, of a single extra mutation at a position that is not a SNP
// location. The replacement base is one of the three bases differing from
// the individual's current base there.
//
// The trial is drawn even when every position is a SNP location; the
// mutation is then skipped.
func MutateBackground(rng *Source, probOther float64, locations []int, individuals [][]byte) error {
	if len(individuals) == 0 {
		return nil
	}

	others := complement(len(individuals[0]), locations)

	for _, ind := range individuals {
		if !rng.Bernoulli(probOther) {
			continue
		}
		if len(others) == 0 {
			continue
		}

		loc := others[rng.Intn(len(others))]
		candidates := otherBases(ind[loc])
		if len(candidates) != len(Alphabet)-1 {
			return fmt.Errorf("%w: %d candidate bases at %d, expected %d", ErrInvariant, len(candidates), loc, len(Alphabet)-1)
		}
		ind[loc] = candidates[rng.Intn(len(candidates))]
	}

	return nil
}
