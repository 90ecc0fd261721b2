package genepool

import (
	"fmt"
	"sort"
)

// AssignSusceptibility picks the hidden susceptibility marker: one SNP
// location, and one non-reference allele that at least one individual
// actually carries there. With no locations it returns (0, "") without
// drawing. If every individual carries the reference allele at the chosen
// location, the base is left empty.
func AssignSusceptibility(rng *Source, reference string, locations []int, individuals [][]byte) (int, string, error) {
	if len(locations) == 0 {
		return 0, "", nil
	}

	loc := locations[rng.Intn(len(locations))]
	if loc < 0 || loc >= len(reference) {
		return 0, "", fmt.Errorf("%w: location %d outside [0, %d)", ErrInvariant, loc, len(reference))
	}

	present := make(map[byte]struct{})
	for _, ind := range individuals {
		if b := ind[loc]; b != reference[loc] {
			present[b] = struct{}{}
		}
	}
	if len(present) == 0 {
		return loc, "", nil
	}

	choices := make([]byte, 0, len(present))
	for b := range present {
		choices = append(choices, b)
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i] < choices[j] })

	return loc, string(choices[rng.Intn(len(choices))]), nil
}
