package genepool

import (
	"fmt"
	"sort"

	"github.com/carbocation/pfx"
)

// SampleLocations chooses numSNP distinct positions in [0, length) and returns
// them in ascending order, which is the order in which alleles are assigned.
func SampleLocations(rng *Source, length, numSNP int) ([]int, error) {
	if numSNP < 0 || numSNP > length {
		return nil, fmt.Errorf("num_snp must be in [0, %d], not %d", length, numSNP)
	}

	locations, err := rng.Sample(length, numSNP)
	if err != nil {
		return nil, pfx.Err(err)
	}
	sort.Ints(locations)

	for _, loc := range locations {
		if loc < 0 || loc >= length {
			return nil, fmt.Errorf("%w: location %d outside [0, %d)", ErrInvariant, loc, length)
		}
	}

	return locations, nil
}

// complement returns the positions in [0, length) that are not in locations,
// ascending. locations must be sorted.
func complement(length int, locations []int) []int {
	out := make([]int, 0, length-len(locations))
	next := 0
	for pos := 0; pos < length; pos++ {
		if next < len(locations) && locations[next] == pos {
			next++
			continue
		}
		out = append(out, pos)
	}

	return out
}
