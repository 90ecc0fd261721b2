package genepool

import "fmt"

// RandomReference returns length bases drawn independently and uniformly from
// Alphabet. It consumes exactly length draws.
func RandomReference(rng *Source, length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("reference length must be > 0, not %d", length)
	}

	seq := make([]byte, length)
	for i := range seq {
		seq[i] = Alphabet[rng.Intn(len(Alphabet))]
	}

	return string(seq), nil
}
